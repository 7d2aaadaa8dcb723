package models

import (
	"time"

	"github.com/google/uuid"
)

// Message represents a single turn in a conversation. The full message
// sequence is stored in the JSONB messages column of the 'conversations'
// table, so these JSON tags are both the storage and the wire format.
type Message struct {
	Content   string    `json:"content"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation represents the durable per-user message log in the database.
type Conversation struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Messages  []Message `json:"messages" db:"messages"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

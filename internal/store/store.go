package store

import (
	"context"

	"voicechat-backend/internal/models"
)

// Store defines the persistence interface for conversation history.
type Store interface {
	// AppendMessage locates the conversation for userID, creating one if
	// absent, appends a message with the current timestamp, bumps the
	// conversation's updated_at, and returns the full updated conversation.
	AppendMessage(ctx context.Context, userID, content string, isUser bool) (*models.Conversation, error)

	// GetRecentConversations returns up to limit conversations for the
	// user, most-recently-updated first.
	GetRecentConversations(ctx context.Context, userID string, limit int) ([]models.Conversation, error)

	// DeleteConversations removes every conversation record for the user
	// and returns the number of records deleted.
	DeleteConversations(ctx context.Context, userID string) (int64, error)
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"voicechat-backend/internal/models"
	"voicechat-backend/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const appendMessage = `-- name: AppendMessage :one
UPDATE conversations
SET messages = messages || $2::jsonb, updated_at = NOW()
WHERE user_id = $1
RETURNING id, user_id, messages, created_at, updated_at;
`

const createConversation = `-- name: CreateConversation :one
INSERT INTO conversations (id, user_id, messages)
VALUES ($1, $2, $3::jsonb)
RETURNING id, user_id, messages, created_at, updated_at;
`

// AppendMessage appends a message to the user's conversation, creating the
// conversation record if the user has none yet. The append is a single
// UPDATE concatenating onto the JSONB messages column, so concurrent
// appends for the same user interleave instead of overwriting each other.
func (s *PostgresStore) AppendMessage(ctx context.Context, userID, content string, isUser bool) (*models.Conversation, error) {
	msg := models.Message{
		Content:   content,
		IsUser:    isUser,
		Timestamp: time.Now().UTC(),
	}
	// Marshal as a single-element array: jsonb || jsonb array concatenation
	// appends the contained elements.
	msgData, err := json.Marshal([]models.Message{msg})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	conv, err := s.scanConversation(s.db.QueryRow(ctx, appendMessage, userID, msgData))
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("database error appending message for user %s: %w", userID, err)
	}

	// No conversation yet for this user; create one seeded with the message.
	// Two concurrent first-appends can both land here and insert separate
	// records; GetRecentConversations still returns both.
	conv, err = s.scanConversation(s.db.QueryRow(ctx, createConversation, uuid.New(), userID, msgData))
	if err != nil {
		return nil, fmt.Errorf("database error creating conversation for user %s: %w", userID, err)
	}
	return conv, nil
}

const getRecentConversations = `-- name: GetRecentConversations :many
SELECT id, user_id, messages, created_at, updated_at
FROM conversations
WHERE user_id = $1
ORDER BY updated_at DESC
LIMIT $2;
`

// GetRecentConversations returns up to limit conversations for the user,
// most-recently-updated first.
func (s *PostgresStore) GetRecentConversations(ctx context.Context, userID string, limit int) ([]models.Conversation, error) {
	rows, err := s.db.Query(ctx, getRecentConversations, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("database error fetching conversations for user %s: %w", userID, err)
	}
	defer rows.Close()

	conversations := []models.Conversation{}
	for rows.Next() {
		var conv models.Conversation
		var msgData []byte
		if err := rows.Scan(&conv.ID, &conv.UserID, &msgData, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		if err := json.Unmarshal(msgData, &conv.Messages); err != nil {
			return nil, fmt.Errorf("failed to parse messages for conversation %s: %w", conv.ID, err)
		}
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over conversation rows: %w", err)
	}

	return conversations, nil
}

const deleteConversations = `-- name: DeleteConversations :exec
DELETE FROM conversations
WHERE user_id = $1;
`

// DeleteConversations removes every conversation record for the user.
func (s *PostgresStore) DeleteConversations(ctx context.Context, userID string) (int64, error) {
	tag, err := s.db.Exec(ctx, deleteConversations, userID)
	if err != nil {
		return 0, fmt.Errorf("database error deleting conversations for user %s: %w", userID, err)
	}
	deleted := tag.RowsAffected()
	log.Printf("[PostgresStore] DeleteConversations: removed %d record(s) for user %s", deleted, userID)
	return deleted, nil
}

// scanConversation scans a single conversation row, decoding the JSONB
// messages column.
func (s *PostgresStore) scanConversation(row pgx.Row) (*models.Conversation, error) {
	var conv models.Conversation
	var msgData []byte
	if err := row.Scan(&conv.ID, &conv.UserID, &msgData, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(msgData, &conv.Messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages for conversation %s: %w", conv.ID, err)
	}
	return &conv, nil
}

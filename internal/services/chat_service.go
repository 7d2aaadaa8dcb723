package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"voicechat-backend/internal/integrations"
	"voicechat-backend/internal/models"
	"voicechat-backend/internal/store"
)

// HistoryLimit caps how many conversation records a history fetch returns.
const HistoryLimit = 10

// CompletionClient generates an assistant reply to a user message.
type CompletionClient interface {
	Complete(ctx context.Context, userMessage string) (string, error)
}

// ChatService handles the conversation flow: persisting user messages,
// obtaining assistant replies, and managing per-user history.
type ChatService struct {
	store       store.Store
	completions CompletionClient
}

// NewChatService creates a new ChatService.
func NewChatService(s store.Store, completions CompletionClient) *ChatService {
	return &ChatService{
		store:       s,
		completions: completions,
	}
}

// SendMessage appends the user message to the user's conversation, obtains
// an assistant reply, appends that too, and returns the reply plus the full
// updated message log.
//
// The two appends are not atomic: if the completion or the second append
// fails, the user message stays persisted. Documented limitation; nothing
// is rolled back or retried.
func (s *ChatService) SendMessage(ctx context.Context, userID, message string) (*models.SendMessageResponse, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, integrations.InputError("No userId provided")
	}
	if message == "" {
		return nil, integrations.InputError("No message provided")
	}

	if _, err := s.store.AppendMessage(ctx, userID, message, true); err != nil {
		return nil, fmt.Errorf("failed to append user message: %w", err)
	}

	reply, err := s.completions.Complete(ctx, message)
	if err != nil {
		log.Printf("[ChatService] completion failed for user %s: %v", userID, err)
		return nil, err
	}

	conv, err := s.store.AppendMessage(ctx, userID, reply, false)
	if err != nil {
		return nil, fmt.Errorf("failed to append assistant message: %w", err)
	}

	return &models.SendMessageResponse{
		Message:     reply,
		ChatHistory: conv.Messages,
	}, nil
}

// GetHistory returns up to HistoryLimit conversations for the user,
// most-recently-updated first.
func (s *ChatService) GetHistory(ctx context.Context, userID string) ([]models.Conversation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, integrations.InputError("No userId provided")
	}

	conversations, err := s.store.GetRecentConversations(ctx, userID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %w", err)
	}
	return conversations, nil
}

// DeleteHistory removes all conversation records for the user and returns
// the number deleted.
func (s *ChatService) DeleteHistory(ctx context.Context, userID string) (int64, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, integrations.InputError("No userId provided")
	}

	deleted, err := s.store.DeleteConversations(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete conversations: %w", err)
	}
	return deleted, nil
}

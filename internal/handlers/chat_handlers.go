package handlers

import (
	"encoding/json"
	"net/http"

	"voicechat-backend/internal/models"
	"voicechat-backend/internal/services"
	"voicechat-backend/pkg/httputil"

	"github.com/go-chi/chi/v5"
)

// ChatHandlers handles HTTP requests for conversation history and messages.
type ChatHandlers struct {
	chatService *services.ChatService
}

// NewChatHandlers creates a new ChatHandlers instance.
func NewChatHandlers(chatService *services.ChatService) *ChatHandlers {
	return &ChatHandlers{
		chatService: chatService,
	}
}

// HandleGetHistory returns up to the 10 most-recently-updated conversations
// for the user, newest first.
func (h *ChatHandlers) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	conversations, err := h.chatService.GetHistory(r.Context(), userID)
	if err != nil {
		respondServiceError(w, "GetHistory", err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conversations)
}

// HandleSendMessage appends the user's message, obtains an assistant reply,
// and returns the reply plus the full updated message log.
func (h *ChatHandlers) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.chatService.SendMessage(r.Context(), req.UserID, req.Message)
	if err != nil {
		respondServiceError(w, "SendMessage", err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleDeleteHistory removes all conversation records for the user.
func (h *ChatHandlers) HandleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if _, err := h.chatService.DeleteHistory(r.Context(), userID); err != nil {
		respondServiceError(w, "DeleteHistory", err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.DeleteHistoryResponse{
		Message: "Chat history deleted successfully",
	})
}

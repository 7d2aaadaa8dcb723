package httputil

import (
	"encoding/json"
	"log"
	"net/http"

	"voicechat-backend/internal/models"
)

// RespondJSON writes a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// The status line is already on the wire; nothing left but to log.
		log.Printf("ERROR [RespondJSON]: failed to encode response: %v", err)
	}
}

// RespondError writes a JSON error response with the given status code and message.
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondJSON(w, statusCode, models.ErrorResponse{Error: message})
}

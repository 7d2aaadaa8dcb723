package handlers

import (
	"errors"
	"log"
	"net/http"

	"voicechat-backend/internal/integrations"
	"voicechat-backend/pkg/httputil"
)

// respondServiceError logs the failure with context and converts it to a
// structured JSON error. Tagged errors map to their taxonomy status;
// anything else (storage faults included) surfaces as a generic 500.
func respondServiceError(w http.ResponseWriter, op string, err error) {
	var svcErr *integrations.Error
	if errors.As(err, &svcErr) {
		log.Printf("ERROR [%s]: %s (kind=%s): %v", op, svcErr.Message, svcErr.Kind, svcErr.Err)
		httputil.RespondError(w, svcErr.HTTPStatus(), svcErr.Message)
		return
	}
	log.Printf("ERROR [%s]: %v", op, err)
	httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
}

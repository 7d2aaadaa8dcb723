package api

import (
	"log"
	"net/http"
	"time"

	"voicechat-backend/internal/config"
	"voicechat-backend/internal/handlers"
	"voicechat-backend/pkg/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies holds all the dependencies required by the router
// setup, primarily handlers and configuration.
type RouterDependencies struct {
	ChatHandlers   *handlers.ChatHandlers
	SpeechHandlers *handlers.SpeechHandlers
	Config         *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.Config.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Sample-Rate", "X-Duration-Samples"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Liveness ---
	r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{"message": "Server is running"})
	})

	// --- Chat & Speech Routes ---
	r.Route("/api/chat", func(r chi.Router) {
		if deps.ChatHandlers != nil {
			r.Get("/history/{userID}", deps.ChatHandlers.HandleGetHistory)
			r.Delete("/history/{userID}", deps.ChatHandlers.HandleDeleteHistory)
			r.Post("/message", deps.ChatHandlers.HandleSendMessage)
		} else {
			log.Println("WARN: ChatHandlers dependency is nil, skipping history/message routes.")
		}

		if deps.SpeechHandlers != nil {
			r.Post("/synthesize", deps.SpeechHandlers.HandleSynthesize)
			r.Post("/transcribe", deps.SpeechHandlers.HandleTranscribe)
		} else {
			log.Println("WARN: SpeechHandlers dependency is nil, skipping synthesize/transcribe routes.")
		}
	})

	return r
}

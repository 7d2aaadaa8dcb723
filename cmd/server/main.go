package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voicechat-backend/internal/api"
	"voicechat-backend/internal/config"
	"voicechat-backend/internal/handlers"
	"voicechat-backend/internal/integrations"
	"voicechat-backend/internal/services"
	"voicechat-backend/internal/store/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	log.Println("Starting VoiceChat Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize Database Connection Pool
	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	dbpool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Unable to create database connection pool: %v\n", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(dbCtx); err != nil {
		log.Fatalf("FATAL: Unable to ping database: %v\n", err)
	}
	log.Println("Database connection pool established and pinged successfully.")

	// 3. Initialize Dependencies (Store, Clients, Services, Handlers)
	pgStore := postgres.NewPostgresStore(dbpool)
	log.Println("Postgres store initialized.")

	// Bounded-timeout HTTP client for the LMNT REST upstream; OpenAI and
	// Deepgram calls go through their SDKs. No retries anywhere; a failed
	// call surfaces to the caller.
	upstreamHTTP := &http.Client{Timeout: cfg.UpstreamTimeout}

	completionClient := integrations.NewOpenAIClient(cfg.OpenAIKey)
	synthesisClient := integrations.NewLMNTClient(cfg.LMNTKey, upstreamHTTP)
	transcriptionClient := integrations.NewDeepgramClient(cfg.DeepgramKey)
	log.Println("Upstream API clients initialized.")

	chatService := services.NewChatService(pgStore, completionClient)
	log.Println("ChatService initialized.")
	speechService := services.NewSpeechService(synthesisClient, transcriptionClient)
	log.Println("SpeechService initialized.")

	chatHandlers := handlers.NewChatHandlers(chatService)
	speechHandlers := handlers.NewSpeechHandlers(speechService)
	log.Println("Handlers initialized.")

	// 4. Setup Router & Inject Dependencies
	routerDeps := api.RouterDependencies{
		ChatHandlers:   chatHandlers,
		SpeechHandlers: speechHandlers,
		Config:         cfg,
	}
	router := api.NewRouter(routerDeps)
	log.Println("HTTP router configured.")

	// 5. Configure and Start HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// Write timeout must cover a full upstream synthesis round trip.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel to listen for OS signals for graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	// Run server in a goroutine so it doesn't block
	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v\n", cfg.HTTPPort, err)
		}
		log.Println("Server listener routine stopped.")
	}()

	// Wait for interrupt signal
	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server graceful shutdown failed: %v", err)
	}

	log.Println("Server shutdown complete.")
}

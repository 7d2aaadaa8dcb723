package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	DatabaseURL     string
	HTTPPort        string
	OpenAIKey       string
	LMNTKey         string
	DeepgramKey     string
	AllowedOrigin   string
	UpstreamTimeout time.Duration
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	err := godotenv.Load() // Loads .env from the current directory or parent dirs
	if err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	dbURL := getEnv("DATABASE_URL", "") // No default, should fail if not set
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set.")
	}

	timeoutStr := getEnv("UPSTREAM_TIMEOUT_SECONDS", "30")
	timeoutSecs, err := strconv.Atoi(timeoutStr)
	if err != nil || timeoutSecs <= 0 {
		log.Printf("Warning: Invalid UPSTREAM_TIMEOUT_SECONDS '%s', using default 30s.", timeoutStr)
		timeoutSecs = 30
	}

	cfg := &Config{
		DatabaseURL:     dbURL,
		HTTPPort:        getEnv("HTTP_PORT", "5000"),
		OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
		LMNTKey:         getEnv("LMNT_API_KEY", ""),
		DeepgramKey:     getEnv("DEEPGRAM_API_KEY", ""),
		AllowedOrigin:   getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		UpstreamTimeout: time.Duration(timeoutSecs) * time.Second,
	}

	// A missing API key is a per-endpoint configuration error, not a
	// startup failure: the other endpoints keep working.
	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set; /api/chat/message will fail with a configuration error.")
	}
	if cfg.LMNTKey == "" {
		log.Println("Warning: LMNT_API_KEY not set; /api/chat/synthesize will fail with a configuration error.")
	}
	if cfg.DeepgramKey == "" {
		log.Println("Warning: DEEPGRAM_API_KEY not set; /api/chat/transcribe will fail with a configuration error.")
	}

	log.Printf("Loaded config: Port=%s, DB_URL=***, Origin=%s, UpstreamTimeout=%s",
		cfg.HTTPPort, cfg.AllowedOrigin, cfg.UpstreamTimeout)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Env variable %s not set, using default: %s", key, fallback)
	return fallback
}

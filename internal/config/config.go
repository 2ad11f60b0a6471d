package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string

	// APIBaseURL is the root of the question generation backend.
	APIBaseURL string
	// GenerationTimeout bounds one generation call. Zero waits indefinitely.
	GenerationTimeout time.Duration
	// GenerationStaleAfter is how long a session may stay loading before a reset
	// or new submit takes it over. Always longer than GenerationTimeout.
	GenerationStaleAfter time.Duration

	// RedisURL selects the Redis session store. Empty keeps sessions in memory.
	RedisURL             string
	SessionTTL           time.Duration
	SessionSweepSchedule string
	SecureCookies        bool

	GenerateRatePerMinute int
	HighlightStyle        string

	// AllowedOrigins controls CORS on the JSON API.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	cfg := &Config{
		ServerPort:            getEnv("SERVER_PORT", "3000"),
		GinMode:               getEnv("GIN_MODE", "debug"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "pretty"),
		APIBaseURL:            getEnv("API_BASE_URL", "http://localhost:8000"),
		GenerationTimeout:     time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 0)) * time.Second,
		GenerationStaleAfter:  time.Duration(getEnvInt("GENERATION_STALE_MINUTES", 10)) * time.Minute,
		RedisURL:              getEnv("REDIS_URL", ""),
		SessionTTL:            time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		SessionSweepSchedule:  getEnv("SESSION_SWEEP_SCHEDULE", "@every 10m"),
		SecureCookies:         getEnvBool("SESSION_COOKIE_SECURE", false),
		GenerateRatePerMinute: getEnvInt("GENERATE_RATE_PER_MINUTE", 10),
		HighlightStyle:        getEnv("HIGHLIGHT_STYLE", "onedark"),
		AllowedOrigins:        parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
	if cfg.GenerationTimeout > 0 && cfg.GenerationStaleAfter <= cfg.GenerationTimeout {
		cfg.GenerationStaleAfter = cfg.GenerationTimeout + time.Minute
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

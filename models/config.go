package models

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings shared by the batch and serve commands.
// Values come from the environment, with CLI flags layered on top.
type Config struct {
	Port string

	// EDGAR access
	BaseURL     string
	UserAgent   string
	HTTPTimeout time.Duration

	// Worker pool
	WorkerCount int

	// Artifact storage
	ResultsDir  string
	DBPath      string
	CacheMaxAge time.Duration
}

func LoadConfig() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		BaseURL:     envOr("EDGAR_BASE_URL", ""),
		UserAgent:   os.Getenv("EDGAR_USER_AGENT"),
		HTTPTimeout: envDuration("EDGAR_HTTP_TIMEOUT", 15*time.Second),

		WorkerCount: envInt("WORKER_COUNT", 4),

		ResultsDir:  envOr("RESULTS_DIR", ""),
		DBPath:      os.Getenv("DB_PATH"),
		CacheMaxAge: envDuration("CACHE_MAX_AGE", 0),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 15 * time.Second
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSourceURL is the CSV export of the practice's call log sheet.
const DefaultSourceURL = "https://docs.google.com/spreadsheets/d/1Syrq5xPz9VZ6iBJ79TMtFGvT3w7ZGP4GpgbbQZv11Dk/export?format=csv"

// Config holds all configuration for the application
type Config struct {
	Port            string
	Environment     string
	LogLevel        string
	SourceURL       string
	SourcePath      string
	FetchTimeout    time.Duration
	FetchMaxRetries uint64
	AllowedOrigins  []string
}

// Load loads configuration from environment variables, reading .env first
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "local"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SourceURL:   getEnv("SOURCE_URL", DefaultSourceURL),
		SourcePath:  os.Getenv("SOURCE_PATH"),
	}

	timeout, err := strconv.Atoi(getEnv("FETCH_TIMEOUT_SEC", "30"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT_SEC: %q", os.Getenv("FETCH_TIMEOUT_SEC"))
	}
	cfg.FetchTimeout = time.Duration(timeout) * time.Second

	retries, err := strconv.ParseUint(getEnv("FETCH_MAX_RETRIES", "0"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_MAX_RETRIES: %w", err)
	}
	cfg.FetchMaxRetries = retries

	for _, origin := range strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ",") {
		if o := strings.TrimSpace(origin); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg, nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

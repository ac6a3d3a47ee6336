package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port              string
	LogLevel          string
	SecretKey         string
	DatabaseURL       string
	UploadFolder      string
	AllowedExtensions []string
	MaxContentLength  int64
	SessionMaxAge     int
	SessionSecure     bool
	TokenTTL          time.Duration
}

// NewConfig loads configuration from environment variables. A .env file in the
// working directory is read first when present; real env vars take precedence.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		SecretKey:         getEnv("SECRET_KEY", ""),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		UploadFolder:      getEnv("UPLOAD_FOLDER", "static/uploads"),
		AllowedExtensions: parseList(getEnv("ALLOWED_EXTENSIONS", "png,jpg,jpeg,gif")),
	}

	var err error
	if cfg.MaxContentLength, err = strconv.ParseInt(getEnv("MAX_CONTENT_LENGTH", "16777216"), 10, 64); err != nil {
		return nil, fmt.Errorf("invalid MAX_CONTENT_LENGTH: %w", err)
	}
	if cfg.SessionMaxAge, err = strconv.Atoi(getEnv("SESSION_MAX_AGE", "86400")); err != nil {
		return nil, fmt.Errorf("invalid SESSION_MAX_AGE: %w", err)
	}
	if cfg.SessionSecure, err = strconv.ParseBool(getEnv("SESSION_SECURE", "false")); err != nil {
		return nil, fmt.Errorf("invalid SESSION_SECURE: %w", err)
	}
	if cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.MaxContentLength <= 0 {
		return nil, fmt.Errorf("MAX_CONTENT_LENGTH must be positive, got %d", cfg.MaxContentLength)
	}
	if len(cfg.AllowedExtensions) == 0 {
		return nil, fmt.Errorf("ALLOWED_EXTENSIONS must list at least one extension")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// parseList splits a comma separated extension list, lowercasing entries and
// dropping blanks and leading dots.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(part), "."))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Package config loads the application configuration from environment
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the whole application configuration. It is read once at
// startup and treated as immutable afterwards.
type Config struct {
	// Database
	DatabaseURL string

	// Server
	ServerPort string
	BaseURL    string

	// Admin
	AdminToken string

	// Rate Limit (requests per minute, per client IP)
	RateLimitGeneral    int
	RateLimitSubmission int

	// Webhook, empty disables comment notifications
	NotifyWebhookURL string
	NotifyTimeout    time.Duration

	// Language cookie
	CookieSecure   bool
	CookieDomain   string
	LanguageMaxAge int

	// CORS
	CORSAllowedOrigin string
}

// Load reads the Config from environment variables. Missing required
// variables are collected and reported together.
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	cfg.AdminToken = os.Getenv("ADMIN_TOKEN")
	if cfg.AdminToken == "" {
		missing = append(missing, "ADMIN_TOKEN")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitSubmission = getEnvInt("RATE_LIMIT_SUBMISSION", 20)
	cfg.NotifyWebhookURL = getEnvString("NOTIFY_WEBHOOK_URL", "")
	cfg.NotifyTimeout = getEnvDuration("NOTIFY_TIMEOUT", 10*time.Second)
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.LanguageMaxAge = getEnvInt("LANGUAGE_COOKIE_MAX_AGE", 31536000)
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

// Package config loads CVBooster configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the server configuration. Everything comes from environment
// variables; a .env file is loaded by the CLI entry point before this runs.
type Config struct {
	Port              int
	DatabaseURL       string
	OpenAIKey         string
	OpenAIModel       string        // empty means the client default
	CommissionRate    int           // default affiliate commission, percent
	AttributionWindow time.Duration // how long a referral code sticks to a visitor
}

// Load reads the server configuration from the environment.
func Load() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required but not set")
	}

	port, err := envInt("PORT", 8080)
	if err != nil {
		return nil, err
	}

	rate, err := envInt("AFFILIATE_COMMISSION_RATE", 10)
	if err != nil {
		return nil, err
	}
	if rate < 1 || rate > 100 {
		return nil, fmt.Errorf("AFFILIATE_COMMISSION_RATE out of range: %d (must be 1-100)", rate)
	}

	windowHours, err := envInt("ATTRIBUTION_WINDOW_HOURS", 24)
	if err != nil {
		return nil, err
	}
	if windowHours < 1 {
		return nil, fmt.Errorf("ATTRIBUTION_WINDOW_HOURS must be at least 1, got: %d", windowHours)
	}

	return &Config{
		Port:              port,
		DatabaseURL:       databaseURL,
		OpenAIKey:         openAIKey,
		OpenAIModel:       os.Getenv("OPENAI_MODEL"),
		CommissionRate:    rate,
		AttributionWindow: time.Duration(windowHours) * time.Hour,
	}, nil
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return v, nil
}

package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig configures rate limiting for one endpoint. Paths ending in
// "/" match by prefix, everything else matches exactly.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // requests per window
	Window time.Duration
	Burst  int // burst capacity, defaults to Limit if 0
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint limits. AI generation is
// the expensive tier, auth endpoints are throttled against brute force, and
// reads fall through to the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// AI generation
		{Path: "/api/cvs/generate", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/api/cover-letters/generate", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/api/cvs/", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/api/conversations/", Method: "POST", Limit: 30, Window: time.Minute, Burst: 10},

		// Uploads
		{Path: "/api/uploads/", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Auth
		{Path: "/api/auth/register", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/api/auth/login", Method: "POST", Limit: 30, Window: time.Minute, Burst: 10},

		// Affiliate click tracking takes anonymous traffic
		{Path: "/api/affiliate/track", Method: "POST", Limit: 120, Window: time.Minute, Burst: 30},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}

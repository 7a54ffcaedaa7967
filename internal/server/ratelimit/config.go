package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is a rate-limit rule for one endpoint. A Path ending in "/"
// matches by prefix. Burst is the bucket capacity and falls back to Limit
// when zero.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int // requests per Window
	Window time.Duration
	Burst  int
}

// LoadConfig builds the limiter configuration from RATE_LIMIT_* environment
// variables, falling back to defaults sized for a single screener instance.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       clientSet("RATE_LIMIT_WHITELIST"),
		Blacklist:       clientSet("RATE_LIMIT_BLACKLIST"),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint rules.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: operations that fan out to LLM and TTS calls (strictest)
		{Path: "/pipeline/start", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/analyze", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Tier 2: per-question answer uploads; an interview is at most a
		// dozen questions plus a bounded number of resubmissions
		{Path: "/answers", Method: "POST", Limit: 60, Window: time.Minute, Burst: 15},

		// Tier 3: reads (audio, session status) - handled by default limit
		// Tier 4: health and metrics (unlimited) - special case in matcher
	}
}

// envBool reads a boolean environment variable, returning fallback when the
// variable is unset or unparseable.
func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// clientSet parses a comma-separated environment variable into a set of
// client addresses.
func clientSet(key string) map[string]bool {
	set := make(map[string]bool)
	for _, entry := range strings.Split(os.Getenv(key), ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			set[entry] = true
		}
	}
	return set
}

package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/resume-reviewer/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// FromSettings builds a limiter Config from the rate_limit configuration section.
func FromSettings(cfg config.RateLimitConfig) *Config {
	if !cfg.Enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    cfg.DefaultLimit,
		DefaultWindow:   cfg.DefaultWindow,
		CleanupInterval: cfg.CleanupInterval,
		Whitelist:       toSet(cfg.Whitelist),
		Blacklist:       toSet(cfg.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-route tiers. Unlisted routes use the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: outbound fetches
		{Path: "/fetch-jd", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},

		// Tier 2: full analysis
		{Path: "/analyze", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// Tier 3: cheap transforms
		{Path: "/export", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/check", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		// Tier 4: health check (unlimited) - handled by special case in matcher
	}
}

func toSet(items []string) map[string]bool {
	result := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result[item] = true
		}
	}
	return result
}

package ratelimit

import (
	"math"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// FromRate builds a configuration whose default limit is rps requests per second with the given burst.
// A non-positive rps disables rate limiting. Whitelist and blacklist are comma-separated client IPs.
func FromRate(rps float64, burst int, whitelist, blacklist string) *Config {
	if rps <= 0 {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    max(1, int(math.Round(rps*60))),
		DefaultWindow:   time.Minute,
		DefaultBurst:    burst,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       parseIPList(whitelist),
		Blacklist:       parseIPList(blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: outbound fetches and model calls
		{Path: "/enrich", Method: "POST", Limit: 60, Window: time.Minute, Burst: 5},
		{Path: "/contacts/analyze", Method: "POST", Limit: 30, Window: time.Minute, Burst: 3},

		// Tier 2: session writes, paced by the scraper itself
		{Path: "/sessions", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/sessions/", Method: "POST", Limit: 600, Window: time.Minute, Burst: 20},
		{Path: "/sessions/", Method: "DELETE", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/listings", Method: "DELETE", Limit: 10, Window: time.Minute, Burst: 2},
		{Path: "/settings", Method: "PUT", Limit: 30, Window: time.Minute, Burst: 5},

		// Tier 3: reads use the default limit
		// Tier 4: health check is unlimited, handled by special case in matcher
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	ips := strings.Split(list, ",")
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}

	return result
}

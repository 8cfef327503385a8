package ratelimit

import (
	"net/http"
	"strings"

	"github.com/samber/lo"
)

// unlimited is returned for endpoints that are never throttled.
var unlimited = EndpointConfig{}

// MatchEndpoint returns the configuration for a request, or nil when the default limit applies.
// An exact path wins; otherwise a configured path ending in "/" matches every path below it,
// so "/sessions/" covers "/sessions/current/listings". GET /health is never limited.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == http.MethodGet {
		cfg := unlimited
		return &cfg
	}

	_, idx, ok := lo.FindIndexOf(configs, func(c EndpointConfig) bool {
		return c.Method == method && c.Path == path
	})
	if !ok {
		_, idx, ok = lo.FindIndexOf(configs, func(c EndpointConfig) bool {
			return c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path)
		})
	}
	if !ok {
		return nil
	}
	return &configs[idx]
}

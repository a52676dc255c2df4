package ratelimit

import (
	"net/http"
	"slices"
	"strings"
)

// unlimited routes bypass every tier. The returned config has Limit 0.
var unlimited = map[string]string{"/health": http.MethodGet}

// MatchEndpoint picks the tier for a request. An exact path wins over a prefix tier
// (a Path ending in "/"). Nil means the default limit applies.
func MatchEndpoint(path, method string, tiers []EndpointConfig) *EndpointConfig {
	if m, ok := unlimited[path]; ok && m == method {
		return &EndpointConfig{Path: path, Method: method}
	}

	exact := func(t EndpointConfig) bool { return t.Method == method && t.Path == path }
	if i := slices.IndexFunc(tiers, exact); i >= 0 {
		return &tiers[i]
	}

	prefix := func(t EndpointConfig) bool {
		return t.Method == method && strings.HasSuffix(t.Path, "/") && strings.HasPrefix(path, t.Path)
	}
	if i := slices.IndexFunc(tiers, prefix); i >= 0 {
		return &tiers[i]
	}
	return nil
}

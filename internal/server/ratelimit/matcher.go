package ratelimit

import "strings"

// MatchEndpoint resolves the rate-limit rule for a request. An exact
// path+method rule wins over a prefix rule; a rule path ending in "/"
// matches by prefix, so "/sessions/" covers "/sessions/{candidate_id}".
// Probe endpoints (health, metrics) are never limited. Returns nil when
// no rule matches and the default limit applies.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && (path == "/health" || path == "/metrics") {
		return &EndpointConfig{} // zero limit means unlimited
	}

	var prefixMatch *EndpointConfig
	for i := range configs {
		rule := &configs[i]
		if rule.Method != method {
			continue
		}
		if rule.Path == path {
			return rule
		}
		if prefixMatch == nil && strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			prefixMatch = rule
		}
	}
	return prefixMatch
}

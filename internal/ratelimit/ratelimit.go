// Package ratelimit provides per-route, per-client admission control for the
// HTTP pipeline. Two backends exist: an in-memory token bucket and a Redis
// fixed window. Both share the same route rule table.
package ratelimit

import "context"

// Rule is the admission budget for one route: a sustained per-minute rate
// and, for the token-bucket backend, a burst allowance.
type Rule struct {
	PerMinute int
	Burst     int
}

// Admitter decides whether a request identified by route key and client
// identity may proceed. Implementations must be safe for concurrent use.
type Admitter interface {
	Allow(ctx context.Context, route, client string) (bool, error)
}

// Rules maps route keys ("POST /users") to their rule, falling back to a
// default for unknown routes.
type Rules struct {
	Default  Rule
	PerRoute map[string]Rule
}

func (r Rules) For(route string) Rule {
	if rule, ok := r.PerRoute[route]; ok {
		return rule
	}
	return r.Default
}

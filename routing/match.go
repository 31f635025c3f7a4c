package routing

import (
	"context"
	"net/url"
)

// Match stores the result of routing a request.
type Match struct {
	// Route is the matched route. It is nil when the match was synthesized
	// by the controller convention.
	Route *Route

	// Key is the matched route key, or "METHOD /path" for convention
	// matches.
	Key string

	// Method is the upper-cased request method.
	Method string

	// URI is the request path without surrounding slashes.
	URI string

	// Parameters holds the wildcard captures in pattern order, decoded.
	Parameters []string

	// Action is the resolved route target.
	Action Action

	// Bundle is the bundle owning the route or controller.
	Bundle string

	// MatchErr is ErrNotFound when nothing matched, or the error returned
	// while lazily starting a bundle.
	MatchErr error
}

func (m *Match) set(route *Route, key, method, uri string, params []string) {
	m.Route = route
	m.Key = key
	m.Method = method
	m.URI = uri
	m.Parameters = decodeParameters(params)
	m.Action = route.Action
	m.Bundle = route.Bundle
	m.MatchErr = nil
}

// decodeParameters percent-decodes captures taken from the raw path.
// Values that fail to decode are kept as they are.
func decodeParameters(params []string) []string {
	if len(params) == 0 {
		return nil
	}
	out := make([]string, len(params))
	for i, p := range params {
		if v, err := url.PathUnescape(p); err == nil {
			out[i] = v
		} else {
			out[i] = p
		}
	}
	return out
}

// matchContextKey is an unexported type for the single context key.
type matchContextKey struct{}

// NewContext returns a copy of ctx carrying m.
func NewContext(ctx context.Context, m *Match) context.Context {
	return context.WithValue(ctx, matchContextKey{}, m)
}

// FromContext returns the match stored in ctx, if any.
func FromContext(ctx context.Context) (*Match, bool) {
	m, ok := ctx.Value(matchContextKey{}).(*Match)
	return m, ok && m != nil
}

// Parameters returns the route parameters stored in ctx, if any.
func Parameters(ctx context.Context) []string {
	if m, ok := FromContext(ctx); ok {
		return m.Parameters
	}
	return nil
}

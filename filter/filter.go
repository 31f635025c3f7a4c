package filter

import "github.com/vitalvas/junction/response"

// Filter inspects a request before or after its action. Returning a
// non-nil response from a before filter short-circuits the chain.
type Filter interface {
	Handle(c *Context, params []string) *response.Response
}

// Func adapts an ordinary function to the Filter interface.
type Func func(c *Context, params []string) *response.Response

// Handle calls f(c, params).
func (f Func) Handle(c *Context, params []string) *response.Response {
	return f(c, params)
}

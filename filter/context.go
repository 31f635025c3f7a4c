package filter

import (
	"context"
	"net/http"
	"strings"

	"github.com/vitalvas/junction/response"
)

type requestMethodKey struct{}

type requestKey struct{}

// WithRequestMethod returns a copy of ctx carrying the request method that
// On restrictions are tested against.
func WithRequestMethod(ctx context.Context, method string) context.Context {
	return context.WithValue(ctx, requestMethodKey{}, strings.ToUpper(method))
}

// RequestMethod returns the request method stored in ctx, or GET.
func RequestMethod(ctx context.Context) string {
	if m, ok := ctx.Value(requestMethodKey{}).(string); ok && m != "" {
		return m
	}
	return http.MethodGet
}

// WithRequest returns a copy of ctx carrying the HTTP request being
// served, for filters that inspect headers or credentials.
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, requestKey{}, r)
}

// Request returns the HTTP request stored in ctx, if any.
func Request(ctx context.Context) *http.Request {
	r, _ := ctx.Value(requestKey{}).(*http.Request)
	return r
}

// Context is passed to every filter of a chain.
type Context struct {
	ctx context.Context

	// Method is the upper-cased request method.
	Method string

	// Action is the name of the action being filtered, such as a
	// controller method.
	Action string

	// Controller is the controller reference, empty for route closures.
	Controller string

	// Parameters are the route parameters of the action.
	Parameters []string

	// Arguments are the binding parameters of the filter being called,
	// such as "1" and "2" for "name:1,2". Unlike the params a filter
	// receives, they never include route parameters.
	Arguments []string

	// Request is the HTTP request, nil outside an HTTP exchange.
	Request *http.Request

	// Response is the action's response. It is nil until StatePost.
	Response *response.Response
}

// NewContext returns a filter context for action, reading the request
// method and the HTTP request from ctx.
func NewContext(ctx context.Context, action string) *Context {
	return &Context{
		ctx:     ctx,
		Method:  RequestMethod(ctx),
		Action:  action,
		Request: Request(ctx),
	}
}

// Context returns the context of the request being filtered.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

package routing

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/vitalvas/junction/bundle"
	"golang.org/x/net/http/httpguts"
)

// HandlerFunc is a route closure. It receives the matched parameters in
// pattern order and returns a response-like value.
type HandlerFunc func(ctx context.Context, params []string) any

// Action is the target of a route: either a closure (Handler) or a
// controller reference (Uses), plus optional metadata.
type Action struct {
	// Name indexes the route for Find and URL.
	Name string

	// Uses is a controller reference, "name@method" or
	// "bundle::name@method".
	Uses string

	// Handler is a route closure.
	Handler HandlerFunc

	// Before lists route-level before filters, separated by "|".
	Before string

	// After lists route-level after filters, separated by "|".
	After string
}

// IsController reports whether the action delegates to a controller.
func (a Action) IsController() bool {
	return a.Uses != ""
}

func (a Action) validate() error {
	if a.Uses != "" && a.Handler != nil {
		return ErrInvalidAction
	}
	return nil
}

// Route is a compiled, registered route. Routes are immutable once added
// to a Table.
type Route struct {
	// Key is the canonical "METHOD /pattern" identity.
	Key string

	Method  string
	Pattern *Pattern
	Action  Action

	// Bundle is the namespace owning the route.
	Bundle string
}

// NewRoute compiles a route from its key.
func NewRoute(key string, action Action) (*Route, error) {
	if err := action.validate(); err != nil {
		return nil, err
	}

	method, uri, err := ParseKey(key)
	if err != nil {
		return nil, err
	}

	p, err := Compile(uri)
	if err != nil {
		return nil, err
	}

	return &Route{
		Key:     method + " " + p.String(),
		Method:  method,
		Pattern: p,
		Action:  action,
		Bundle:  bundle.Default,
	}, nil
}

// URI returns the route pattern with a leading slash.
func (r *Route) URI() string {
	return r.Pattern.String()
}

// Name returns the route name, if any.
func (r *Route) Name() string {
	return r.Action.Name
}

// URL builds a path for the route by filling wildcards with params.
func (r *Route) URL(params ...string) (string, error) {
	return r.Pattern.Build(params...)
}

// ParseKey splits a route key such as "GET /user/(:num)" into an upper-cased
// method token and the path. The method must be a valid HTTP token.
func ParseKey(key string) (method, uri string, err error) {
	key = strings.TrimSpace(key)

	i := strings.IndexAny(key, " \t")
	if i <= 0 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	method = strings.ToUpper(key[:i])
	uri = strings.TrimSpace(key[i+1:])

	for _, c := range method {
		if !httpguts.IsTokenRune(c) {
			return "", "", fmt.Errorf("%w: bad method %q in %q", ErrInvalidKey, method, key)
		}
	}
	if uri == "" {
		return "", "", fmt.Errorf("%w: missing path in %q", ErrInvalidKey, key)
	}

	return method, uri, nil
}

// Key returns the canonical route key for a method and path.
func Key(method, path string) string {
	return strings.ToUpper(method) + " /" + strings.Trim(path, "/")
}

// anyMethods is the method set used by Router.Any.
var anyMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

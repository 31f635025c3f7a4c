package routing

import (
	"context"
	"fmt"
	"strings"

	"github.com/vitalvas/junction/bundle"
	"go.uber.org/zap"
)

// Bundles is the part of the bundle registry the router needs: resolving
// which bundle handles a path and starting it on first use.
// *bundle.Registry satisfies this interface.
type Bundles interface {
	Handles(uri string) string
	Option(name string) string
	Started(name string) bool
	Start(ctx context.Context, name string) error
}

// Controllers reports whether a controller is registered, used by the
// implicit controller routing convention.
// *controller.Registry satisfies this interface.
type Controllers interface {
	Exists(bundle, name string) bool
}

// Router matches a method and path to a registered route, a lazily
// started bundle route, or a controller by convention.
type Router struct {
	table       *Table
	bundles     Bundles
	controllers Controllers
	logger      *zap.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithBundles enables lazy bundle starting and bundle-aware controller
// routing.
func WithBundles(b Bundles) Option {
	return func(r *Router) {
		r.bundles = b
	}
}

// WithControllers enables the implicit controller routing convention.
func WithControllers(c Controllers) Option {
	return func(r *Router) {
		r.controllers = c
	}
}

// WithLogger sets the logger used for routing diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTable makes the router use an existing route table.
func WithTable(t *Table) Option {
	return func(r *Router) {
		if t != nil {
			r.table = t
		}
	}
}

// NewRouter returns a router over a new or given route table.
func NewRouter(opts ...Option) *Router {
	r := &Router{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.table == nil {
		r.table = NewTable()
	}
	if r.bundles != nil {
		r.table.handles = r.bundles.Handles
	}
	return r
}

// Table returns the underlying route table.
func (r *Router) Table() *Table {
	return r.table
}

// Register stores action under one or more "METHOD /path" keys.
func (r *Router) Register(keys []string, action Action) error {
	return r.table.Register(keys, action)
}

// Get registers a GET route.
func (r *Router) Get(path string, action Action) error {
	return r.Register([]string{Key("GET", path)}, action)
}

// Post registers a POST route.
func (r *Router) Post(path string, action Action) error {
	return r.Register([]string{Key("POST", path)}, action)
}

// Put registers a PUT route.
func (r *Router) Put(path string, action Action) error {
	return r.Register([]string{Key("PUT", path)}, action)
}

// Patch registers a PATCH route.
func (r *Router) Patch(path string, action Action) error {
	return r.Register([]string{Key("PATCH", path)}, action)
}

// Delete registers a DELETE route.
func (r *Router) Delete(path string, action Action) error {
	return r.Register([]string{Key("DELETE", path)}, action)
}

// Any registers the route for GET, POST, PUT, PATCH and DELETE.
func (r *Router) Any(path string, action Action) error {
	keys := make([]string, len(anyMethods))
	for i, m := range anyMethods {
		keys[i] = Key(m, path)
	}
	return r.Register(keys, action)
}

// Find returns every route registered under name, keyed by route key.
func (r *Router) Find(name string) map[string]*Route {
	return r.table.Find(name)
}

// Clear empties the route table.
func (r *Router) Clear() {
	r.table.Clear()
}

// URL builds the path of the first route registered under name.
func (r *Router) URL(name string, params ...string) (string, error) {
	route, ok := r.table.Named(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	return route.URL(params...)
}

// Route matches method and path and returns the match, or an error wrapping
// ErrNotFound when nothing matches.
func (r *Router) Route(ctx context.Context, method, path string) (*Match, error) {
	var m Match
	if !r.Match(ctx, method, path, &m) {
		return nil, m.MatchErr
	}
	return &m, nil
}

// Match attempts to match method and path, in order: an exact literal
// route, the first registered wildcard route that accepts the path, the
// same two steps again after lazily starting the bundle that handles the
// path, and finally the controller convention. path is the raw, still
// percent-encoded request path.
func (r *Router) Match(ctx context.Context, method, path string, m *Match) bool {
	method = strings.ToUpper(method)
	uri := strings.Trim(path, "/")
	segments := splitPath(uri)

	if r.matchTable(method, uri, segments, m) {
		return true
	}

	owner := bundle.Default
	if r.bundles != nil {
		owner = r.bundles.Handles(uri)
		started := r.bundles.Started(owner)
		if !started {
			r.logger.Debug("starting bundle for request",
				zap.String("bundle", owner),
				zap.String("uri", uri))
		}

		// Start again on a started bundle to surface its boot error.
		if err := r.bundles.Start(ctx, owner); err != nil {
			m.MatchErr = err
			return false
		}
		if !started && r.matchTable(method, uri, segments, m) {
			return true
		}
	}

	if r.matchController(owner, method, uri, segments, m) {
		return true
	}

	m.MatchErr = ErrNotFound
	return false
}

func (r *Router) matchTable(method, uri string, segments []string, m *Match) bool {
	key := method + " /" + uri

	if route := r.table.literal(key); route != nil {
		m.set(route, key, method, uri, nil)
		return true
	}

	if route, params := r.table.scan(method, segments); route != nil {
		m.set(route, route.Key, method, uri, params)
		return true
	}

	return false
}

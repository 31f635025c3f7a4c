// Package kernel serves HTTP requests through the router, the route-level
// filters and the controller dispatcher.
//
//	k := kernel.New(router, dispatcher, filters)
//	k.Use(kernel.RecoveryMiddleware(kernel.RecoveryConfig{Logger: logger}))
//	http.ListenAndServe(":8080", k)
//
// Around every matched route the kernel runs the filters named "before"
// and "after", their "bundle::before" and "bundle::after" counterparts
// for bundle routes, the route's own Before and After filters, and the
// pattern filters covering the URI.
package kernel

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vitalvas/junction/bundle"
	"github.com/vitalvas/junction/controller"
	"github.com/vitalvas/junction/filter"
	"github.com/vitalvas/junction/response"
	"github.com/vitalvas/junction/routing"
	"go.uber.org/zap"
)

// ErrNoDispatcher is returned when a controller route is matched by a
// kernel built without a dispatcher.
var ErrNoDispatcher = errors.New("kernel: no controller dispatcher")

// MiddlewareFunc wraps the kernel's http.Handler.
type MiddlewareFunc func(http.Handler) http.Handler

// Kernel routes and dispatches requests.
type Kernel struct {
	router      *routing.Router
	dispatcher  *controller.Dispatcher
	filters     *filter.Registry
	executor    *filter.Executor
	middlewares []MiddlewareFunc
	metrics     *Metrics
	logger      *zap.Logger
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithLogger sets the kernel logger.
func WithLogger(l *zap.Logger) Option {
	return func(k *Kernel) {
		if l != nil {
			k.logger = l
		}
	}
}

// WithMetrics records dispatch metrics in m.
func WithMetrics(m *Metrics) Option {
	return func(k *Kernel) {
		k.metrics = m
	}
}

// New returns a kernel. dispatcher may be nil when no route uses a
// controller.
func New(router *routing.Router, dispatcher *controller.Dispatcher, filters *filter.Registry, opts ...Option) *Kernel {
	if filters == nil {
		filters = filter.NewRegistry()
	}

	k := &Kernel{
		router:     router,
		dispatcher: dispatcher,
		filters:    filters,
		executor:   filter.NewExecutor(filters),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Use appends middlewares. The first one added is the outermost.
func (k *Kernel) Use(mw ...MiddlewareFunc) {
	k.middlewares = append(k.middlewares, mw...)
}

// Handle routes method and path and runs the matched action inside its
// route filters. path is the raw, percent-encoded request path. method is
// also the request method that On restrictions and restful actions see. The
// returned error wraps routing.ErrNotFound when nothing matches.
func (k *Kernel) Handle(ctx context.Context, method, path string) (*response.Response, error) {
	return k.handle(ctx, method, path)
}

// Respond is like Handle but turns errors into responses: 404 for an
// unmatched path or unknown controller, 500 otherwise.
func (k *Kernel) Respond(ctx context.Context, method, path string) *response.Response {
	resp, err := k.handle(ctx, method, path)
	if err != nil {
		return k.errorResponse(ctx, method, path, err)
	}
	return resp
}

func (k *Kernel) handle(ctx context.Context, method, path string) (*response.Response, error) {
	start := time.Now()
	ctx = filter.WithRequestMethod(ctx, method)

	var m routing.Match
	if !k.router.Match(ctx, method, path, &m) {
		k.metrics.observe("", outcome(m.MatchErr), time.Since(start).Seconds())
		return nil, m.MatchErr
	}

	ctx = routing.NewContext(ctx, &m)

	c := filter.NewContext(ctx, m.Key)
	c.Controller = m.Action.Uses

	res, err := k.executor.Run(c, m.Parameters,
		[]*filter.Binding{{Event: filter.Before, Names: k.beforeNames(&m)}},
		[]*filter.Binding{{Event: filter.After, Names: k.afterNames(&m)}},
		k.invoke(&m))

	elapsed := time.Since(start).Seconds()
	if err != nil {
		k.metrics.observe(m.Key, outcome(err), elapsed)
		return nil, err
	}

	if res.Aborted() {
		k.metrics.abort(res.AbortedBy)
		k.metrics.observe(m.Key, OutcomeAborted, elapsed)
	} else {
		k.metrics.observe(m.Key, OutcomeOK, elapsed)
	}

	return res.Response, nil
}

func (k *Kernel) invoke(m *routing.Match) filter.InvokeFunc {
	return func(c *filter.Context, params []string) (*response.Response, error) {
		switch {
		case m.Action.IsController():
			if k.dispatcher == nil {
				return nil, ErrNoDispatcher
			}
			return k.dispatcher.Call(c.Context(), m.Action.Uses, params)
		case m.Action.Handler != nil:
			return response.Prepare(m.Action.Handler(c.Context(), params)), nil
		}
		return response.Prepare(nil), nil
	}
}

// beforeNames lists the route-level before filters: the global one, the
// bundle's, the route's own and the matching pattern filters.
func (k *Kernel) beforeNames(m *routing.Match) []string {
	names := eventNames(filter.Before, m.Bundle)
	names = append(names, filter.SplitNames(m.Action.Before)...)
	return append(names, k.filters.Patterns(m.URI)...)
}

func (k *Kernel) afterNames(m *routing.Match) []string {
	names := eventNames(filter.After, m.Bundle)
	return append(names, filter.SplitNames(m.Action.After)...)
}

func eventNames(event filter.Event, owner string) []string {
	names := []string{string(event)}
	if owner != bundle.Default {
		names = append(names, bundle.Prefix(owner)+string(event))
	}
	return names
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, routing.ErrNotFound), errors.Is(err, controller.ErrControllerNotFound):
		return OutcomeNotFound
	}
	return OutcomeError
}

func (k *Kernel) errorResponse(ctx context.Context, method, path string, err error) *response.Response {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.Error(err),
	}
	if id := RequestIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}

	if outcome(err) == OutcomeNotFound {
		k.logger.Debug("no route", fields...)
		return response.Error(http.StatusNotFound)
	}

	k.logger.Error("dispatch failed", fields...)
	return response.Error(http.StatusInternalServerError)
}

// ServeHTTP implements http.Handler.
func (k *Kernel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	k.handler().ServeHTTP(w, r)
}

// handler wraps serve in the registered middlewares.
func (k *Kernel) handler() http.Handler {
	var h http.Handler = http.HandlerFunc(k.serve)
	for i := len(k.middlewares) - 1; i >= 0; i-- {
		h = k.middlewares[i](h)
	}
	return h
}

func (k *Kernel) serve(w http.ResponseWriter, r *http.Request) {
	ctx := filter.WithRequest(r.Context(), r)

	resp := k.Respond(ctx, r.Method, r.URL.EscapedPath())
	if err := resp.Write(w); err != nil {
		k.logger.Debug("write response", zap.Error(err))
	}
}

// Package bundle implements namespaced, lazily started application modules.
//
// A bundle owns a URI prefix ("handles") and a Boot function that registers
// its routes, filters and controllers. The router and the controller
// dispatcher start a bundle the first time a request path or a
// "bundle::controller@method" reference needs it:
//
//	reg := bundle.NewRegistry()
//	reg.Register(bundle.Bundle{
//	    Name:    "dashboard",
//	    Handles: "dashboard",
//	    Boot: func(ctx context.Context, b *bundle.Bundle) error {
//	        return router.Register([]string{"GET /dashboard"}, action)
//	    },
//	})
//
// Start is idempotent: Boot runs at most once per registry lifetime even
// when several goroutines race to start the same bundle. Reset returns
// every bundle to the unstarted state and exists for test isolation.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Default is the name of the implicit application bundle. It has no URI
// prefix and no "name::" identifier prefix.
const Default = "application"

// Separator splits a bundle name from the element it qualifies, as in
// "dashboard::panel@index".
const Separator = "::"

var (
	// ErrNotFound is returned when starting a bundle that was never registered.
	ErrNotFound = errors.New("bundle: not registered")

	// ErrInvalidName is returned when registering a bundle with an empty
	// name or a name containing the identifier separator.
	ErrInvalidName = errors.New("bundle: invalid name")

	// ErrBootPanic is wrapped by the start error of a bundle whose Boot
	// panicked.
	ErrBootPanic = errors.New("bundle: boot panicked")
)

// BootFunc loads a bundle's registrations. It is called once, the first
// time the bundle is started, and must not start its own bundle.
type BootFunc func(ctx context.Context, b *Bundle) error

// Bundle describes a namespaced module.
type Bundle struct {
	// Name is the namespace used in "name::element" identifiers.
	Name string

	// Handles is the URI prefix routed to this bundle, without leading or
	// trailing slashes. "/" handles every URI; empty handles none.
	Handles string

	// AutoStart marks bundles started eagerly by StartAuto.
	AutoStart bool

	// Boot registers the bundle's routes, filters and controllers.
	Boot BootFunc
}

const (
	stateUnstarted int32 = iota
	stateStarting
	stateStarted
)

type entry struct {
	bundle Bundle
	state  atomic.Int32
	done   chan struct{}
	err    error
}

func newEntry(b Bundle) *entry {
	return &entry{bundle: b, done: make(chan struct{})}
}

// Registry stores bundles and their start state.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
	logger  *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report bundle start events.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry returns an empty bundle registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a bundle. Registering a name again replaces the previous
// definition and its start state.
func (r *Registry) Register(b Bundle) error {
	if b.Name == "" || strings.Contains(b.Name, Separator) {
		return fmt.Errorf("%w: %q", ErrInvalidName, b.Name)
	}
	if b.Handles != "/" {
		b.Handles = strings.Trim(b.Handles, "/")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[b.Name]; !ok {
		r.order = append(r.order, b.Name)
	}
	r.entries[b.Name] = newEntry(b)
	return nil
}

// Get returns the bundle registered under name.
func (r *Registry) Get(name string) (Bundle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return Bundle{}, false
	}
	return e.bundle, true
}

// Exists reports whether a bundle is registered under name. The default
// bundle always exists.
func (r *Registry) Exists(name string) bool {
	if name == Default {
		return true
	}
	_, ok := r.Get(name)
	return ok
}

// Names returns the registered bundle names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Handles returns the name of the first registered bundle whose prefix
// covers uri, or Default when none does. Prefixes match whole segments:
// "dashboard" handles "dashboard" and "dashboard/panel" but not
// "dashboards".
func (r *Registry) Handles(uri string) string {
	uri = strings.Trim(uri, "/") + "/"

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		handles := r.entries[name].bundle.Handles
		if handles == "" {
			continue
		}
		if handles == "/" || strings.HasPrefix(uri, handles+"/") {
			return name
		}
	}
	return Default
}

// Option returns the URI prefix handled by the named bundle.
func (r *Registry) Option(name string) string {
	b, _ := r.Get(name)
	return b.Handles
}

// Started reports whether the named bundle finished starting, successfully
// or not. Start returns the boot error of a started bundle.
func (r *Registry) Started(name string) bool {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return name == Default
	}
	return e.state.Load() == stateStarted
}

// Start runs the bundle's Boot function once. Concurrent callers that lose
// the race wait until the winner finishes and receive the same error, as
// do later callers until Reset. A panic in Boot becomes an error wrapping
// ErrBootPanic.
// Starting the default bundle without registering it is a no-op.
func (r *Registry) Start(ctx context.Context, name string) error {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		if name == Default {
			return nil
		}
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	if e.state.CompareAndSwap(stateUnstarted, stateStarting) {
		r.boot(ctx, e)
		return e.err
	}

	select {
	case <-e.done:
		return e.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Registry) boot(ctx context.Context, e *entry) {
	defer func() {
		if p := recover(); p != nil {
			e.err = fmt.Errorf("bundle: start %q: %w: %v", e.bundle.Name, ErrBootPanic, p)
			r.logger.Error("bundle boot panicked", zap.String("bundle", e.bundle.Name), zap.Any("panic", p))
		}
		e.state.Store(stateStarted)
		close(e.done)
	}()

	if e.bundle.Boot == nil {
		r.logger.Debug("bundle started", zap.String("bundle", e.bundle.Name))
		return
	}

	b := e.bundle
	if err := b.Boot(ctx, &b); err != nil {
		e.err = fmt.Errorf("bundle: start %q: %w", b.Name, err)
		r.logger.Error("bundle boot failed", zap.String("bundle", b.Name), zap.Error(err))
		return
	}

	r.logger.Debug("bundle started", zap.String("bundle", b.Name), zap.String("handles", b.Handles))
}

// StartAuto starts every bundle marked AutoStart, in registration order.
func (r *Registry) StartAuto(ctx context.Context) error {
	for _, name := range r.Names() {
		b, ok := r.Get(name)
		if !ok || !b.AutoStart {
			continue
		}
		if err := r.Start(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// Reset returns every bundle to the unstarted state.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, e := range r.entries {
		r.entries[name] = newEntry(e.bundle)
	}
}

// Parse splits an identifier into its bundle name and element. Identifiers
// without a bundle prefix belong to Default.
func Parse(identifier string) (name, element string) {
	if i := strings.Index(identifier, Separator); i >= 0 {
		return identifier[:i], identifier[i+len(Separator):]
	}
	return Default, identifier
}

// Prefix returns the identifier prefix for a bundle: "name::", or an empty
// string for the default bundle.
func Prefix(name string) string {
	if name == "" || name == Default {
		return ""
	}
	return name + Separator
}

package filter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vitalvas/junction/bundle"
	"github.com/vitalvas/junction/response"
	"go.uber.org/zap"
)

var (
	// ErrUnknownFilter is returned when aliasing a filter that is not
	// registered.
	ErrUnknownFilter = errors.New("filter: unknown filter")

	// ErrInvalidName is returned when registering under no usable name.
	ErrInvalidName = errors.New("filter: invalid name")
)

// Starter starts a bundle before one of its filters is looked up.
// *bundle.Registry satisfies this interface.
type Starter interface {
	Start(ctx context.Context, name string) error
}

// Registry maps filter names to filters. It also holds the URI pattern
// filters and the bindings applied to every controller action.
type Registry struct {
	mu       sync.RWMutex
	filters  map[string]Filter
	patterns []patternFilter
	global   map[Event][]*Binding

	bundles Starter
	logger  *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for skipped filters and aborted chains.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithBundles lets the registry start the bundle owning a
// "bundle::name" filter before resolving it.
func WithBundles(s Starter) Option {
	return func(r *Registry) {
		r.bundles = s
	}
}

// NewRegistry returns an empty filter registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		filters: make(map[string]Filter),
		global:  make(map[Event][]*Binding),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Logger returns the registry logger.
func (r *Registry) Logger() *zap.Logger {
	return r.logger
}

// Register stores f under every "|" separated name, replacing earlier
// filters of the same name. Names of the form "pattern: admin/*, api/*"
// bind f to the matching URIs instead.
func (r *Registry) Register(names string, f Filter) error {
	if globs, ok := parsePatterns(names); ok {
		return r.registerPatterns(globs, f)
	}

	list := SplitNames(names)
	if len(list) == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidName, names)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range list {
		r.filters[name] = f
	}
	return nil
}

// RegisterFunc is a shortcut for Register(names, Func(fn)).
func (r *Registry) RegisterFunc(names string, fn func(c *Context, params []string) *response.Response) error {
	return r.Register(names, Func(fn))
}

func (r *Registry) registerPatterns(globs []string, f Filter) error {
	if len(globs) == 0 {
		return fmt.Errorf("%w: empty pattern list", ErrInvalidName)
	}

	compiled := make([]patternFilter, 0, len(globs))
	for _, g := range globs {
		re, err := compileGlob(g)
		if err != nil {
			return fmt.Errorf("filter: compile pattern %q: %w", g, err)
		}
		compiled = append(compiled, patternFilter{glob: g, re: re})
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range compiled {
		r.filters[p.glob] = f
		if !r.hasPattern(p.glob) {
			r.patterns = append(r.patterns, p)
		}
	}
	return nil
}

func (r *Registry) hasPattern(glob string) bool {
	for _, p := range r.patterns {
		if p.glob == glob {
			return true
		}
	}
	return false
}

// Alias registers the filter stored under name again under alias.
func (r *Registry) Alias(name, alias string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.filters[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	r.filters[alias] = f
	return nil
}

// Get returns the filter registered under name.
func (r *Registry) Get(name string) (Filter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.filters[name]
	return f, ok
}

// Resolve returns the filter registered under name, starting its bundle
// first when the name carries a "bundle::" prefix.
func (r *Registry) Resolve(ctx context.Context, name string) (Filter, bool, error) {
	if owner, _ := bundle.Parse(name); owner != bundle.Default && r.bundles != nil {
		if err := r.bundles.Start(ctx, owner); err != nil {
			return nil, false, err
		}
	}

	f, ok := r.Get(name)
	return f, ok, nil
}

// Clear removes the filter registered under name, including a pattern
// binding of the same name.
func (r *Registry) Clear(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.filters, name)
	for i, p := range r.patterns {
		if p.glob == name {
			r.patterns = append(r.patterns[:i], r.patterns[i+1:]...)
			break
		}
	}
}

// Patterns returns, in registration order, the names of the pattern
// filters whose pattern covers uri.
func (r *Registry) Patterns(uri string) []string {
	uri = strings.Trim(uri, "/")

	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, p := range r.patterns {
		if p.re.MatchString(uri) {
			names = append(names, p.glob)
		}
	}
	return names
}

// All binds names to the event of every controller action and returns the
// binding so it can be restricted further.
func (r *Registry) All(event Event, names string, params ...string) *Binding {
	b := NewBinding(event, names, params...)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.global[event] = append(r.global[event], b)
	return b
}

// Global returns the bindings registered with All for event.
func (r *Registry) Global(event Event) []*Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]*Binding(nil), r.global[event]...)
}

// Reset removes every filter, pattern and global binding.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.filters = make(map[string]Filter)
	r.patterns = nil
	r.global = make(map[Event][]*Binding)
}

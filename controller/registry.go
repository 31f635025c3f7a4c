package controller

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/vitalvas/junction/bundle"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidName is returned when registering a controller without a
// usable name.
var ErrInvalidName = errors.New("controller: invalid name")

// Factory returns a new controller instance.
type Factory func() Controller

// Registry maps "bundle::name" keys to controller factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty controller registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register stores f under name, which may carry a bundle prefix
// ("dashboard::panel") and dots for nesting ("admin.panel").
func (r *Registry) Register(name string, f Factory) error {
	owner, element := bundle.Parse(name)
	if element == "" || strings.ContainsAny(element, "@/") || f == nil {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[bundle.Prefix(owner)+element] = f
	return nil
}

// Exists reports whether the bundle has a controller called name.
func (r *Registry) Exists(owner, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[bundle.Prefix(owner)+name]
	return ok
}

// New returns a new instance of the bundle's controller called name.
func (r *Registry) New(owner, name string) (Controller, bool) {
	r.mu.RLock()
	f, ok := r.factories[bundle.Prefix(owner)+name]
	r.mu.RUnlock()

	if !ok {
		return nil, false
	}
	return f(), true
}

// Names returns the registered keys in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Reset removes every controller.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[string]Factory)
}

// Identifier returns the class-style identifier of a controller: nested
// names joined with underscores, each part capitalized, prefixed by the
// bundle name outside the default bundle. ("dashboard", "admin.panel")
// gives "Dashboard_Admin_Panel".
func Identifier(owner, name string) string {
	if owner != "" && owner != bundle.Default {
		name = owner + "." + name
	}
	words := strings.NewReplacer(".", " ", "_", " ").Replace(name)
	return strings.ReplaceAll(cases.Title(language.Und, cases.NoLower).String(words), " ", "_")
}

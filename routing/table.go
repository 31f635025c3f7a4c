package routing

import "sync"

// Table stores compiled routes keyed by "METHOD /pattern", the per-method
// scan order used for wildcard matching, and the named route index.
//
// A Table is safe for concurrent use: lazily started bundles register
// routes while other requests are being routed.
type Table struct {
	mu sync.RWMutex

	// index maps route keys to routes.
	index map[string]*Route
	// literals holds routes without wildcards for exact lookup.
	literals map[string]*Route
	// byMethod keeps each method's routes in registration order.
	byMethod map[string][]*Route
	// order keeps every route in registration order.
	order []*Route
	// names maps a route name to its routes keyed by route key.
	names map[string]map[string]*Route

	// handles resolves the bundle owning a route path.
	handles func(uri string) string
}

// NewTable returns an empty route table.
func NewTable() *Table {
	t := &Table{}
	t.reset()
	return t
}

func (t *Table) reset() {
	t.index = make(map[string]*Route)
	t.literals = make(map[string]*Route)
	t.byMethod = make(map[string][]*Route)
	t.order = nil
	t.names = make(map[string]map[string]*Route)
}

// Register compiles each key and stores it with action. All keys are
// compiled before any is stored, so a malformed key leaves the table
// unchanged. Registering an existing key replaces that route in place.
func (t *Table) Register(keys []string, action Action) error {
	routes := make([]*Route, 0, len(keys))
	for _, key := range keys {
		route, err := NewRoute(key, action)
		if err != nil {
			return err
		}
		if t.handles != nil {
			route.Bundle = t.handles(route.Pattern.template)
		}
		routes = append(routes, route)
	}

	t.Add(routes...)
	return nil
}

// Add stores already compiled routes.
func (t *Table) Add(routes ...*Route) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, route := range routes {
		t.add(route)
	}
}

func (t *Table) add(route *Route) {
	if old, ok := t.index[route.Key]; ok {
		t.replace(old, route)
	} else {
		t.order = append(t.order, route)
		t.byMethod[route.Method] = append(t.byMethod[route.Method], route)
	}

	t.index[route.Key] = route
	if route.Pattern.HasWildcards() {
		delete(t.literals, route.Key)
	} else {
		t.literals[route.Key] = route
	}

	if name := route.Name(); name != "" {
		if t.names[name] == nil {
			t.names[name] = make(map[string]*Route)
		}
		t.names[name][route.Key] = route
	}
}

// replace swaps old for route at the same scan position and drops old from
// the name index.
func (t *Table) replace(old, route *Route) {
	for i, r := range t.order {
		if r == old {
			t.order[i] = route
			break
		}
	}

	list := t.byMethod[old.Method]
	for i, r := range list {
		if r == old {
			list[i] = route
			break
		}
	}

	if name := old.Name(); name != "" {
		delete(t.names[name], old.Key)
		if len(t.names[name]) == 0 {
			delete(t.names, name)
		}
	}
}

// Find returns every route registered under name, keyed by route key. The
// returned map is empty, never nil, when the name is unknown.
func (t *Table) Find(name string) map[string]*Route {
	t.mu.RLock()
	defer t.mu.RUnlock()

	found := make(map[string]*Route, len(t.names[name]))
	for key, route := range t.names[name] {
		found[key] = route
	}
	return found
}

// Lookup returns the route stored under key.
func (t *Table) Lookup(key string) (*Route, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	route, ok := t.index[key]
	return route, ok
}

// Uses returns the first registered route that delegates to the given
// controller reference.
func (t *Table) Uses(reference string) (*Route, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, route := range t.order {
		if route.Action.Uses == reference {
			return route, true
		}
	}
	return nil, false
}

// Named returns the first registered route carrying name.
func (t *Table) Named(name string) (*Route, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.names[name]) == 0 {
		return nil, false
	}
	for _, route := range t.order {
		if route.Name() == name {
			return route, true
		}
	}
	return nil, false
}

// Routes returns a snapshot of every route in registration order.
func (t *Table) Routes() []*Route {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return append([]*Route(nil), t.order...)
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.order)
}

// Clear removes every route and empties the name index.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.reset()
}

// literal returns the wildcard-free route registered under key.
func (t *Table) literal(key string) *Route {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.literals[key]
}

// scan returns the first route for method whose pattern matches path,
// with its raw captures.
func (t *Table) scan(method string, path []string) (*Route, []string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, route := range t.byMethod[method] {
		if !route.Pattern.HasWildcards() {
			continue
		}
		if params, ok := route.Pattern.Match(path); ok {
			return route, params
		}
	}
	return nil, nil
}

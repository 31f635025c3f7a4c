package controller

import (
	"strings"

	"github.com/vitalvas/junction/filter"
	"github.com/vitalvas/junction/response"
)

// DefaultAction is called when a reference names no method.
const DefaultAction = "index"

// ActionFunc is a controller action. Its result is normalized with
// response.Prepare.
type ActionFunc func(c *filter.Context, params []string) any

// Controller is a resolved controller instance.
type Controller interface {
	// Resolve returns the action serving name under the request method.
	Resolve(name, method string) (ActionFunc, bool)

	// Bindings returns the controller's filter bindings for event in
	// declared order.
	Bindings(event filter.Event) []*filter.Binding
}

// BeforeHook is implemented by controllers that run code before every
// action whose before filters passed.
type BeforeHook interface {
	Before(c *filter.Context)
}

// AfterHook is implemented by controllers that inspect the prepared
// response of every action before the after filters run.
type AfterHook interface {
	After(c *filter.Context, resp *response.Response)
}

// Base implements Controller. Embed it and declare actions and filters in
// the controller's factory.
type Base struct {
	// Restful makes Resolve look up "<method>_<action>", such as
	// "post_login", using the lower-cased request method.
	Restful bool

	actions  map[string]ActionFunc
	bindings []*filter.Binding
}

// Action declares an action. Restful controllers name actions with their
// method prefix, as in "get_index".
func (b *Base) Action(name string, fn ActionFunc) {
	if b.actions == nil {
		b.actions = make(map[string]ActionFunc)
	}
	b.actions[name] = fn
}

// Filter binds the "|" separated filter names to event and returns the
// binding so it can be restricted with Only, Except or On.
func (b *Base) Filter(event filter.Event, names string, params ...string) *filter.Binding {
	binding := filter.NewBinding(event, names, params...)
	b.bindings = append(b.bindings, binding)
	return binding
}

// Resolve implements Controller.
func (b *Base) Resolve(name, method string) (ActionFunc, bool) {
	if b.Restful {
		name = strings.ToLower(method) + "_" + name
	}
	fn, ok := b.actions[name]
	return fn, ok
}

// Bindings implements Controller.
func (b *Base) Bindings(event filter.Event) []*filter.Binding {
	var out []*filter.Binding
	for _, binding := range b.bindings {
		if binding.Event == event {
			out = append(out, binding)
		}
	}
	return out
}

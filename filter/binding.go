package filter

import (
	"slices"
	"strings"

	"github.com/vitalvas/junction/bundle"
)

// Event selects when a binding runs relative to the action.
type Event string

const (
	Before Event = "before"
	After  Event = "after"
)

// nameSeparator splits several filter names in one string.
const nameSeparator = "|"

// Binding attaches filters to the before or after event of an action.
type Binding struct {
	Event Event

	// Names are the filter names in declared order, possibly with inline
	// parameters and a bundle prefix.
	Names []string

	// Params replace the inline parameters of every name when set.
	Params []string

	only   []string
	except []string
	on     []string
}

// NewBinding returns an unrestricted binding of the "|" separated names.
func NewBinding(event Event, names string, params ...string) *Binding {
	return &Binding{
		Event:  event,
		Names:  SplitNames(names),
		Params: params,
	}
}

// Only restricts the binding to the given actions.
func (b *Binding) Only(actions ...string) *Binding {
	b.only = append(b.only, actions...)
	return b
}

// Except restricts the binding to every action but the given ones.
func (b *Binding) Except(actions ...string) *Binding {
	b.except = append(b.except, actions...)
	return b
}

// On restricts the binding to the given request methods.
func (b *Binding) On(methods ...string) *Binding {
	for _, m := range methods {
		b.on = append(b.on, strings.ToUpper(m))
	}
	return b
}

// Applies reports whether the binding runs for action under the request
// method. Every restriction set must pass.
func (b *Binding) Applies(action, method string) bool {
	if len(b.only) > 0 && !slices.Contains(b.only, action) {
		return false
	}
	if len(b.except) > 0 && slices.Contains(b.except, action) {
		return false
	}
	if len(b.on) > 0 && !slices.Contains(b.on, strings.ToUpper(method)) {
		return false
	}
	return true
}

// Filters returns each filter name of the binding with the parameters it
// is called with.
func (b *Binding) Filters() []Call {
	calls := make([]Call, 0, len(b.Names))
	for _, n := range b.Names {
		name, params := ParseName(n)
		if b.Params != nil {
			params = b.Params
		}
		calls = append(calls, Call{Name: name, Params: params})
	}
	return calls
}

// Call is a resolved filter name and its parameters.
type Call struct {
	Name   string
	Params []string
}

// SplitNames splits "a|b" into its non-empty, trimmed names.
func SplitNames(names string) []string {
	var out []string
	for n := range strings.SplitSeq(names, nameSeparator) {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// ParseName splits a filter name with inline parameters, such as
// "role:admin,editor" or "dashboard::role:admin", into the name and its
// non-empty, trimmed parameters.
func ParseName(s string) (string, []string) {
	var prefix string
	if i := strings.Index(s, bundle.Separator); i >= 0 {
		prefix, s = s[:i+len(bundle.Separator)], s[i+len(bundle.Separator):]
	}

	name, rest, ok := strings.Cut(s, ":")
	if !ok {
		return prefix + s, nil
	}

	var params []string
	for p := range strings.SplitSeq(rest, ",") {
		if p = strings.TrimSpace(p); p != "" {
			params = append(params, p)
		}
	}
	return prefix + name, params
}

// Package filter implements named request filters and the chain executor
// that runs them around an action.
//
// A filter is registered once under one or more names and bound to
// controller actions or routes by name:
//
//	reg := filter.NewRegistry()
//	reg.Register("auth|login-required", filter.Func(func(c *filter.Context, params []string) *response.Response {
//	    if !signedIn(c.Request) {
//	        return response.Error(http.StatusUnauthorized)
//	    }
//	    return nil
//	}))
//
// # Bindings
//
// A Binding attaches filter names to the before or after event of an
// action, optionally restricted to some actions (Only), all but some
// actions (Except) or some request methods (On):
//
//	filter.NewBinding(filter.Before, "auth").Except("login")
//	filter.NewBinding(filter.Before, "csrf").On("post", "put")
//
// A name may carry its own parameters ("role:admin,editor") and a bundle
// prefix ("dashboard::auth"). Parameters given to NewBinding take
// precedence over inline ones.
//
// # Execution
//
// Executor.Run moves through StatePre, StateInvoke, StatePost and
// StateDone. A before filter that returns a non-nil response moves the
// chain to StateAborted: the action and the after filters are skipped and
// that response is final. After filters see the action's response on
// Context.Response; what they return is ignored.
//
// # Pattern filters
//
// Registering under "pattern: admin/*, api/*" binds the filter to URIs
// instead of names. Patterns returns the patterns matching a URI, which
// are themselves filter names.
package filter

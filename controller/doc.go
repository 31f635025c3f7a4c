// Package controller resolves "bundle::name@method" references to
// registered controllers and runs their actions inside a filter chain.
//
// Controllers are registered as factories; a fresh instance serves every
// call. Embedding Base gives a controller its action table and filter
// bindings:
//
//	type Account struct{ controller.Base }
//
//	func NewAccount() controller.Controller {
//	    c := &Account{}
//	    c.Filter(filter.Before, "auth").Except("login")
//	    c.Action("index", func(fc *filter.Context, params []string) any {
//	        return "account"
//	    })
//	    return c
//	}
//
//	reg := controller.NewRegistry()
//	reg.Register("account", NewAccount)
//
// A controller may also implement BeforeHook and AfterHook to run code
// around every action that passed its before filters.
package controller

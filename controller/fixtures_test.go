package controller

import (
	"context"
	"net/http"

	"github.com/vitalvas/junction/bundle"
	"github.com/vitalvas/junction/filter"
	"github.com/vitalvas/junction/response"
)

// flags records which filters ran during a test.
type flags map[string]bool

type authController struct{ Base }

func newAuthController() Controller {
	c := &authController{}
	c.Action("index", func(*filter.Context, []string) any { return "action_index" })
	c.Action("profile", func(_ *filter.Context, params []string) any { return params[0] })
	return c
}

type adminPanelController struct{ Base }

func newAdminPanelController() Controller {
	c := &adminPanelController{}
	c.Action("index", func(*filter.Context, []string) any {
		return Identifier(bundle.Default, "admin.panel") + "_Index"
	})
	return c
}

type dashboardPanelController struct{ Base }

func newDashboardPanelController() Controller {
	c := &dashboardPanelController{}
	c.Action("index", func(*filter.Context, []string) any {
		return Identifier("dashboard", "panel") + "_Index"
	})
	return c
}

type filterController struct{ Base }

// registerFilterFixtures registers the filters used by filterController.
func registerFilterFixtures(reg *filter.Registry, ran flags) {
	mark := func(name string) filter.Filter {
		return filter.Func(func(*filter.Context, []string) *response.Response {
			ran[name] = true
			return nil
		})
	}

	for _, name := range []string{
		"test-all-before", "test-all-after", "test-profile-before", "test-except",
		"test-on-post", "test-on-get-put", "test-multi-1", "test-multi-2",
	} {
		_ = reg.Register(name, mark(name))
	}

	_ = reg.Register("test-before-filter", filter.Func(func(*filter.Context, []string) *response.Response {
		return response.New("Filtered!", http.StatusOK)
	}))
	_ = reg.Register("test-after-filter", filter.Func(func(*filter.Context, []string) *response.Response {
		return response.New("Filtered!", http.StatusOK)
	}))
	_ = reg.Register("test-params", filter.Func(func(_ *filter.Context, params []string) *response.Response {
		return response.New(params[0]+params[1], http.StatusOK)
	}))
}

func newFilterController() Controller {
	c := &filterController{}

	c.Filter(filter.Before, "test-all-before")
	c.Filter(filter.After, "test-all-after")
	c.Filter(filter.Before, "test-profile-before").Only("profile")
	c.Filter(filter.Before, "test-except").Except("index", "profile")
	c.Filter(filter.Before, "test-on-post").On("post")
	c.Filter(filter.Before, "test-on-get-put").On("get", "put")
	c.Filter(filter.Before, "test-before-filter").Only("login")
	c.Filter(filter.After, "test-after-filter").Only("logout")
	c.Filter(filter.Before, "test-params:1,2").Only("edit")
	c.Filter(filter.Before, "test-multi-1|test-multi-2").Only("save")

	for _, name := range []string{"index", "profile", "show", "edit", "login", "logout", "save"} {
		c.Action(name, func(*filter.Context, []string) any { return "action_" + name })
	}
	return c
}

type hookController struct {
	Base
	trace *[]string
}

func (h *hookController) Before(*filter.Context) {
	*h.trace = append(*h.trace, "before")
}

func (h *hookController) After(_ *filter.Context, resp *response.Response) {
	*h.trace = append(*h.trace, "after:"+resp.Content)
}

type fixture struct {
	controllers *Registry
	filters     *filter.Registry
	bundles     *bundle.Registry
	dispatcher  *Dispatcher
	ran         flags
}

func newFixture() *fixture {
	f := &fixture{
		controllers: NewRegistry(),
		bundles:     bundle.NewRegistry(),
		ran:         flags{},
	}
	f.filters = filter.NewRegistry(filter.WithBundles(f.bundles))
	f.dispatcher = NewDispatcher(f.controllers, f.filters, WithBundles(f.bundles))

	_ = f.controllers.Register("auth", newAuthController)
	_ = f.controllers.Register("admin.panel", newAdminPanelController)
	_ = f.controllers.Register("filter", newFilterController)

	_ = f.bundles.Register(bundle.Bundle{
		Name:    "dashboard",
		Handles: "dashboard",
		Boot: func(context.Context, *bundle.Bundle) error {
			return f.controllers.Register("dashboard::panel", newDashboardPanelController)
		},
	})

	registerFilterFixtures(f.filters, f.ran)

	return f
}

func (f *fixture) call(method, reference string, params ...string) (*response.Response, error) {
	ctx := filter.WithRequestMethod(context.Background(), method)
	return f.dispatcher.Call(ctx, reference, params)
}

package controller

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/junction/bundle"
	"github.com/vitalvas/junction/filter"
	"github.com/vitalvas/junction/response"
)

func content(t *testing.T, f *fixture, method, reference string, params ...string) string {
	t.Helper()
	resp, err := f.call(method, reference, params...)
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp.Content
}

func TestDispatcherCall(t *testing.T) {
	f := newFixture()

	assert.Equal(t, "action_index", content(t, f, "GET", "auth@index"))
	assert.Equal(t, "action_index", content(t, f, "GET", "auth"))
	assert.Equal(t, "Admin_Panel_Index", content(t, f, "GET", "admin.panel@index"))
	assert.Equal(t, "Taylor", content(t, f, "GET", "auth@profile", "Taylor"))
	assert.Equal(t, "Dashboard_Panel_Index", content(t, f, "GET", "dashboard::panel@index"))
	assert.True(t, f.bundles.Started("dashboard"))
}

func TestDispatcherNotFound(t *testing.T) {
	f := newFixture()

	t.Run("unknown controller", func(t *testing.T) {
		_, err := f.call("GET", "admin.missing@index")
		require.ErrorIs(t, err, ErrControllerNotFound)

		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "Admin_Missing", nf.Identifier)
		assert.Equal(t, bundle.Default, nf.Bundle)
	})

	t.Run("unknown controller after bundle start", func(t *testing.T) {
		_, err := f.call("GET", "dashboard::missing")
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "Dashboard_Missing", nf.Identifier)
	})

	t.Run("unknown bundle", func(t *testing.T) {
		_, err := f.call("GET", "nowhere::panel")
		assert.ErrorIs(t, err, bundle.ErrNotFound)
	})

	t.Run("unknown action is a 404 response", func(t *testing.T) {
		resp, err := f.call("GET", "auth@missing")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	})

	t.Run("invalid reference", func(t *testing.T) {
		_, err := f.call("GET", "@index")
		assert.ErrorIs(t, err, ErrInvalidReference)
	})
}

func TestDispatcherFilters(t *testing.T) {
	t.Run("assigned before and after filters run", func(t *testing.T) {
		f := newFixture()
		content(t, f, "GET", "filter@index")

		assert.True(t, f.ran["test-all-before"])
		assert.True(t, f.ran["test-all-after"])
	})

	t.Run("only filters apply to their methods", func(t *testing.T) {
		f := newFixture()
		content(t, f, "GET", "filter@index")
		assert.False(t, f.ran["test-profile-before"])

		content(t, f, "GET", "filter@profile")
		assert.True(t, f.ran["test-profile-before"])
	})

	t.Run("except filters skip excluded methods", func(t *testing.T) {
		f := newFixture()
		content(t, f, "GET", "filter@index")
		content(t, f, "GET", "filter@profile")
		assert.False(t, f.ran["test-except"])

		content(t, f, "GET", "filter@show")
		assert.True(t, f.ran["test-except"])
	})

	t.Run("filters can be constrained by request method", func(t *testing.T) {
		f := newFixture()
		content(t, f, "GET", "filter@index")
		assert.False(t, f.ran["test-on-post"])

		content(t, f, "POST", "filter@index")
		assert.True(t, f.ran["test-on-post"])

		f.ran["test-on-get-put"] = false
		content(t, f, "POST", "filter@index")
		assert.False(t, f.ran["test-on-get-put"])

		content(t, f, "PUT", "filter@index")
		assert.True(t, f.ran["test-on-get-put"])
	})

	t.Run("route filters named before and after are not run", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.filters.Register("before", filter.Func(func(*filter.Context, []string) *response.Response {
			f.ran["before"] = true
			return nil
		})))
		require.NoError(t, f.filters.Register("after", filter.Func(func(*filter.Context, []string) *response.Response {
			f.ran["after"] = true
			return nil
		})))

		content(t, f, "GET", "auth@index")
		assert.False(t, f.ran["before"])
		assert.False(t, f.ran["after"])
	})

	t.Run("before filters can override responses", func(t *testing.T) {
		f := newFixture()
		assert.Equal(t, "Filtered!", content(t, f, "GET", "filter@login"))
	})

	t.Run("after filters do not affect responses", func(t *testing.T) {
		f := newFixture()
		assert.Equal(t, "action_logout", content(t, f, "GET", "filter@logout"))
	})

	t.Run("filter parameters are passed", func(t *testing.T) {
		f := newFixture()
		assert.Equal(t, "12", content(t, f, "GET", "filter@edit"))
	})

	t.Run("multiple filters on one action", func(t *testing.T) {
		f := newFixture()
		content(t, f, "GET", "filter@save")
		assert.True(t, f.ran["test-multi-1"])
		assert.True(t, f.ran["test-multi-2"])
	})

	t.Run("global bindings run around every controller", func(t *testing.T) {
		f := newFixture()
		var trace []string
		require.NoError(t, f.filters.Register("audit", filter.Func(func(c *filter.Context, _ []string) *response.Response {
			trace = append(trace, c.Controller)
			return nil
		})))
		f.filters.All(filter.Before, "audit")

		content(t, f, "GET", "auth@index")
		content(t, f, "GET", "admin.panel")
		assert.Equal(t, []string{"auth@index", "admin.panel@index"}, trace)
	})

	t.Run("global binding can abort", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.filters.Register("maintenance", filter.Func(func(*filter.Context, []string) *response.Response {
			return response.Error(http.StatusServiceUnavailable)
		})))
		f.filters.All(filter.Before, "maintenance").Except("profile")

		resp, err := f.call("GET", "auth@index")
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode())
		assert.Equal(t, "Taylor", content(t, f, "GET", "auth@profile", "Taylor"))
	})

	t.Run("bundle filter starts its bundle", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.bundles.Register(bundle.Bundle{
			Name: "guard",
			Boot: func(context.Context, *bundle.Bundle) error {
				return f.filters.Register("guard::deny", filter.Func(func(*filter.Context, []string) *response.Response {
					return response.Error(http.StatusForbidden)
				}))
			},
		}))
		require.NoError(t, f.controllers.Register("secret", func() Controller {
			c := &Base{}
			c.Filter(filter.Before, "guard::deny")
			c.Action("index", func(*filter.Context, []string) any { return "secret" })
			return c
		}))

		resp, err := f.call("GET", "secret")
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode())
		assert.True(t, f.bundles.Started("guard"))
	})
}

func TestDispatcherHooks(t *testing.T) {
	f := newFixture()
	var trace []string

	require.NoError(t, f.controllers.Register("hooked", func() Controller {
		c := &hookController{trace: &trace}
		c.Filter(filter.Before, "test-before-filter").Only("blocked")
		c.Action("index", func(*filter.Context, []string) any {
			trace = append(trace, "action")
			return "done"
		})
		c.Action("blocked", func(*filter.Context, []string) any { return "never" })
		return c
	}))

	assert.Equal(t, "done", content(t, f, "GET", "hooked"))
	assert.Equal(t, []string{"before", "action", "after:done"}, trace)

	trace = nil
	assert.Equal(t, "Filtered!", content(t, f, "GET", "hooked@blocked"))
	assert.Empty(t, trace)
}

func TestDispatcherRestful(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.controllers.Register("session", func() Controller {
		c := &Base{Restful: true}
		c.Action("get_login", func(*filter.Context, []string) any { return "form" })
		c.Action("post_login", func(*filter.Context, []string) any { return "signed in" })
		return c
	}))

	assert.Equal(t, "form", content(t, f, "GET", "session@login"))
	assert.Equal(t, "signed in", content(t, f, "POST", "session@login"))

	resp, err := f.call("DELETE", "session@login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
}

func TestDispatcherPrepare(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.controllers.Register("api", func() Controller {
		c := &Base{}
		c.Action("item", func(_ *filter.Context, params []string) any {
			return map[string]string{"id": params[0]}
		})
		c.Action("raw", func(*filter.Context, []string) any {
			return response.New("created", http.StatusCreated)
		})
		c.Action("empty", func(*filter.Context, []string) any { return nil })
		return c
	}))

	resp, err := f.call("GET", "api@item", "7")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"7"}`, resp.Content)
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))

	resp, err = f.call("GET", "api@raw")
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode())

	resp, err = f.call("GET", "api@empty")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Empty(t, resp.Content)
}

func TestDispatcherBundleBootError(t *testing.T) {
	f := newFixture()
	boom := errors.New("boom")
	require.NoError(t, f.bundles.Register(bundle.Bundle{
		Name: "broken",
		Boot: func(context.Context, *bundle.Bundle) error { return boom },
	}))

	_, err := f.call("GET", "broken::panel")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrControllerNotFound)
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name       string
		reference  string
		params     []string
		wantRef    string
		wantParams []string
	}{
		{"no back-references", "auth@index", []string{"a"}, "auth@index", []string{"a"}},
		{"method back-reference", "user@(:1)", []string{"edit", "5"}, "user@edit", []string{"5"}},
		{"second parameter", "(:2)@show", []string{"5", "post"}, "post@show", []string{"5"}},
		{"repeated token", "(:1).(:1)@index", []string{"a"}, "a.a@index", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, params := Substitute(tt.reference, tt.params)
			assert.Equal(t, tt.wantRef, ref)
			assert.Equal(t, tt.wantParams, params)
		})
	}

	t.Run("used by call", func(t *testing.T) {
		f := newFixture()
		assert.Equal(t, "Taylor", content(t, f, "GET", "auth@(:1)", "profile", "Taylor"))
	})
}

func TestParseReference(t *testing.T) {
	ref, err := ParseReference("dashboard::admin.panel@show")
	require.NoError(t, err)
	assert.Equal(t, Reference{Bundle: "dashboard", Name: "admin.panel", Action: "show"}, ref)
	assert.Equal(t, "dashboard::admin.panel@show", ref.String())

	ref, err = ParseReference("home")
	require.NoError(t, err)
	assert.Equal(t, Reference{Bundle: bundle.Default, Name: "home", Action: "index"}, ref)
	assert.Equal(t, "home@index", ref.String())
}

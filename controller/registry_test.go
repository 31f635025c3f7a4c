package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/junction/bundle"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("home", newAuthController))
	require.NoError(t, r.Register("admin.panel", newAdminPanelController))
	require.NoError(t, r.Register("dashboard::panel", newDashboardPanelController))

	assert.True(t, r.Exists(bundle.Default, "home"))
	assert.True(t, r.Exists("", "home"))
	assert.True(t, r.Exists(bundle.Default, "admin.panel"))
	assert.True(t, r.Exists("dashboard", "panel"))
	assert.False(t, r.Exists(bundle.Default, "panel"))

	c, ok := r.New("dashboard", "panel")
	require.True(t, ok)
	_, ok = c.Resolve("index", "GET")
	assert.True(t, ok)

	assert.Equal(t, []string{"admin.panel", "dashboard::panel", "home"}, r.Names())

	t.Run("rejects invalid names", func(t *testing.T) {
		assert.ErrorIs(t, r.Register("", newAuthController), ErrInvalidName)
		assert.ErrorIs(t, r.Register("auth@index", newAuthController), ErrInvalidName)
		assert.ErrorIs(t, r.Register("dashboard::", newAuthController), ErrInvalidName)
		assert.ErrorIs(t, r.Register("auth", nil), ErrInvalidName)
	})

	r.Reset()
	assert.Empty(t, r.Names())
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		owner, name, want string
	}{
		{bundle.Default, "auth", "Auth"},
		{bundle.Default, "admin.panel", "Admin_Panel"},
		{"", "user_profile", "User_Profile"},
		{"dashboard", "panel", "Dashboard_Panel"},
		{"dashboard", "admin.panel", "Dashboard_Admin_Panel"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Identifier(tt.owner, tt.name))
		})
	}
}

func TestBaseBindings(t *testing.T) {
	c := &Base{}
	c.Filter("before", "a")
	c.Filter("after", "b")
	c.Filter("before", "c|d")

	before := c.Bindings("before")
	require.Len(t, before, 2)
	assert.Equal(t, []string{"a"}, before[0].Names)
	assert.Equal(t, []string{"c", "d"}, before[1].Names)
	assert.Len(t, c.Bindings("after"), 1)
}

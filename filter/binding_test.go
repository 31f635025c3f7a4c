package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBindingApplies(t *testing.T) {
	tests := []struct {
		name    string
		binding *Binding
		action  string
		method  string
		want    bool
	}{
		{"unrestricted", NewBinding(Before, "auth"), "index", "GET", true},
		{"only matches", NewBinding(Before, "auth").Only("profile"), "profile", "GET", true},
		{"only rejects", NewBinding(Before, "auth").Only("profile"), "index", "GET", false},
		{"except rejects", NewBinding(Before, "auth").Except("index", "profile"), "index", "GET", false},
		{"except passes", NewBinding(Before, "auth").Except("index", "profile"), "show", "GET", true},
		{"on matches", NewBinding(Before, "csrf").On("post"), "index", "POST", true},
		{"on rejects", NewBinding(Before, "csrf").On("post"), "index", "GET", false},
		{"on is case-insensitive", NewBinding(Before, "csrf").On("get", "put"), "index", "put", true},
		{"only and on both pass", NewBinding(Before, "a").Only("save").On("POST"), "save", "POST", true},
		{"only passes on fails", NewBinding(Before, "a").Only("save").On("POST"), "save", "GET", false},
		{"on passes only fails", NewBinding(Before, "a").Only("save").On("POST"), "index", "POST", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.binding.Applies(tt.action, tt.method))
		})
	}
}

func TestBindingFilters(t *testing.T) {
	t.Run("splits names", func(t *testing.T) {
		b := NewBinding(Before, "auth | csrf||")
		assert.Equal(t, []string{"auth", "csrf"}, b.Names)
		assert.Equal(t, []Call{{Name: "auth"}, {Name: "csrf"}}, b.Filters())
	})

	t.Run("inline parameters", func(t *testing.T) {
		b := NewBinding(Before, "role:admin,editor|auth")
		assert.Equal(t, []Call{
			{Name: "role", Params: []string{"admin", "editor"}},
			{Name: "auth"},
		}, b.Filters())
	})

	t.Run("explicit parameters win", func(t *testing.T) {
		b := NewBinding(Before, "role:admin", "owner")
		assert.Equal(t, []Call{{Name: "role", Params: []string{"owner"}}}, b.Filters())
	})
}

func TestParseName(t *testing.T) {
	tests := []struct {
		in         string
		wantName   string
		wantParams []string
	}{
		{"auth", "auth", nil},
		{"test-params:1,2", "test-params", []string{"1", "2"}},
		{"dashboard::auth", "dashboard::auth", nil},
		{"dashboard::role:admin", "dashboard::role", []string{"admin"}},
		{"role:", "role", nil},
		{"a:b,,c", "a", []string{"b", "c"}},
		{"role: admin , editor", "role", []string{"admin", "editor"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, params := ParseName(tt.in)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

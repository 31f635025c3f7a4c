package filters

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/junction/filter"
)

func basicAuthHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// requestContext returns a filter context for a request the way the
// kernel builds it.
func requestContext(r *http.Request) *filter.Context {
	ctx := filter.WithRequestMethod(context.Background(), r.Method)
	return filter.NewContext(filter.WithRequest(ctx, r), "index")
}

func TestBasicAuth(t *testing.T) {
	t.Run("config error no auth source", func(t *testing.T) {
		_, err := BasicAuth(BasicAuthConfig{})
		assert.ErrorIs(t, err, ErrNoAuthSource)
	})

	tests := []struct {
		name        string
		config      BasicAuthConfig
		authHeader  string
		wantPass    bool
		wantWWWAuth string
	}{
		{
			name:       "valid credentials via ValidateFunc",
			config:     BasicAuthConfig{ValidateFunc: func(u, p string) bool { return u == "admin" && p == "secret" }},
			authHeader: basicAuthHeader("admin", "secret"),
			wantPass:   true,
		},
		{
			name:       "valid credentials via Credentials map",
			config:     BasicAuthConfig{Credentials: map[string]string{"admin": "secret"}},
			authHeader: basicAuthHeader("admin", "secret"),
			wantPass:   true,
		},
		{
			name:        "invalid password",
			config:      BasicAuthConfig{Credentials: map[string]string{"admin": "secret"}},
			authHeader:  basicAuthHeader("admin", "wrong"),
			wantWWWAuth: `Basic realm="Restricted"`,
		},
		{
			name:        "unknown username",
			config:      BasicAuthConfig{Credentials: map[string]string{"admin": "secret"}},
			authHeader:  basicAuthHeader("unknown", "secret"),
			wantWWWAuth: `Basic realm="Restricted"`,
		},
		{
			name:        "missing Authorization header",
			config:      BasicAuthConfig{Credentials: map[string]string{"admin": "secret"}},
			wantWWWAuth: `Basic realm="Restricted"`,
		},
		{
			name:        "malformed header not Basic",
			config:      BasicAuthConfig{Credentials: map[string]string{"admin": "secret"}},
			authHeader:  "Bearer some-token",
			wantWWWAuth: `Basic realm="Restricted"`,
		},
		{
			name:        "rejected by ValidateFunc",
			config:      BasicAuthConfig{ValidateFunc: func(string, string) bool { return false }},
			authHeader:  basicAuthHeader("admin", "secret"),
			wantWWWAuth: `Basic realm="Restricted"`,
		},
		{
			name:        "custom realm",
			config:      BasicAuthConfig{Realm: "Admin Area", Credentials: map[string]string{"admin": "secret"}},
			wantWWWAuth: `Basic realm="Admin Area"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := BasicAuth(tt.config)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp := f.Handle(requestContext(req), nil)
			if tt.wantPass {
				assert.Nil(t, resp)
				return
			}

			require.NotNil(t, resp)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
			assert.Equal(t, tt.wantWWWAuth, resp.Header().Get("WWW-Authenticate"))
		})
	}

	t.Run("no request", func(t *testing.T) {
		f, err := BasicAuth(BasicAuthConfig{Credentials: map[string]string{"admin": "secret"}})
		require.NoError(t, err)

		resp := f.Handle(filter.NewContext(context.Background(), "index"), nil)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	})
}

func TestConstantTimeEqual(t *testing.T) {
	assert.True(t, constantTimeEqual("secret", "secret"))
	assert.False(t, constantTimeEqual("secret", "secre"))
	assert.False(t, constantTimeEqual("", "x"))
}

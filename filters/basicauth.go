package filters

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/vitalvas/junction/filter"
	"github.com/vitalvas/junction/response"
)

// ErrNoAuthSource is returned when BasicAuthConfig has neither ValidateFunc
// nor Credentials configured.
var ErrNoAuthSource = errors.New("basic auth: at least one of ValidateFunc or Credentials must be set")

// BasicAuthConfig configures the Basic Auth filter.
//
// See RFC 7617: https://www.rfc-editor.org/rfc/rfc7617
type BasicAuthConfig struct {
	// Realm is the authentication realm sent in the WWW-Authenticate header.
	// Defaults to "Restricted" when empty.
	Realm string

	// ValidateFunc is called to validate credentials dynamically.
	// Takes priority over Credentials when both are set.
	ValidateFunc func(username, password string) bool

	// Credentials is a static map of username -> password pairs, compared
	// in constant time.
	Credentials map[string]string
}

// BasicAuth returns a before filter that checks HTTP Basic credentials and
// short-circuits with 401 Unauthorized when they are missing or invalid.
//
// It returns ErrNoAuthSource if both ValidateFunc and Credentials are nil/empty.
func BasicAuth(cfg BasicAuthConfig) (filter.Filter, error) {
	if cfg.ValidateFunc == nil && len(cfg.Credentials) == 0 {
		return nil, ErrNoAuthSource
	}

	realm := cfg.Realm
	if realm == "" {
		realm = "Restricted"
	}

	wwwAuthenticate := fmt.Sprintf("Basic realm=%q", realm)

	validate := cfg.ValidateFunc
	credentials := cfg.Credentials

	return filter.Func(func(c *filter.Context, _ []string) *response.Response {
		if c.Request == nil {
			return unauthorized(wwwAuthenticate)
		}

		username, password, ok := c.Request.BasicAuth()
		if !ok {
			return unauthorized(wwwAuthenticate)
		}

		if validate != nil {
			if !validate(username, password) {
				return unauthorized(wwwAuthenticate)
			}
			return nil
		}

		expectedPassword, exists := credentials[username]
		// Compare even for unknown users so timing does not reveal them.
		passwordMatch := constantTimeEqual(password, expectedPassword)
		if !exists || !passwordMatch {
			return unauthorized(wwwAuthenticate)
		}
		return nil
	}), nil
}

// constantTimeEqual compares the SHA-256 digests of a and b in constant time.
func constantTimeEqual(a, b string) bool {
	aHash := sha256.Sum256([]byte(a))
	bHash := sha256.Sum256([]byte(b))

	return subtle.ConstantTimeCompare(aHash[:], bHash[:]) == 1
}

func unauthorized(wwwAuthenticate string) *response.Response {
	resp := response.New("", http.StatusUnauthorized)
	resp.Header().Set("WWW-Authenticate", wwwAuthenticate)
	return resp
}

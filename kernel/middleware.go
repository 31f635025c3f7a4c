package kernel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type requestIDKey struct{}

// RequestIDFromContext returns the ID set by RequestIDMiddleware, or an
// empty string.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}

	return ""
}

// RequestIDConfig configures RequestIDMiddleware.
type RequestIDConfig struct {
	// Header carries the ID on the request and the response. Empty means
	// "X-Request-ID".
	Header string

	// New returns a fresh ID. Nil means a random UUID.
	New func() string

	// Accept decides whether an ID sent by the client is reused. Nil
	// ignores client IDs; AcceptUUID reuses well-formed UUIDs.
	Accept func(id string) bool
}

// AcceptUUID reports whether id is a well-formed UUID.
func AcceptUUID(id string) bool {
	return uuid.Validate(id) == nil
}

// RequestIDMiddleware tags every request with an ID. The ID is echoed in
// the response header and stored in the request context, so filters,
// actions and the kernel's error logs can read it with
// RequestIDFromContext.
func RequestIDMiddleware(cfg RequestIDConfig) MiddlewareFunc {
	header := cfg.Header
	if header == "" {
		header = "X-Request-ID"
	}

	newID := cfg.New
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(header)
			if id == "" || cfg.Accept == nil || !cfg.Accept(id) {
				id = newID()
			}

			w.Header().Set(header, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig struct {
	// Logger receives recovered panics at error level. When nil, panics
	// are recovered silently.
	Logger *zap.Logger
}

// RecoveryMiddleware returns a middleware that turns a panic in a filter
// or action into a 500 Internal Server Error.
func RecoveryMiddleware(cfg RecoveryConfig) MiddlewareFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.String("request_id", RequestIDFromContext(r.Context())),
						zap.Any("panic", err))

					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// ErrInvalidOverrideMethod is returned when MethodOverrideConfig.AllowedMethods
// contains an invalid HTTP method.
var ErrInvalidOverrideMethod = errors.New("method override: allowed methods must be valid HTTP methods")

// MethodOverrideConfig configures the Method Override middleware behaviour.
type MethodOverrideConfig struct {
	// HeaderNames is the list of header names checked in order.
	// When nil, defaults to
	// ["X-HTTP-Method-Override", "X-Method-Override", "X-HTTP-Method"].
	HeaderNames []string

	// FormField is the form field checked after the headers, so HTML
	// forms can submit PUT and DELETE requests. Defaults to "_method";
	// "-" disables it.
	FormField string

	// AllowedMethods restricts which methods can be used as overrides.
	// When nil, defaults to PUT, PATCH, DELETE.
	AllowedMethods []string
}

var defaultOverrideHeaders = []string{
	"X-HTTP-Method-Override",
	"X-Method-Override",
	"X-HTTP-Method",
}

var defaultOverrideMethods = []string{
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// MethodOverrideMiddleware returns a middleware that lets POST requests
// carry their real method in a header or a form field. The override is
// applied to r.Method, which the kernel routes on and On restrictions
// test against.
func MethodOverrideMiddleware(cfg MethodOverrideConfig) (MiddlewareFunc, error) {
	headers := cfg.HeaderNames
	if len(headers) == 0 {
		headers = defaultOverrideHeaders
	}

	field := cfg.FormField
	switch field {
	case "":
		field = "_method"
	case "-":
		field = ""
	}

	methods := cfg.AllowedMethods
	if methods == nil {
		methods = defaultOverrideMethods
	}

	allowed := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		if m == "" || m != strings.ToUpper(m) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidOverrideMethod, m)
		}
		allowed[m] = struct{}{}
	}

	headerNames := make([]string, len(headers))
	copy(headerNames, headers)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				if override, h := overrideValue(r, headerNames, field); override != "" {
					override = strings.ToUpper(override)
					if _, ok := allowed[override]; ok {
						r.Method = override
						if h != "" {
							r.Header.Del(h)
						}
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

// overrideValue returns the first non-empty override and the header it
// came from, empty for the form field.
func overrideValue(r *http.Request, headers []string, field string) (string, string) {
	for _, h := range headers {
		if v := r.Header.Get(h); v != "" {
			return v, h
		}
	}

	if field != "" && isForm(r) {
		return r.PostFormValue(field), ""
	}
	return "", ""
}

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}

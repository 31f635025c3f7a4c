package filters

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/vitalvas/junction/filter"
	"github.com/vitalvas/junction/response"
)

// ErrNoAllowedTypes is returned when ContentTypeCheckConfig.AllowedTypes is
// empty.
var ErrNoAllowedTypes = errors.New("content type check: at least one allowed content type is required")

// ContentTypeCheckConfig configures the Content-Type Check filter.
type ContentTypeCheckConfig struct {
	// AllowedTypes is the set of acceptable Content-Type values.
	// Matching is case-insensitive and ignores parameters
	// (e.g. "application/json" matches "application/json; charset=utf-8").
	// Required; at least one must be provided.
	AllowedTypes []string

	// Methods is the set of request methods that require Content-Type
	// validation. When nil, defaults to POST, PUT, PATCH.
	Methods []string
}

var defaultCheckedMethods = []string{
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
}

// ContentTypeCheck returns a before filter that short-circuits with 415
// Unsupported Media Type when a request with a checked method has a
// missing or disallowed Content-Type. The method is the request method
// the chain runs under, so method overrides are honored.
//
// Inline binding parameters add allowed types for one binding:
// "json-only:application/vnd.api+json". Route parameters are ignored.
//
// It returns ErrNoAllowedTypes if AllowedTypes is empty.
func ContentTypeCheck(cfg ContentTypeCheckConfig) (filter.Filter, error) {
	if len(cfg.AllowedTypes) == 0 {
		return nil, ErrNoAllowedTypes
	}

	methods := cfg.Methods
	if methods == nil {
		methods = defaultCheckedMethods
	}

	methodSet := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		methodSet[strings.ToUpper(m)] = struct{}{}
	}

	allowedSet := make(map[string]struct{}, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowedSet[normalizeType(t)] = struct{}{}
	}

	return filter.Func(func(c *filter.Context, _ []string) *response.Response {
		if _, check := methodSet[c.Method]; !check {
			return nil
		}
		if c.Request == nil {
			return response.Error(http.StatusUnsupportedMediaType)
		}

		ct := c.Request.Header.Get("Content-Type")
		if ct == "" {
			return response.Error(http.StatusUnsupportedMediaType)
		}

		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return response.Error(http.StatusUnsupportedMediaType)
		}

		mediaType = normalizeType(mediaType)
		if _, ok := allowedSet[mediaType]; ok {
			return nil
		}
		for _, p := range c.Arguments {
			if normalizeType(p) == mediaType {
				return nil
			}
		}

		return response.Error(http.StatusUnsupportedMediaType)
	}), nil
}

func normalizeType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

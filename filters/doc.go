// Package filters provides ready-made filters for the filter registry.
//
//	auth, err := filters.BasicAuth(filters.BasicAuthConfig{
//	    Credentials: map[string]string{"admin": "secret"},
//	})
//	reg.Register("auth", auth)
//
// Each filter reads the HTTP request stored on the filter context by the
// kernel. Outside an HTTP exchange, with no request available, they
// reject the request.
package filters

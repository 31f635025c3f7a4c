// Package response provides the response-like value produced by route
// closures, controller actions and short-circuiting filters.
//
// Actions may return any value; Prepare normalizes it into a *Response:
//
//	resp := response.Prepare("hello")        // 200, text/plain body
//	resp := response.Prepare(map[string]int{"id": 1}) // 200, JSON body
//	resp := response.Error(http.StatusNotFound)
//
// A *Response is written to the client with Write.
package response

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
)

// Response is the value returned to the HTTP layer after dispatch.
type Response struct {
	// Status is the HTTP status code. Zero means 200 OK.
	Status int

	// Content is the response body.
	Content string

	header http.Header
}

// New returns a response with the given body and status code.
func New(content string, status int) *Response {
	return &Response{Status: status, Content: content}
}

// Error returns a response for the given status code whose body is the
// standard status text.
func Error(status int) *Response {
	resp := New(http.StatusText(status), status)
	resp.Header().Set("Content-Type", "text/plain; charset=utf-8")
	return resp
}

// JSON encodes v as JSON into a new response with the given status code.
// The Content-Type header is set to "application/json".
func JSON(status int, v any) (*Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("response: encode json: %w", err)
	}

	resp := New(buf.String(), status)
	resp.Header().Set("Content-Type", "application/json")
	return resp, nil
}

// XML encodes v as XML into a new response with the given status code.
// The Content-Type header is set to "application/xml".
func XML(status int, v any) (*Response, error) {
	var buf bytes.Buffer
	if err := xml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("response: encode xml: %w", err)
	}

	resp := New(buf.String(), status)
	resp.Header().Set("Content-Type", "application/xml")
	return resp, nil
}

// Header returns the response header map, allocating it on first use.
func (r *Response) Header() http.Header {
	if r.header == nil {
		r.header = make(http.Header)
	}
	return r.header
}

// StatusCode returns Status, defaulting to 200 OK.
func (r *Response) StatusCode() int {
	if r.Status == 0 {
		return http.StatusOK
	}
	return r.Status
}

// Prepare wraps a raw action result into a *Response. A *Response is
// returned unchanged; strings, byte slices and fmt.Stringer values become
// the body; nil becomes an empty 200 response; any other value is encoded
// as JSON. If JSON encoding fails, a 500 response is returned instead.
func Prepare(v any) *Response {
	switch val := v.(type) {
	case *Response:
		if val == nil {
			return New("", http.StatusOK)
		}
		return val
	case nil:
		return New("", http.StatusOK)
	case string:
		return New(val, http.StatusOK)
	case []byte:
		return New(string(val), http.StatusOK)
	case fmt.Stringer:
		return New(val.String(), http.StatusOK)
	case int:
		return New(strconv.Itoa(val), http.StatusOK)
	case bool:
		return New(strconv.FormatBool(val), http.StatusOK)
	}

	resp, err := JSON(http.StatusOK, v)
	if err != nil {
		return Error(http.StatusInternalServerError)
	}
	return resp
}

// Write sends the response headers, status code and body to w.
func (r *Response) Write(w http.ResponseWriter) error {
	for k, vals := range r.header {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}

	if w.Header().Get("Content-Type") == "" && r.Content != "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}

	w.WriteHeader(r.StatusCode())

	_, err := w.Write([]byte(r.Content))
	return err
}

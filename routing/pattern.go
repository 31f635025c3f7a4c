package routing

import (
	"fmt"
	"net/url"
	"strings"
)

// Pattern is a compiled route path: an ordered list of segment matchers
// and the position where the optional tail, if any, begins.
type Pattern struct {
	// template is the normalized source text without surrounding slashes.
	template string
	segments []Segment
	// required is the number of leading segments that must be present.
	required int
	optional bool
	catchAll bool
}

// Compile parses a route path such as "/profile/(:any)/(:num?)" into a
// Pattern. Errors wrap ErrInvalidPattern and are meant to be reported at
// registration time.
func Compile(tpl string) (*Pattern, error) {
	trimmed := strings.Trim(tpl, "/")

	p := &Pattern{template: trimmed}
	if trimmed == "" {
		return p, nil
	}

	parts := strings.Split(trimmed, "/")
	p.segments = make([]Segment, 0, len(parts))

	for i, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: %w in %q", ErrInvalidPattern, ErrEmptySegment, tpl)
		}

		seg := Segment{Kind: Literal, Value: part}
		if kind, ok := wildcards[part]; ok {
			seg.Kind = kind
		} else if isWildcardToken(part) {
			return nil, fmt.Errorf("%w: %w %q in %q", ErrInvalidPattern, ErrUnknownWildcard, part, tpl)
		} else if strings.Contains(part, "(:") {
			return nil, fmt.Errorf("%w: wildcard must be a whole segment, got %q in %q", ErrInvalidPattern, part, tpl)
		}

		switch {
		case seg.Kind == All:
			if i != len(parts)-1 || p.optional {
				return nil, fmt.Errorf("%w: %w in %q", ErrInvalidPattern, ErrCatchAllPosition, tpl)
			}
			p.catchAll = true
		case seg.Optional():
			p.optional = true
		case p.optional:
			return nil, fmt.Errorf("%w: %w: %q follows an optional segment in %q", ErrInvalidPattern, ErrOptionalOrder, part, tpl)
		}

		if !seg.Optional() {
			p.required++
		}
		p.segments = append(p.segments, seg)
	}

	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(tpl string) *Pattern {
	p, err := Compile(tpl)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the normalized pattern with a leading slash.
func (p *Pattern) String() string {
	return "/" + p.template
}

// Segments returns a copy of the compiled segment matchers.
func (p *Pattern) Segments() []Segment {
	return append([]Segment(nil), p.segments...)
}

// HasWildcards reports whether any segment captures a parameter.
func (p *Pattern) HasWildcards() bool {
	for _, s := range p.segments {
		if s.Wildcard() {
			return true
		}
	}
	return false
}

// HasOptionalTail reports whether the pattern ends in optional segments.
func (p *Pattern) HasOptionalTail() bool {
	return p.optional
}

// Required returns the number of segments a request path must supply.
func (p *Pattern) Required() int {
	return p.required
}

// Match tests the request path segments against the pattern and returns
// the captured wildcard values in left-to-right order. Omitted optional
// segments contribute no value. Values are the raw, still encoded segments.
func (p *Pattern) Match(path []string) ([]string, bool) {
	n, k := len(p.segments), len(path)

	switch {
	case p.catchAll:
		if k < n {
			return nil, false
		}
	case p.optional:
		if k < p.required || k > n {
			return nil, false
		}
	default:
		if k != n {
			return nil, false
		}
	}

	var params []string
	for i, seg := range p.segments {
		if seg.Kind == All {
			rest := strings.Join(path[i:], "/")
			if !seg.Accepts(rest) {
				return nil, false
			}
			params = append(params, rest)
			break
		}
		if i >= k {
			break
		}
		if !seg.Accepts(path[i]) {
			return nil, false
		}
		if seg.Wildcard() {
			params = append(params, path[i])
		}
	}

	return params, true
}

// Build fills the wildcards left to right with params and returns the
// resulting path, with a leading slash. Trailing optional wildcards may be
// left out. Values are percent-encoded.
func (p *Pattern) Build(params ...string) (string, error) {
	var (
		b    strings.Builder
		next int
	)

	for _, seg := range p.segments {
		var part string

		if !seg.Wildcard() {
			part = seg.Value
		} else {
			if next >= len(params) {
				if seg.Optional() {
					break
				}
				return "", fmt.Errorf("%w: %s in %q", ErrMissingParameter, seg.Value, p.String())
			}

			v := params[next]
			next++
			if !validParameter(seg, v) {
				return "", fmt.Errorf("%w: %q for %s in %q", ErrInvalidParameter, v, seg.Value, p.String())
			}
			part = escapeParameter(seg, v)
		}

		b.WriteByte('/')
		b.WriteString(part)
	}

	if next < len(params) {
		return "", fmt.Errorf("%w: %d given, %d used in %q", ErrTooManyParameters, len(params), next, p.String())
	}

	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}

func validParameter(seg Segment, v string) bool {
	switch seg.Kind {
	case All:
		return strings.Trim(v, "/") != ""
	case Any, AnyOptional:
		return v != ""
	}
	return seg.Accepts(v)
}

func escapeParameter(seg Segment, v string) string {
	if seg.Kind != All {
		return url.PathEscape(v)
	}

	parts := strings.Split(strings.Trim(v, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

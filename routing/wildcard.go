package routing

import "strings"

// Kind identifies how a pattern segment matches a request segment.
type Kind int

const (
	// Literal matches the segment text exactly.
	Literal Kind = iota
	// Any matches one or more bytes other than the path separator.
	Any
	// Num matches one or more ASCII digits.
	Num
	// AnyOptional is Any that may be omitted as part of a trailing run.
	AnyOptional
	// NumOptional is Num that may be omitted as part of a trailing run.
	NumOptional
	// All matches every remaining segment, separators included.
	All
)

// wildcards maps route tokens to segment kinds.
// Used in route keys: "GET /user/(:num)".
var wildcards = map[string]Kind{
	"(:any)":  Any,
	"(:num)":  Num,
	"(:any?)": AnyOptional,
	"(:num?)": NumOptional,
	"(:all)":  All,
}

// tokens holds the canonical token text for each wildcard kind.
var tokens = func() map[Kind]string {
	m := make(map[Kind]string, len(wildcards))
	for tok, k := range wildcards {
		m[k] = tok
	}
	return m
}()

func (k Kind) String() string {
	if k == Literal {
		return "literal"
	}
	return tokens[k]
}

// Segment is a single compiled element of a route pattern.
type Segment struct {
	Kind Kind

	// Value is the literal text, or the wildcard token.
	Value string
}

// Wildcard reports whether the segment captures a parameter.
func (s Segment) Wildcard() bool {
	return s.Kind != Literal
}

// Optional reports whether the segment may be absent from the request path.
func (s Segment) Optional() bool {
	return s.Kind == AnyOptional || s.Kind == NumOptional
}

// Accepts reports whether a single request segment satisfies s.
func (s Segment) Accepts(v string) bool {
	switch s.Kind {
	case Literal:
		return v == s.Value
	case Num, NumOptional:
		return isDigits(v)
	case Any, AnyOptional:
		return v != "" && !strings.Contains(v, "/")
	case All:
		return v != ""
	}
	return false
}

// isWildcardToken reports whether a segment looks like "(:name)" or
// "(:name?)", known or not.
func isWildcardToken(s string) bool {
	return strings.HasPrefix(s, "(:") && strings.HasSuffix(s, ")")
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

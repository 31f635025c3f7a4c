package routing

import "errors"

// ErrNotFound is stored in Match.MatchErr and returned by Router.Route when
// no route, bundle route or controller convention matches the request.
var ErrNotFound = errors.New("routing: no matching route was found")

// ErrInvalidPattern wraps every pattern compilation failure.
var ErrInvalidPattern = errors.New("routing: invalid route pattern")

var (
	// ErrOptionalOrder is returned when a required segment follows an
	// optional one.
	ErrOptionalOrder = errors.New("required segment after optional segment")

	// ErrUnknownWildcard is returned for "(:name)" tokens that are not
	// (:any), (:num), (:any?), (:num?) or (:all).
	ErrUnknownWildcard = errors.New("unknown wildcard")

	// ErrEmptySegment is returned for patterns containing "//".
	ErrEmptySegment = errors.New("empty segment")

	// ErrCatchAllPosition is returned when (:all) is not the last segment
	// or is combined with optional segments.
	ErrCatchAllPosition = errors.New("(:all) must be the last segment and cannot follow optional segments")
)

var (
	// ErrInvalidKey is returned for route keys that are not "METHOD /path".
	ErrInvalidKey = errors.New("routing: invalid route key")

	// ErrInvalidAction is returned when an action sets both Uses and Handler.
	ErrInvalidAction = errors.New("routing: action must set either Uses or Handler, not both")

	// ErrUnknownName is returned when building a URL for an unregistered
	// route name.
	ErrUnknownName = errors.New("routing: no route with that name")
)

var (
	// ErrMissingParameter is returned when URL building runs out of values
	// for a required wildcard.
	ErrMissingParameter = errors.New("routing: missing route parameter")

	// ErrTooManyParameters is returned when URL building is given more
	// values than the pattern has wildcards.
	ErrTooManyParameters = errors.New("routing: too many route parameters")

	// ErrInvalidParameter is returned when a value does not satisfy its
	// wildcard type.
	ErrInvalidParameter = errors.New("routing: parameter does not match wildcard")
)

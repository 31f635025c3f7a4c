// Package routing compiles route patterns, stores them in a route table and
// matches request paths to routes.
//
// # Route Keys
//
// A route is registered under a key made of an HTTP method and a path
// pattern. Several keys may share one action:
//
//	r := routing.NewRouter()
//	r.Register([]string{"GET /"}, routing.Action{Name: "home", Handler: home})
//	r.Register([]string{"GET /home", "GET /main"}, routing.Action{Uses: "home@index"})
//
// # Wildcards
//
// Wildcards occupy a whole path segment:
//
//	(:num)   one or more ASCII digits
//	(:any)   one or more characters other than "/"
//	(:num?)  optional (:num)
//	(:any?)  optional (:any)
//	(:all)   the rest of the path, separators included
//
// Optional wildcards form a trailing run: once a segment is optional, every
// following segment must be optional too. Violations are reported by
// Register, never at request time.
//
//	r.Register([]string{"GET /profile/(:any)/(:any?)"}, action)
//
// Matching works on the raw, percent-encoded path; captured values are
// decoded before they are exposed as Match.Parameters.
//
// # Matching Order
//
// Router.Match tries an exact literal key first, then scans the routes of
// the request method in registration order; the first pattern that accepts
// the path wins. When nothing matches and the path belongs to a bundle that
// has not started yet, the bundle is started and matching is retried once.
// Finally, with WithControllers, paths are routed to controllers by
// convention:
//
//	auth              -> auth@index
//	home/profile      -> home@profile
//	admin/panel/show  -> admin.panel@show
//	dashboard/panel   -> dashboard::panel@index (bundle handling "dashboard")
//
// A failed match is not an error condition: Match returns false and sets
// Match.MatchErr to ErrNotFound.
//
// # Named Routes
//
// Routes whose action carries a Name can be looked up and turned back into
// URLs:
//
//	routes := r.Find("profile")            // map of route key to route
//	u, err := r.URL("profile", "taylor")   // "/profile/taylor"
package routing

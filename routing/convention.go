package routing

import (
	"strings"

	"github.com/vitalvas/junction/bundle"
	"go.uber.org/zap"
)

// defaultController answers a bundle's root URI by convention.
const defaultController = "home"

// defaultMethod is the controller method used when the path names none.
const defaultMethod = "index"

// matchController maps "controller[/method[/params...]]" below the owning
// bundle's prefix to "bundle::controller@method". The longest leading run of
// segments naming a registered controller wins; nested segments are joined
// with dots, so "admin/panel/show" resolves to "admin.panel@show".
func (r *Router) matchController(owner, method, uri string, segments []string, m *Match) bool {
	if r.controllers == nil {
		return false
	}

	segs := segments
	if owner != bundle.Default && r.bundles != nil {
		segs = stripPrefix(segs, r.bundles.Option(owner))
	}

	name, rest, ok := r.controllerKey(owner, segs)
	if !ok {
		return false
	}

	action := defaultMethod
	if len(rest) > 0 {
		action, rest = rest[0], rest[1:]
	}

	uses := bundle.Prefix(owner) + name + "@" + action

	m.Route = nil
	m.Key = method + " /" + uri
	m.Method = method
	m.URI = uri
	m.Parameters = decodeParameters(rest)
	m.Action = Action{Uses: uses}
	m.Bundle = owner
	m.MatchErr = nil

	r.logger.Debug("routed by controller convention",
		zap.String("uri", uri),
		zap.String("uses", uses))

	return true
}

// controllerKey finds the longest leading run of segments naming a
// controller of owner. An empty path resolves to the default controller.
func (r *Router) controllerKey(owner string, segs []string) (string, []string, bool) {
	if len(segs) == 0 {
		if r.controllers.Exists(owner, defaultController) {
			return defaultController, nil, true
		}
		return "", nil, false
	}

	for i := len(segs); i > 0; i-- {
		name := strings.Join(segs[:i], ".")
		if r.controllers.Exists(owner, name) {
			return name, segs[i:], true
		}
	}

	return "", nil, false
}

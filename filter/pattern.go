package filter

import (
	"regexp"
	"strings"
	"sync"
)

// patternPrefix marks a registration as a URI pattern filter.
const patternPrefix = "pattern:"

// globCache caches compiled URI globs by pattern string. Patterns come
// from registration, so the cache is bounded by the registered filters.
var globCache sync.Map

// compileGlob returns a cached regexp matching a whole URI against a
// pattern where "*" matches any run of characters, slashes included.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	if v, ok := globCache.Load(pattern); ok {
		return v.(*regexp.Regexp), nil
	}

	expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, ".*") + "$"
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	actual, _ := globCache.LoadOrStore(pattern, re)

	return actual.(*regexp.Regexp), nil
}

// parsePatterns returns the globs of a "pattern: a/*, b/*" registration
// and whether names is one.
func parsePatterns(names string) ([]string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(names), patternPrefix)
	if !ok {
		return nil, false
	}

	var globs []string
	for p := range strings.SplitSeq(rest, ",") {
		if p = strings.Trim(strings.TrimSpace(p), "/"); p != "" {
			globs = append(globs, p)
		}
	}
	return globs, true
}

type patternFilter struct {
	glob string
	re   *regexp.Regexp
}

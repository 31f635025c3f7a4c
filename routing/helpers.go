package routing

import "strings"

// splitPath splits a path without surrounding slashes into its segments.
// The root path has no segments.
func splitPath(uri string) []string {
	if uri == "" {
		return nil
	}
	return strings.Split(uri, "/")
}

// stripPrefix removes the segments of a bundle's handles prefix from the
// front of segs. A root ("/") prefix removes nothing.
func stripPrefix(segs []string, handles string) []string {
	handles = strings.Trim(handles, "/")
	if handles == "" {
		return segs
	}

	prefix := strings.Split(handles, "/")
	if len(prefix) > len(segs) {
		return segs
	}
	for i, p := range prefix {
		if segs[i] != p {
			return segs
		}
	}
	return segs[len(prefix):]
}

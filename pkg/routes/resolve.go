package routes

import "strings"

// IndexRoute is the canonical logical route for the root pathname,
// matching an index.js function file.
const IndexRoute = "/index"

// Match is a successful resolution: the logical route that matched and
// the captured path parameters (empty for static routes).
type Match struct {
	Route  string
	Params map[string]string
}

// NormalizePathname canonicalizes a request pathname before matching:
// the empty or root path becomes IndexRoute, a single trailing slash is
// stripped, and a leading slash is guaranteed.
func NormalizePathname(pathname string) string {
	if pathname == "" || pathname == "/" {
		return IndexRoute
	}
	pathname = strings.TrimSuffix(pathname, "/")
	if !strings.HasPrefix(pathname, "/") {
		pathname = "/" + pathname
	}
	return pathname
}

// Resolve matches a request pathname against a compiled table.
//
// Static routes are tried first by exact lookup and always win over
// dynamic routes. Dynamic routes are tried in registration order and the
// first match wins; there is no specificity ranking, so callers that want
// one must order the route set before compilation.
func Resolve(pathname string, t *Table) (Match, bool) {
	pathname = NormalizePathname(pathname)

	if _, ok := t.Static[pathname]; ok {
		return Match{Route: pathname, Params: map[string]string{}}, true
	}

	segs := strings.Split(strings.TrimPrefix(pathname, "/"), "/")
	for _, dr := range t.Dynamic {
		if params, ok := dr.Match(segs); ok {
			return Match{Route: dr.Route, Params: params}, true
		}
	}

	return Match{}, false
}

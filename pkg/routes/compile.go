package routes

import (
	"fmt"
	"strings"
)

// segmentKind classifies one "/"-delimited piece of a logical route.
type segmentKind int

const (
	segLiteral segmentKind = iota
	segNamed
	segCatchAll
)

// segment is one compiled piece of a dynamic route pattern.
// value is the literal text for segLiteral, the parameter name otherwise.
type segment struct {
	kind  segmentKind
	value string
}

// DynamicRoute is a compiled logical route with at least one dynamic segment.
type DynamicRoute struct {
	// Route is the original logical route, returned on match.
	Route string

	// Params are the parameter names in left-to-right segment order.
	Params []string

	segments []segment
}

// Table is the compiled form of a set of logical routes: an exact-match
// static set and an ordered list of dynamic matchers.
type Table struct {
	// Static holds routes with no dynamic segments, matched by string equality.
	Static map[string]struct{}

	// Dynamic holds compiled dynamic routes in registration order.
	// Matching tests them in this order; the first match wins.
	Dynamic []*DynamicRoute
}

// Compile partitions logical routes into a static set and compiled dynamic
// matchers. Input order is preserved for dynamic routes, so compiling the
// same slice always yields an equivalent table.
func Compile(logicalRoutes []string) (*Table, error) {
	t := &Table{Static: make(map[string]struct{}, len(logicalRoutes))}

	for _, route := range logicalRoutes {
		segs, dynamic, err := parseSegments(route)
		if err != nil {
			return nil, err
		}

		if !dynamic {
			t.Static[route] = struct{}{}
			continue
		}

		dr := &DynamicRoute{Route: route, segments: segs}
		for _, seg := range segs {
			if seg.kind != segLiteral {
				dr.Params = append(dr.Params, seg.value)
			}
		}
		t.Dynamic = append(t.Dynamic, dr)
	}

	return t, nil
}

// parseSegments splits a logical route into compiled segments and reports
// whether any segment is dynamic.
func parseSegments(route string) (segs []segment, dynamic bool, err error) {
	parts := strings.Split(strings.TrimPrefix(route, "/"), "/")
	segs = make([]segment, 0, len(parts))

	for i, part := range parts {
		switch {
		case strings.HasPrefix(part, "[...") && strings.HasSuffix(part, "]"):
			if i != len(parts)-1 {
				return nil, false, fmt.Errorf("route %q: catch-all segment %q must be the last segment", route, part)
			}
			name := part[len("[...") : len(part)-1]
			if name == "" {
				return nil, false, fmt.Errorf("route %q: catch-all segment %q has no name", route, part)
			}
			segs = append(segs, segment{kind: segCatchAll, value: name})
			dynamic = true

		case strings.HasPrefix(part, "[") && strings.HasSuffix(part, "]"):
			name := part[1 : len(part)-1]
			if name == "" {
				return nil, false, fmt.Errorf("route %q: dynamic segment %q has no name", route, part)
			}
			segs = append(segs, segment{kind: segNamed, value: name})
			dynamic = true

		default:
			segs = append(segs, segment{kind: segLiteral, value: part})
		}
	}

	return segs, dynamic, nil
}

// Match tests the route against pathname segments. On success it returns
// the captured parameters: named segments capture exactly one segment,
// a trailing catch-all captures the remaining segments joined with "/".
func (r *DynamicRoute) Match(pathSegments []string) (map[string]string, bool) {
	last := len(r.segments) - 1
	hasCatchAll := last >= 0 && r.segments[last].kind == segCatchAll

	if hasCatchAll {
		// The catch-all consumes one or more trailing segments.
		if len(pathSegments) < len(r.segments) {
			return nil, false
		}
	} else if len(pathSegments) != len(r.segments) {
		return nil, false
	}

	params := make(map[string]string, len(r.Params))
	for i, seg := range r.segments {
		switch seg.kind {
		case segLiteral:
			if pathSegments[i] != seg.value {
				return nil, false
			}
		case segNamed:
			if pathSegments[i] == "" {
				return nil, false
			}
			params[seg.value] = pathSegments[i]
		case segCatchAll:
			params[seg.value] = strings.Join(pathSegments[i:], "/")
		}
	}

	return params, true
}

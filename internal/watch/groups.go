package watch

import (
	"path/filepath"
	"strings"

	"github.com/sukiejosh/vitedge/internal/errors"
	"github.com/sukiejosh/vitedge/pkg/routes"
)

// ApplyResult describes the effect of an event on a group.
type ApplyResult int

const (
	// Ignored means the event did not concern this group.
	Ignored ApplyResult = iota

	// RoutesChanged means the group's route set gained or lost a route.
	RoutesChanged

	// FileChanged means the contents of an already-tracked file changed;
	// the route set itself is untouched.
	FileChanged
)

// Group binds a glob pattern to a route index. The pattern is matched
// against file paths relative to the watched root. Supported syntax:
// "*" matches exactly one path segment, "**" matches any number of
// segments (including none); all other segments match verbatim.
type Group struct {
	// Name identifies the group in logs and metrics.
	Name string

	// Pattern is the glob pattern relative to the watched root.
	Pattern string

	// Index is the route index mutated by this group's events.
	Index *routes.Index

	root     string
	segments []string
}

// NewGroup creates a group over root with the given pattern. indexRoot is
// the classification root for the group's index (for props routes it
// includes the "props" marker directory so that it is stripped from the
// logical route).
func NewGroup(name, root, pattern, indexRoot string) *Group {
	return &Group{
		Name:     name,
		Pattern:  pattern,
		Index:    routes.NewIndex(indexRoot),
		root:     root,
		segments: strings.Split(pattern, "/"),
	}
}

// Matches reports whether the absolute file path belongs to this group.
func (g *Group) Matches(path string) bool {
	rel, err := filepath.Rel(g.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return matchSegments(g.segments, strings.Split(filepath.ToSlash(rel), "/"))
}

// matchSegments matches pattern segments against path segments.
func matchSegments(pattern, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}

	switch pattern[0] {
	case "**":
		// "**" absorbs zero or more leading path segments.
		for skip := 0; skip <= len(path); skip++ {
			if matchSegments(pattern[1:], path[skip:]) {
				return true
			}
		}
		return false
	case "*":
		return len(path) > 0 && matchSegments(pattern[1:], path[1:])
	default:
		return len(path) > 0 && path[0] == pattern[0] && matchSegments(pattern[1:], path[1:])
	}
}

// Apply routes an event to this group's index. Change events on tracked
// files report FileChanged without touching the index.
func (g *Group) Apply(ev Event) (ApplyResult, error) {
	if !g.Matches(ev.Path) {
		return Ignored, nil
	}

	switch ev.Op {
	case Add:
		before := len(g.Index.Routes())
		if err := g.Index.FileAdded(ev.Path); err != nil {
			return Ignored, errors.Newf(errors.CategoryRoutes, "route set for group %s does not compile", g.Name).Wrap(err)
		}
		if len(g.Index.Routes()) != before {
			return RoutesChanged, nil
		}
		return Ignored, nil

	case Remove:
		before := len(g.Index.Routes())
		if err := g.Index.FileRemoved(ev.Path); err != nil {
			return Ignored, errors.Newf(errors.CategoryRoutes, "route set for group %s does not compile", g.Name).Wrap(err)
		}
		if len(g.Index.Routes()) != before {
			return RoutesChanged, nil
		}
		return Ignored, nil

	case Change:
		if g.Index.Tracks(ev.Path) {
			return FileChanged, nil
		}
		return Ignored, nil
	}

	return Ignored, nil
}

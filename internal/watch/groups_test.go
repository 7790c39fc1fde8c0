package watch

import (
	stderrors "errors"
	"path/filepath"
	"testing"

	verrors "github.com/sukiejosh/vitedge/internal/errors"
)

func TestGroupMatches(t *testing.T) {
	root := filepath.Join("proj", "functions")

	tests := []struct {
		pattern string
		rel     string
		want    bool
	}{
		{"*", "sitemap.js", true},
		{"*", "api/users.js", false},
		{"api/**/*", "api/users.js", true},
		{"api/**/*", "api/users/[id].js", true},
		{"api/**/*", "props/page1.js", false},
		{"props/**/*", "props/page1.js", true},
		{"props/**/*", "props/nested/deep/[slug].js", true},
		{"props/**/*", "sitemap.js", false},
	}

	for _, tt := range tests {
		g := NewGroup("test", root, tt.pattern, root)
		path := filepath.Join(root, filepath.FromSlash(tt.rel))
		if got := g.Matches(path); got != tt.want {
			t.Errorf("pattern %q match %q = %v, want %v", tt.pattern, tt.rel, got, tt.want)
		}
	}
}

func TestGroupMatchesOutsideRoot(t *testing.T) {
	g := NewGroup("test", "/proj/functions", "*", "/proj/functions")
	if g.Matches("/proj/other/file.js") {
		t.Error("matched a path outside the root")
	}
}

func TestGroupApplyAddRemove(t *testing.T) {
	root := t.TempDir()
	g := NewGroup("api", root, "api/**/*", root)

	path := filepath.Join(root, "api", "users", "[id].js")

	res, err := g.Apply(Event{Op: Add, Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if res != RoutesChanged {
		t.Errorf("Apply(add) = %v, want RoutesChanged", res)
	}

	// A second add of the same route is a no-op.
	res, err = g.Apply(Event{Op: Add, Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if res != Ignored {
		t.Errorf("Apply(duplicate add) = %v, want Ignored", res)
	}

	res, err = g.Apply(Event{Op: Remove, Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if res != RoutesChanged {
		t.Errorf("Apply(remove) = %v, want RoutesChanged", res)
	}
	if got := g.Index.Routes(); len(got) != 0 {
		t.Errorf("routes = %v, want none", got)
	}
}

func TestGroupApplyChange(t *testing.T) {
	root := t.TempDir()
	g := NewGroup("props", root, "props/**/*", filepath.Join(root, "props"))

	path := filepath.Join(root, "props", "page1.js")

	if _, err := g.Apply(Event{Op: Add, Path: path}); err != nil {
		t.Fatal(err)
	}

	res, err := g.Apply(Event{Op: Change, Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if res != FileChanged {
		t.Errorf("Apply(change, tracked) = %v, want FileChanged", res)
	}

	// Change on an untracked file is ignored.
	res, err = g.Apply(Event{Op: Change, Path: filepath.Join(root, "props", "other.js")})
	if err != nil {
		t.Fatal(err)
	}
	if res != Ignored {
		t.Errorf("Apply(change, untracked) = %v, want Ignored", res)
	}
}

func TestGroupApplyIgnoresForeignPaths(t *testing.T) {
	root := t.TempDir()
	g := NewGroup("api", root, "api/**/*", root)

	res, err := g.Apply(Event{Op: Add, Path: filepath.Join(root, "props", "page1.js")})
	if err != nil {
		t.Fatal(err)
	}
	if res != Ignored {
		t.Errorf("Apply = %v, want Ignored", res)
	}
}

func TestGroupApplyWrapsCompileErrors(t *testing.T) {
	root := filepath.Join("proj", "functions")
	g := NewGroup("files", root, "**/*", root)

	// A catch-all segment anywhere but last does not compile.
	_, err := g.Apply(Event{Op: Add, Path: filepath.Join(root, "[...rest]", "page.js")})
	if err == nil {
		t.Fatal("Apply succeeded with an invalid route")
	}

	var e *verrors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("error is %T, want *errors.Error", err)
	}
	if e.Category != verrors.CategoryRoutes {
		t.Errorf("Category = %q, want %q", e.Category, verrors.CategoryRoutes)
	}
}

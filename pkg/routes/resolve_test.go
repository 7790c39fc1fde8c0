package routes

import (
	"reflect"
	"testing"
)

func mustCompile(t *testing.T, logicalRoutes ...string) *Table {
	t.Helper()
	table, err := Compile(logicalRoutes)
	if err != nil {
		t.Fatalf("Compile(%v): %v", logicalRoutes, err)
	}
	return table
}

func TestNormalizePathname(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/index"},
		{"/", "/index"},
		{"/about", "/about"},
		{"/about/", "/about"},
		{"about", "/about"},
		{"/api/users/7", "/api/users/7"},
	}

	for _, tt := range tests {
		if got := NormalizePathname(tt.in); got != tt.want {
			t.Errorf("NormalizePathname(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveStaticOnly(t *testing.T) {
	table := mustCompile(t, "/index", "/about", "/api/users")

	tests := []struct {
		pathname string
		wantOK   bool
		want     string
	}{
		{"/about", true, "/about"},
		{"/about/", true, "/about"},
		{"/", true, "/index"},
		{"/api/users", true, "/api/users"},
		{"/missing", false, ""},
		{"/about/extra", false, ""},
	}

	for _, tt := range tests {
		m, ok := Resolve(tt.pathname, table)
		if ok != tt.wantOK {
			t.Errorf("Resolve(%q) ok = %v, want %v", tt.pathname, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if m.Route != tt.want {
			t.Errorf("Resolve(%q).Route = %q, want %q", tt.pathname, m.Route, tt.want)
		}
		if len(m.Params) != 0 {
			t.Errorf("Resolve(%q).Params = %v, want empty", tt.pathname, m.Params)
		}
	}
}

func TestResolveNamedParam(t *testing.T) {
	table := mustCompile(t, "/a/[id]/b")

	m, ok := Resolve("/a/42/b", table)
	if !ok {
		t.Fatal("expected match")
	}
	if m.Route != "/a/[id]/b" {
		t.Errorf("Route = %q", m.Route)
	}
	if !reflect.DeepEqual(m.Params, map[string]string{"id": "42"}) {
		t.Errorf("Params = %v", m.Params)
	}

	if _, ok := Resolve("/a/b", table); ok {
		t.Error("matched with a missing segment")
	}
}

func TestResolveCatchAll(t *testing.T) {
	table := mustCompile(t, "/files/[...slug]")

	m, ok := Resolve("/files/x/y/z", table)
	if !ok {
		t.Fatal("expected match")
	}
	if m.Params["slug"] != "x/y/z" {
		t.Errorf("slug = %q, want %q", m.Params["slug"], "x/y/z")
	}

	if _, ok := Resolve("/files", table); ok {
		t.Error("catch-all matched zero trailing segments")
	}
}

func TestResolveStaticWinsOverDynamic(t *testing.T) {
	// Dynamic registered first; the static route must still win.
	table := mustCompile(t, "/a/[id]", "/a/b")

	m, ok := Resolve("/a/b", table)
	if !ok {
		t.Fatal("expected match")
	}
	if m.Route != "/a/b" {
		t.Errorf("Route = %q, want static %q", m.Route, "/a/b")
	}

	m, ok = Resolve("/a/c", table)
	if !ok {
		t.Fatal("expected dynamic match")
	}
	if m.Route != "/a/[id]" || m.Params["id"] != "c" {
		t.Errorf("got %+v", m)
	}
}

func TestResolveInsertionOrderTieBreak(t *testing.T) {
	// Both patterns match /docs/x. Registration order decides; a route
	// with fewer dynamic segments is not preferred.
	table := mustCompile(t, "/[section]/[page]", "/docs/[page]")

	m, ok := Resolve("/docs/x", table)
	if !ok {
		t.Fatal("expected match")
	}
	if m.Route != "/[section]/[page]" {
		t.Errorf("Route = %q, want first-registered %q", m.Route, "/[section]/[page]")
	}

	// Reversed registration flips the winner.
	table = mustCompile(t, "/docs/[page]", "/[section]/[page]")
	m, _ = Resolve("/docs/x", table)
	if m.Route != "/docs/[page]" {
		t.Errorf("Route = %q, want first-registered %q", m.Route, "/docs/[page]")
	}
}

func TestResolveEmptyTable(t *testing.T) {
	table := mustCompile(t)
	if _, ok := Resolve("/anything", table); ok {
		t.Error("empty table produced a match")
	}
}

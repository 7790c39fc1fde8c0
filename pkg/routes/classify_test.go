package routes

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		path   string
		root   string
		want   string
		wantOK bool
	}{
		{"functions/api/users.js", "functions", "/api/users", true},
		{"functions/api/users/[id].ts", "functions", "/api/users/[id]", true},
		{"functions/props/posts/[slug].tsx", "functions/props", "/posts/[slug]", true},
		{"functions/props/index.js", "functions/props", "/index", true},
		{"functions/sitemap.jsx", "functions", "/sitemap", true},
		{"functions/README.md", "functions", "", false},
		{"functions/styles.css", "functions", "", false},
		{"functions/api/users.JS", "functions", "/api/users", true},
		{"functions/api/users.Ts", "functions", "/api/users", true},
	}

	for _, tt := range tests {
		got, ok := Classify(tt.path, tt.root)
		if ok != tt.wantOK {
			t.Errorf("Classify(%q, %q) ok = %v, want %v", tt.path, tt.root, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("Classify(%q, %q) = %q, want %q", tt.path, tt.root, got, tt.want)
		}
	}
}

func TestClassifyWindowsSeparators(t *testing.T) {
	got, ok := Classify(`functions\api\users.js`, "functions")
	if !ok {
		t.Fatal("expected backslash path to classify")
	}
	if got != "/api/users" {
		t.Errorf("got %q, want %q", got, "/api/users")
	}
}

func TestClassifyRoundTrip(t *testing.T) {
	// A file's own route always matches itself.
	files := []string{
		"functions/api/users.js",
		"functions/api/users/[id].ts",
		"functions/props/[...all].js",
	}

	for _, file := range files {
		route, ok := Classify(file, "functions")
		if !ok {
			t.Fatalf("Classify(%q) rejected", file)
		}

		table, err := Compile([]string{route})
		if err != nil {
			t.Fatalf("Compile(%q): %v", route, err)
		}

		// A dynamic route matched against its own pattern text succeeds
		// because bracketed request segments are non-empty literals to
		// the matcher.
		if _, ok := Resolve(route, table); !ok {
			t.Errorf("route %q does not resolve itself", route)
		}
	}
}

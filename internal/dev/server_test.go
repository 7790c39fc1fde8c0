package dev

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sukiejosh/vitedge/internal/config"
	"github.com/sukiejosh/vitedge/internal/watch"
)

func writeFunctions(t *testing.T, files ...string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "functions")
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir failed: %v", err)
		}
		if err := os.WriteFile(path, []byte("export default () => ({})"), 0o644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	return root
}

func newTestServer(t *testing.T, exec Executor, files ...string) *Server {
	t.Helper()

	root := writeFunctions(t, files...)
	cfg := &config.Config{
		Name:         "test-app",
		FunctionsDir: root,
		Dev: config.DevConfig{
			Port:    config.DefaultPort,
			Host:    config.DefaultHost,
			ViteURL: config.DefaultViteURL,
		},
	}

	s, err := NewServer(ServerOptions{Config: cfg, Executor: exec})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if err := SeedFromDisk(root, s.Groups()); err != nil {
		t.Fatalf("SeedFromDisk failed: %v", err)
	}
	return s
}

func TestServerRouting(t *testing.T) {
	exec := &captureExecutor{}
	s := newTestServer(t, exec,
		"index.ts",
		"team.ts",
		"api/users.ts",
		"api/users/[id].ts",
		"props/page1.ts",
	)
	h := s.routes()

	tests := []struct {
		path      string
		wantRoute string
	}{
		{"/", "/index"},
		{"/team", "/team"},
		{"/api/users", "/api/users"},
		{"/api/users/9", "/api/users/[id]"},
		{"/props/page1", "/page1"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, want %d", tt.path, rec.Code, http.StatusOK)
		}
		if exec.last.Route != tt.wantRoute {
			t.Errorf("%s: route = %q, want %q", tt.path, exec.last.Route, tt.wantRoute)
		}
	}
}

func TestServerLiveRouteAddition(t *testing.T) {
	exec := &captureExecutor{}
	s := newTestServer(t, exec, "index.ts", "api/users.ts")

	root := s.config.FunctionsPath()
	ev := watch.Event{Op: watch.Add, Path: filepath.Join(root, "api", "posts.ts")}
	for _, g := range s.Groups() {
		if _, err := g.Apply(ev); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/api/posts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if exec.last.Route != "/api/posts" {
		t.Errorf("route = %q, want %q", exec.last.Route, "/api/posts")
	}
}

func TestServerGroupPartition(t *testing.T) {
	exec := &captureExecutor{}
	s := newTestServer(t, exec,
		"index.ts",
		"api/users.ts",
		"props/page1.ts",
	)

	// Each file lands in exactly one group.
	wantFiles := []string{"/index"}
	wantAPI := []string{"/api/users"}
	wantProps := []string{"/page1"}

	checkRoutes := func(name string, got, want []string) {
		if len(got) != len(want) {
			t.Fatalf("%s routes = %v, want %v", name, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s routes = %v, want %v", name, got, want)
			}
		}
	}

	checkRoutes("files", s.files.Index.Routes(), wantFiles)
	checkRoutes("api", s.api.Index.Routes(), wantAPI)
	checkRoutes("props", s.props.Index.Routes(), wantProps)
}

func TestNewServerMissingFunctionsDir(t *testing.T) {
	cfg := &config.Config{
		Name:         "test-app",
		FunctionsDir: filepath.Join(t.TempDir(), "does-not-exist"),
		Dev: config.DevConfig{
			Port:    config.DefaultPort,
			Host:    config.DefaultHost,
			ViteURL: config.DefaultViteURL,
		},
	}

	if _, err := NewServer(ServerOptions{Config: cfg}); err == nil {
		t.Fatal("NewServer succeeded with missing functions directory")
	}
}

func TestServerProxyInjectsClientScript(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body><h1>app</h1></body></html>"))
	}))
	defer backend.Close()

	root := writeFunctions(t, "index.ts")
	cfg := &config.Config{
		Name:         "test-app",
		FunctionsDir: root,
		Dev: config.DevConfig{
			Port:    config.DefaultPort,
			Host:    config.DefaultHost,
			ViteURL: backend.URL,
		},
	}

	s, err := NewServer(ServerOptions{Config: cfg, Executor: &captureExecutor{}})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	// Unmatched pathname, passed through to the proxied backend.
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/some/page", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<h1>app</h1>") {
		t.Fatalf("proxied body lost: %q", body)
	}
	idx := strings.Index(body, ClientScript)
	if idx == -1 {
		t.Fatal("client script not injected into proxied HTML")
	}
	if idx > strings.Index(body, "</body>") {
		t.Error("client script injected after </body>")
	}
}

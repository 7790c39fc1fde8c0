package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()

	handler := Metrics(WithRegistry(reg))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/missing", nil))
	}

	want := `# HELP vitedge_requests_total HTTP requests handled by the dev server.
# TYPE vitedge_requests_total counter
vitedge_requests_total{code="404",method="GET"} 3
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "vitedge_requests_total"); err != nil {
		t.Error(err)
	}
}

func TestMetricsDefaultStatus(t *testing.T) {
	reg := prometheus.NewRegistry()

	handler := Metrics(WithRegistry(reg))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok")) // implicit 200
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if got := testutil.CollectAndCount(reg); got == 0 {
		t.Error("no metrics collected")
	}
}

func TestTracePassesThrough(t *testing.T) {
	called := false
	handler := Trace()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/x", nil))

	if !called {
		t.Error("next handler not called")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestTraceFilterSkips(t *testing.T) {
	handler := Trace(WithTraceFilter(func(r *http.Request) bool {
		return !strings.HasPrefix(r.URL.Path, "/metrics")
	}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

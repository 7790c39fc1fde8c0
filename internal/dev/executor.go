package dev

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// Headers attached to forwarded invocations.
const (
	// HeaderRoute carries the matched logical route.
	HeaderRoute = "X-Vitedge-Route"

	// HeaderParams carries the extracted path parameters as JSON.
	HeaderParams = "X-Vitedge-Params"
)

// ForwardExecutor sends invocations to the function runtime over HTTP.
// The matched route and parameters travel in headers; the runtime owns
// the response entirely.
type ForwardExecutor struct {
	proxy *httputil.ReverseProxy
}

// NewForwardExecutor creates an executor forwarding to backend.
func NewForwardExecutor(backend string) (*ForwardExecutor, error) {
	target, err := url.Parse(backend)
	if err != nil {
		return nil, fmt.Errorf("invalid functions backend %q: %w", backend, err)
	}
	return &ForwardExecutor{proxy: httputil.NewSingleHostReverseProxy(target)}, nil
}

// Execute implements Executor.
func (e *ForwardExecutor) Execute(w http.ResponseWriter, r *http.Request, inv Invocation) error {
	params, err := json.Marshal(inv.Params)
	if err != nil {
		return err
	}

	r.Header.Set(HeaderRoute, inv.Route)
	r.Header.Set(HeaderParams, string(params))

	e.proxy.ServeHTTP(w, r)
	return nil
}

// unconfiguredExecutor answers 501 for every invocation. It is the
// default when no functions backend is configured, so a matched route is
// still visible during development.
type unconfiguredExecutor struct{}

func (unconfiguredExecutor) Execute(w http.ResponseWriter, r *http.Request, inv Invocation) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotImplemented)
	fmt.Fprintf(w, "matched %s but no functions backend is configured (set dev.functionsUrl)\n", inv.Route)
	return nil
}

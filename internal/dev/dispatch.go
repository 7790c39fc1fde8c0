package dev

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/sukiejosh/vitedge/internal/errors"
	"github.com/sukiejosh/vitedge/pkg/routes"
)

// Route prefixes handled by the dispatcher. Everything else is passed to
// the next handler unchanged.
const (
	// PropsPrefix selects the props endpoint group. The prefix is
	// stripped before resolution, so /props/page1 resolves /page1.
	PropsPrefix = "/props/"

	// APIPrefix selects the API group. API logical routes keep the
	// prefix, so the pathname is resolved as-is.
	APIPrefix = "/api/"

	// payloadParam is the query parameter carrying the JSON payload of
	// a props request.
	payloadParam = "payload"
)

// Invocation is a resolved function call handed to the Executor.
type Invocation struct {
	// Route is the matched logical route.
	Route string

	// Params are the extracted path parameters.
	Params map[string]string

	// Query is the request query string.
	Query url.Values

	// Payload is the decoded JSON payload of a props request, nil for
	// other requests.
	Payload any
}

// Executor runs a matched function and writes the response. The
// dispatcher never inspects response bodies.
type Executor interface {
	Execute(w http.ResponseWriter, r *http.Request, inv Invocation) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(w http.ResponseWriter, r *http.Request, inv Invocation) error

// Execute implements Executor.
func (f ExecutorFunc) Execute(w http.ResponseWriter, r *http.Request, inv Invocation) error {
	return f(w, r, inv)
}

// Dispatcher maps request pathnames to function invocations using the
// per-group route indexes. It performs prefix selection only; all
// matching lives in the routes package.
type Dispatcher struct {
	files *routes.Index
	api   *routes.Index
	props *routes.Index

	exec      Executor
	logger    *slog.Logger
	collector *Collector
}

// NewDispatcher creates a dispatcher over the three group indexes.
func NewDispatcher(files, api, props *routes.Index, exec Executor, logger *slog.Logger, collector *Collector) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		files:     files,
		api:       api,
		props:     props,
		exec:      exec,
		logger:    logger,
		collector: collector,
	}
}

// Middleware returns the dispatch handler. Requests under the props or
// api prefixes that resolve to nothing are configuration errors (500):
// the route tables are derived from the file tree, so a miss there means
// the caller believed a function existed that does not.
func (d *Dispatcher) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pathname := r.URL.Path

		switch {
		case strings.HasPrefix(pathname, PropsPrefix):
			d.serveProps(w, r, strings.TrimPrefix(pathname, strings.TrimSuffix(PropsPrefix, "/")))

		case strings.HasPrefix(pathname, APIPrefix):
			d.serveAPI(w, r, pathname)

		default:
			d.serveFile(w, r, pathname, next)
		}
	})
}

func (d *Dispatcher) serveProps(w http.ResponseWriter, r *http.Request, pathname string) {
	m, ok := routes.Resolve(pathname, d.props.Snapshot())
	if !ok {
		d.noRouteMatch(w, r, "props", pathname)
		return
	}

	inv := Invocation{
		Route:  m.Route,
		Params: m.Params,
		Query:  r.URL.Query(),
	}

	if raw := r.URL.Query().Get(payloadParam); raw != "" {
		if err := json.Unmarshal([]byte(raw), &inv.Payload); err != nil {
			d.logger.Error("invalid props payload", "route", m.Route, "err", errors.New("E302").Wrap(err))
			d.collector.RecordResolution("props", "payload_error")
			http.Error(w, "invalid props payload", http.StatusBadRequest)
			return
		}
	}

	d.delegate(w, r, "props", inv)
}

func (d *Dispatcher) serveAPI(w http.ResponseWriter, r *http.Request, pathname string) {
	m, ok := routes.Resolve(pathname, d.api.Snapshot())
	if !ok {
		d.noRouteMatch(w, r, "api", pathname)
		return
	}

	d.delegate(w, r, "api", Invocation{
		Route:  m.Route,
		Params: m.Params,
		Query:  r.URL.Query(),
	})
}

func (d *Dispatcher) serveFile(w http.ResponseWriter, r *http.Request, pathname string, next http.Handler) {
	m, ok := routes.Resolve(pathname, d.files.Snapshot())
	if !ok {
		// Not a function route; hand the request to the next handler.
		d.collector.RecordResolution("files", "passthrough")
		next.ServeHTTP(w, r)
		return
	}

	d.delegate(w, r, "files", Invocation{
		Route:  m.Route,
		Params: m.Params,
		Query:  r.URL.Query(),
	})
}

// delegate hands a resolved invocation to the executor.
func (d *Dispatcher) delegate(w http.ResponseWriter, r *http.Request, group string, inv Invocation) {
	if err := d.exec.Execute(w, r, inv); err != nil {
		d.logger.Error("function execution failed", "group", group, "route", inv.Route, "err", err)
		d.collector.RecordResolution(group, "error")
		http.Error(w, "function execution failed", http.StatusInternalServerError)
		return
	}
	d.collector.RecordResolution(group, "delegated")
}

// noRouteMatch reports a pathname that should resolve but does not.
// Retrying cannot help: the tables are deterministic, so this is a
// configuration inconsistency, not a client error.
func (d *Dispatcher) noRouteMatch(w http.ResponseWriter, r *http.Request, group, pathname string) {
	d.logger.Error("no function matches route", "group", group, "pathname", pathname, "err", errors.New("E301"))
	d.collector.RecordResolution(group, "no_match")
	http.Error(w, "no function matches this route", http.StatusInternalServerError)
}

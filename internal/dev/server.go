package dev

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sukiejosh/vitedge/internal/config"
	"github.com/sukiejosh/vitedge/internal/errors"
	"github.com/sukiejosh/vitedge/internal/watch"
	"github.com/sukiejosh/vitedge/pkg/middleware"
	"github.com/sukiejosh/vitedge/pkg/routes"
)

// Watch group patterns, relative to the functions directory.
const (
	filesPattern = "*"
	apiPattern   = "api/**/*"
	propsPattern = "props/**/*"
)

// ReloadPath is the WebSocket endpoint for live updates.
const ReloadPath = "/__vitedge/reload"

// ServerOptions configures the development server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// Executor runs matched functions. Defaults to forwarding to
	// Config.Dev.FunctionsURL, or a 501 placeholder when unset.
	Executor Executor

	// Logger receives server logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Registry receives Prometheus metrics. Defaults to the global
	// registry. Ignored when Config.Dev.Metrics is false.
	Registry *prometheus.Registry
}

// Server is the development server.
type Server struct {
	config    *config.Config
	logger    *slog.Logger
	collector *Collector
	registry  *prometheus.Registry

	files *watch.Group
	api   *watch.Group
	props *watch.Group

	watcher    *watch.Watcher
	hub        *Hub
	dispatcher *Dispatcher
	viteProxy  *httputil.ReverseProxy
	httpServer *http.Server

	mu      sync.Mutex
	running bool
}

// NewServer creates a new development server.
func NewServer(opts ServerOptions) (*Server, error) {
	cfg := opts.Config

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	root := cfg.FunctionsPath()
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, errors.New("E103").
			WithDetail("Expected a functions directory at " + root).
			WithSuggestion("Create the directory or set functionsDir in vitedge.json")
	}

	viteTarget, err := url.Parse(cfg.Dev.ViteURL)
	if err != nil {
		return nil, errors.New("E102").
			WithDetail("dev.viteUrl is not a valid URL: " + cfg.Dev.ViteURL).
			Wrap(err)
	}

	exec := opts.Executor
	if exec == nil {
		if cfg.Dev.FunctionsURL != "" {
			exec, err = NewForwardExecutor(cfg.Dev.FunctionsURL)
			if err != nil {
				return nil, errors.New("E102").Wrap(err)
			}
		} else {
			exec = unconfiguredExecutor{}
		}
	}

	watcher, err := watch.New(root, watch.WithLogger(logger), watch.WithIgnore(cfg.Dev.Ignore))
	if err != nil {
		return nil, errors.New("E201").Wrap(err)
	}

	var collector *Collector
	if cfg.Dev.Metrics {
		if opts.Registry != nil {
			collector = NewCollector(opts.Registry)
		} else {
			collector = NewCollector(prometheus.DefaultRegisterer)
		}
	}

	s := &Server{
		config:    cfg,
		logger:    logger,
		collector: collector,
		registry:  opts.Registry,
		watcher:   watcher,
		hub:       NewHub(),
	}
	s.viteProxy = httputil.NewSingleHostReverseProxy(viteTarget)
	s.viteProxy.ModifyResponse = injectClient

	groups := NewGroups(root)
	s.files, s.api, s.props = groups[0], groups[1], groups[2]

	s.dispatcher = NewDispatcher(s.files.Index, s.api.Index, s.props.Index, exec, logger, collector)
	s.hub.OnClients(collector.SetReloadClients)

	return s, nil
}

// NewGroups builds the three watch groups over a functions directory,
// in files, api, props order. The props group indexes relative to the
// props subdirectory, so its logical routes carry no /props prefix.
func NewGroups(root string) []*watch.Group {
	return []*watch.Group{
		watch.NewGroup("files", root, filesPattern, root),
		watch.NewGroup("api", root, apiPattern, root),
		watch.NewGroup("props", root, propsPattern, filepath.Join(root, "props")),
	}
}

// Groups returns the three watch groups in files, api, props order.
func (s *Server) Groups() []*watch.Group {
	return []*watch.Group{s.files, s.api, s.props}
}

// Start runs the server until ctx is done or the listener fails.
// The functions directory is scanned before the listener accepts
// requests, so the first request already sees the full route tables.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	if err := s.watcher.Start(ctx); err != nil {
		return errors.New("E201").Wrap(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.processEvents()
	}()

	s.httpServer = &http.Server{
		Addr:    s.config.DevAddress(),
		Handler: s.routes(),
	}

	s.logger.Info("dev server running", "url", s.config.DevURL(), "functions", s.config.FunctionsPath())

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		<-done
		return nil
	case err := <-errCh:
		s.Stop()
		<-done
		return err
	}
}

// Stop stops the server.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false

	s.watcher.Stop()
	s.hub.Close()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

// routes builds the HTTP handler: live-update WebSocket, metrics, and
// the dispatch middleware in front of the Vite proxy.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	if s.collector != nil {
		var metricsOpts []middleware.MetricsOption
		if s.registry != nil {
			metricsOpts = append(metricsOpts, middleware.WithRegistry(s.registry))
		}
		r.Use(middleware.Metrics(metricsOpts...))
	}

	r.Use(middleware.Trace(middleware.WithTraceFilter(func(req *http.Request) bool {
		return req.URL.Path != ReloadPath && req.URL.Path != "/metrics"
	})))

	r.HandleFunc(ReloadPath, s.hub.HandleWebSocket)

	if s.collector != nil {
		if s.registry != nil {
			r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
		} else {
			r.Method(http.MethodGet, "/metrics", promhttp.Handler())
		}
	}

	r.Handle("/*", s.dispatcher.Middleware(s.viteProxy))

	return r
}

// processEvents is the single writer for every route index. It applies
// watcher events serially and emits live-update notifications.
func (s *Server) processEvents() {
	groups := s.Groups()

	for ev := range s.watcher.Events() {
		for _, g := range groups {
			res, err := g.Apply(ev)
			if err != nil {
				// The previous table is still published; log and move on.
				s.logger.Error("route table rebuild failed",
					"group", g.Name, "path", ev.Path, "op", ev.Op.String(), "err", errors.New("E202").Wrap(err))
				s.collector.RecordRebuild(g.Name, err)
				continue
			}

			switch res {
			case watch.RoutesChanged:
				s.collector.RecordRebuild(g.Name, nil)
				s.logger.Info("route table updated", "group", g.Name, "op", ev.Op.String(), "path", ev.Path)
				if g == s.props {
					s.hub.NotifyPropsEndpoints(s.props.Index.Routes())
				}

			case watch.FileChanged:
				if route, ok := routes.Classify(ev.Path, g.Index.Root()); ok {
					s.hub.NotifyFunctionUpdate(route)
				}
			}
		}
	}
}

// SeedFromDisk applies the current contents of root to the groups
// without starting a watcher. Used by one-shot commands.
func SeedFromDisk(root string, groups []*watch.Group) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, g := range groups {
			if _, err := g.Apply(watch.Event{Op: watch.Add, Path: path}); err != nil {
				return err
			}
		}
		return nil
	})
}

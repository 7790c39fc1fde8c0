// Package middleware provides observability middleware for the vitedge
// dev server: Prometheus request metrics and OpenTelemetry tracing.
//
// Both middlewares are standard func(http.Handler) http.Handler wrappers
// and compose with chi:
//
//	r := chi.NewRouter()
//	r.Use(middleware.Metrics())
//	r.Use(middleware.Trace())
package middleware

// Package watch turns filesystem notifications for the functions
// directory into add/remove/change events and applies them to route
// indexes.
//
// Each Group binds a glob pattern, relative to the watched root, to one
// routes.Index:
//
//	*            top-level function files
//	api/**/*     API routes
//	props/**/*   props endpoints
//
// Events are delivered on a channel and must be consumed by a single
// goroutine; that goroutine is the only writer for every bound index.
package watch

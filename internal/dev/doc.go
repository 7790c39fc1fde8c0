// Package dev implements the vitedge development server.
//
// The server watches the functions directory, maintains one route index
// per file group (top-level files, api/, props/), and dispatches
// matching requests to the function runtime. Requests that match no
// function are proxied to the Vite dev server unchanged.
//
// Connected browsers receive live updates over a WebSocket: the set of
// resolvable props endpoints whenever it changes, and the logical path
// of any already-served function whose contents change.
package dev

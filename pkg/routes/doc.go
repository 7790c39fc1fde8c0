// Package routes implements the function route index for vitedge.
//
// Function files on disk map to logical routes, which are matched
// against request pathnames:
//
//	functions/
//	├── sitemap.js             → /sitemap
//	├── api/
//	│   ├── users.js           → /api/users
//	│   └── users/[id].js      → /api/users/[id]
//	└── props/
//	    ├── index.js           → /index
//	    └── posts/[slug].js    → /posts/[slug]
//
// # Dynamic segments
//
// Bracketed segments are dynamic:
//
//	[name]      matches exactly one non-empty segment, captured as "name"
//	[...name]   trailing catch-all, captures one or more segments joined by "/"
//
// Every other segment is literal and matches verbatim, including case.
//
// # Usage
//
//	ix := routes.NewIndex("functions/api")
//	ix.FileAdded("functions/api/users/[id].ts")
//
//	m, ok := routes.Resolve("/users/7", ix.Snapshot())
//	if ok {
//	    // m.Route == "/users/[id]", m.Params["id"] == "7"
//	}
//
// Static routes always win over dynamic ones; among dynamic routes the
// first registered wins. The index is safe for concurrent readers with a
// single writer: mutations recompile the whole table and publish it by
// swapping a snapshot pointer, so a reader sees either the fully-old or
// the fully-new table.
package routes

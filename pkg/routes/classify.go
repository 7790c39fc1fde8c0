package routes

import (
	"path"
	"path/filepath"
	"strings"
)

// sourceExts are the recognized function source extensions.
// Files with any other extension never become routes.
var sourceExts = map[string]struct{}{
	".js":  {},
	".jsx": {},
	".ts":  {},
	".tsx": {},
}

// Classify derives the logical route for a function source file.
// root is the watched directory the file belongs to, including the group
// marker (e.g. "functions/api" for API routes, "functions/props" for props
// routes). The logical route is the file path relative to root, without
// the extension, prefixed with "/".
//
// Files with an unrecognized extension are skipped (ok == false).
func Classify(filePath, root string) (route string, ok bool) {
	p := filepath.ToSlash(filePath)
	ext := path.Ext(p)
	if _, recognized := sourceExts[strings.ToLower(ext)]; !recognized {
		return "", false
	}

	p = strings.TrimSuffix(p, ext)
	p = strings.TrimPrefix(p, filepath.ToSlash(root))
	p = strings.TrimPrefix(p, "/")

	return "/" + p, true
}

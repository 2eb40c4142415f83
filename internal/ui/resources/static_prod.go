//go:build !dev

package resources

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// IsDev reports whether assets are served from the filesystem with hot
// reload enabled.
const IsDev = false

// StaticDir returns "" since assets are embedded in the binary.
func StaticDir() string {
	return ""
}

// Handler returns an HTTP handler for serving static files.
// In production mode, files are embedded in the binary.
func Handler() http.Handler {
	fsys, _ := fs.Sub(staticFS, "static")
	// Cache embedded static assets for 1 year (they never change in prod)
	return serve(http.FS(fsys), "public, max-age=31536000, immutable")
}

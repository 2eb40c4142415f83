//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// IsDev reports whether assets are served from the filesystem with hot
// reload enabled.
const IsDev = true

// StaticDir returns the directory the assets are served from.
// It is derived from this source file so the binary can run from anywhere.
func StaticDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return StaticDirectoryPath
	}
	return filepath.Join(filepath.Dir(filename), "static")
}

// Handler returns an HTTP handler for serving static files.
// In dev mode, files are served directly from the filesystem for hot reloading.
func Handler() http.Handler {
	staticDir := StaticDir()
	slog.Info("static assets served from filesystem", "path", staticDir)

	// Revalidate on every request so edits show up on reload.
	return serve(http.FS(os.DirFS(staticDir)), "no-cache")
}

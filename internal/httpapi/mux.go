package httpapi

import (
	"log/slog"
	"net/http"
	"os"
)

func NewMux(pinger Pinger, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, pinger)
	registerStatic(mux, staticDir)
	return mux
}

// registerStatic serves staticDir at /static/. A missing directory is
// logged and skipped; the dashboard renders without its logo.
func registerStatic(mux *http.ServeMux, staticDir string) {
	if staticDir == "" {
		return
	}
	if info, err := os.Stat(staticDir); err != nil || !info.IsDir() {
		slog.Warn("static dir not available", "dir", staticDir, "error", err)
		return
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
}

// Package web serves the embedded desktop shell.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed static
var staticFS embed.FS

// Static returns the shell's files rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// RegisterRoutes serves index.html at / and the assets under /static/.
func RegisterRoutes(r chi.Router) {
	files := Static()
	r.Get("/", serveIndex(files))
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(files))))
}

func serveIndex(files fs.FS) http.HandlerFunc {
	index, err := fs.ReadFile(files, "index.html")
	if err != nil {
		panic(err)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(index)
	}
}

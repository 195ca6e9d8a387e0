package notes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trueloving/deskfolio/internal/content"
	"github.com/trueloving/deskfolio/internal/i18n"
)

// RegisterRoutes mounts the Notes app endpoints.
func RegisterRoutes(r chi.Router, lib *content.Library, renderer *Renderer) {
	r.Get("/api/notes", handleSection(lib, renderer, string(SectionMenu)))
	r.Get("/api/notes/{section}", handleSection(lib, renderer, ""))
}

func handleSection(lib *content.Library, renderer *Renderer, fixed string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := fixed
		if name == "" {
			name = chi.URLParam(r, "section")
		}
		section, err := ParseSection(name)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "section not found"})
			return
		}
		locale := i18n.Infer(r, lib.DefaultLocale())
		note, err := renderer.Render(lib.Get(locale), locale, section)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrUnknownSection) {
				status = http.StatusNotFound
			}
			writeJSON(w, status, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, note)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

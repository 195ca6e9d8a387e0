package content

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/trueloving/deskfolio/internal/i18n"
)

// RegisterRoutes mounts the read-only portfolio endpoints.
func RegisterRoutes(r chi.Router, lib *Library) {
	r.Get("/api/profile", handleProfile(lib))
	r.Get("/api/projects", handleListProjects(lib))
	r.Get("/api/projects/{id}", handleGetProject(lib))
	r.Get("/api/backgrounds", handleBackgrounds(lib))
}

func handleProfile(lib *Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := lib.Get(i18n.Infer(r, lib.DefaultLocale()))
		writeJSON(w, http.StatusOK, struct {
			*Portfolio
			Age int `json:"age"`
		}{p, p.Age(time.Now().Year())})
	}
}

func handleListProjects(lib *Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := lib.Get(i18n.Infer(r, lib.DefaultLocale()))
		writeJSON(w, http.StatusOK, p.Projects)
	}
}

func handleGetProject(lib *Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proj, err := lib.Project(i18n.Infer(r, lib.DefaultLocale()), chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "project not found"})
			return
		}
		writeJSON(w, http.StatusOK, proj)
	}
}

func handleBackgrounds(lib *Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := lib.BackgroundConfig()
		writeJSON(w, http.StatusOK, map[string]any{
			"backgrounds":         lib.Backgrounds(),
			"initial":             lib.RandomBackground(),
			"defaultPreloadImage": cfg.DefaultPreloadImage,
			"defaultPreloadVideo": cfg.DefaultPreloadVideo,
			"defaultOgImage":      cfg.DefaultOGImage,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

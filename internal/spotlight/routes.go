package spotlight

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/trueloving/deskfolio/internal/i18n"
)

// RegisterRoutes mounts the launcher endpoint.
func RegisterRoutes(r chi.Router, index *Index) {
	r.Get("/api/spotlight", handleQuery(index))
}

func handleQuery(index *Index) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var expand []string
		if v := q.Get("expand"); v != "" {
			expand = strings.Split(v, ",")
		}
		locale := i18n.Infer(r, index.defaultLocale)
		writeJSON(w, http.StatusOK, index.Query(locale, q.Get("q"), expand))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package i18n

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the translation endpoints on the given router.
func RegisterRoutes(r chi.Router, fallback string) {
	r.Get("/api/i18n", handleTable(fallback))
	r.Post("/api/i18n/locale", handleSetLocale)
}

func handleTable(fallback string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loc := Infer(r, fallback)
		writeJSON(w, http.StatusOK, map[string]any{
			"locale":       loc,
			"locales":      Locales,
			"translations": Table(loc),
		})
	}
}

func handleSetLocale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Locale string `json:"locale"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if !IsLocale(req.Locale) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported locale"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    req.Locale,
		Path:     "/",
		Expires:  time.Now().AddDate(1, 0, 0),
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"locale": req.Locale})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

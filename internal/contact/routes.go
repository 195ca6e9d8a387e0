package contact

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 64 << 10

// RegisterRoutes mounts the contact form endpoints.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/api/contact", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Post("/api/contact", handleSubmit(svc))
}

func handleSubmit(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		sub, err := Validate(body, svc.minSeconds)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				writeMessage(w, ve.Status, ve.Message)
				return
			}
			writeMessage(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		if !svc.Configured() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"code":    "UNCONFIGURED",
				"message": "Contact database is not configured. Use the email link instead.",
			})
			return
		}

		if _, err := svc.Submit(r.Context(), sub, ClientIP(r), UserAgent(r)); err != nil {
			svc.log.WithError(err).Error("contact insert failed")
			writeMessage(w, http.StatusBadGateway, "Failed to save message. Please try again later.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/trueloving/deskfolio/internal/contact"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

var bearerPrefix = regexp.MustCompile(`(?i)^Bearer\s+`)

// RegisterRoutes mounts login, logout and the inbox. A nil store answers
// the inbox routes with 503.
func RegisterRoutes(r chi.Router, auth *Auth, store contact.Store, log logrus.FieldLogger) {
	r.Post("/api/admin/login", handleLogin(auth, log))
	r.Post("/api/admin/logout", handleLogout(auth, log))
	r.Group(func(r chi.Router) {
		r.Use(requireToken(auth, log))
		r.Get("/api/admin/messages", handleListMessages(store, log))
		r.Delete("/api/admin/messages/{id}", handleDeleteMessage(store, log))
	})
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(r *http.Request) string {
	return bearerPrefix.ReplaceAllString(r.Header.Get("Authorization"), "")
}

func requireToken(auth *Auth, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := auth.Verify(r.Context(), BearerToken(r)); err != nil {
				if !errors.Is(err, ErrUnauthorized) {
					log.WithError(err).Error("verifying admin session")
				}
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleLogin(auth *Auth, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !auth.Configured() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Admin credentials not configured"})
			return
		}
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
			return
		}

		token, err := auth.Login(r.Context(), req.Username, req.Password)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
		case errors.Is(err, ErrInvalidCredentials):
			log.WithField("username", req.Username).Warn("admin login rejected")
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		default:
			log.WithError(err).Error("admin login")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Login failed"})
		}
	}
}

func handleLogout(auth *Auth, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := BearerToken(r); token != "" {
			if err := auth.Logout(r.Context(), token); err != nil {
				log.WithError(err).Error("admin logout")
			}
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func handleListMessages(store contact.Store, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "Database not configured"})
			return
		}
		limit, offset := Pagination(r)
		page, err := store.List(r.Context(), limit, offset)
		if err != nil {
			log.WithError(err).Error("listing contact messages")
			writeJSON(w, http.StatusBadGateway, map[string]string{"message": "Failed to fetch messages"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"data":   page.Messages,
			"count":  page.Total,
			"limit":  limit,
			"offset": offset,
		})
	}
}

func handleDeleteMessage(store contact.Store, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "Database not configured"})
			return
		}
		err := store.Delete(r.Context(), chi.URLParam(r, "id"))
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		case errors.Is(err, contact.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Message not found"})
		default:
			log.WithError(err).Error("deleting contact message")
			writeJSON(w, http.StatusBadGateway, map[string]string{"message": "Failed to delete message"})
		}
	}
}

// Pagination reads limit (default 50, 1..200) and offset (default 0, >= 0).
func Pagination(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	limit = ClampLimit(atoiDefault(q.Get("limit"), defaultLimit))
	offset = max(atoiDefault(q.Get("offset"), 0), 0)
	return limit, offset
}

// ClampLimit bounds a page size to 1..200.
func ClampLimit(n int) int {
	return min(max(n, 1), maxLimit)
}

func atoiDefault(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

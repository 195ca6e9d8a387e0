package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func setupTestRouter(t *testing.T) chi.Router {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r)
	return r
}

func TestServeIndex(t *testing.T) {
	r := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type: got %q", ct)
	}
	body := w.Body.String()
	for _, want := range []string{"/static/app.js", "/static/app.css", `id="dock"`} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestServeStatic(t *testing.T) {
	r := setupTestRouter(t)

	for _, path := range []string{"/static/app.js", "/static/app.css"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK || w.Body.Len() == 0 {
			t.Errorf("%s: got %d (%d bytes)", path, w.Code, w.Body.Len())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/static/missing.js", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing asset: got %d", w.Code)
	}
}

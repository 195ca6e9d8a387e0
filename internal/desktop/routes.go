package desktop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionCookie carries the visitor's layout id.
const SessionCookie = "desk_session"

// defaultViewport is used when a request does not say how large the screen is.
var defaultViewport = Viewport{Width: 1440, Height: 900}

type sessionKey struct{}

// RegisterRoutes mounts the window manager under /api/desktop.
func RegisterRoutes(r chi.Router, m *Manager, log logrus.FieldLogger) {
	r.Route("/api/desktop", func(r chi.Router) {
		r.Use(sessionMiddleware)
		r.Get("/", handleGetLayout(m, log))
		r.Post("/windows/{app}/open", handleWindowAction(m, log, "open"))
		r.Post("/windows/{app}/close", handleWindowAction(m, log, "close"))
		r.Post("/windows/{app}/focus", handleWindowAction(m, log, "focus"))
		r.Post("/windows/{app}/drag", handleDrag(m, log))
		r.Post("/windows/{app}/resize", handleResize(m, log))
		r.Post("/close-all", handleCloseAll(m, log))
		r.Get("/mission-control", handleMissionControl(m, log))
		r.Get("/dock/scale", handleDockScale)
	})
}

// sessionMiddleware assigns a session cookie on first visit.
func sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   30 * 24 * 60 * 60,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

// SessionID returns the session assigned by the desktop middleware.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

type viewportRequest struct {
	Viewport *Viewport `json:"viewport,omitempty"`
}

type dragRequest struct {
	Pointer  Point     `json:"pointer"`
	Offset   Point     `json:"offset"`
	Viewport *Viewport `json:"viewport,omitempty"`
}

type resizeRequest struct {
	Direction string    `json:"direction"`
	Pointer   Point     `json:"pointer"`
	Viewport  *Viewport `json:"viewport,omitempty"`
}

func handleGetLayout(m *Manager, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := m.Get(r.Context(), SessionID(r.Context()))
		if err != nil {
			log.WithError(err).Error("loading desktop layout")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load layout"})
			return
		}
		writeJSON(w, http.StatusOK, l)
	}
}

func handleWindowAction(m *Manager, log logrus.FieldLogger, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app, err := ParseApp(chi.URLParam(r, "app"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		var req viewportRequest
		if !decodeOptional(w, r, &req) {
			return
		}
		vp := viewportOrDefault(req.Viewport)

		l, err := m.Update(r.Context(), SessionID(r.Context()), func(l *Layout, s *Stack) error {
			switch action {
			case "open":
				return l.Open(app, vp, s)
			case "close":
				return l.Close(app)
			default:
				return l.Focus(app, s)
			}
		})
		respondLayout(w, log, l, err)
	}
}

func handleDrag(m *Manager, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app, err := ParseApp(chi.URLParam(r, "app"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		var req dragRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		vp := viewportOrDefault(req.Viewport)

		l, err := m.Update(r.Context(), SessionID(r.Context()), func(l *Layout, _ *Stack) error {
			return l.Drag(app, req.Pointer, req.Offset, vp)
		})
		respondLayout(w, log, l, err)
	}
}

func handleResize(m *Manager, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app, err := ParseApp(chi.URLParam(r, "app"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		var req resizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		dir, err := ParseDirection(req.Direction)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		vp := viewportOrDefault(req.Viewport)

		l, err := m.Update(r.Context(), SessionID(r.Context()), func(l *Layout, _ *Stack) error {
			return l.Resize(app, dir, req.Pointer, vp)
		})
		respondLayout(w, log, l, err)
	}
}

func handleCloseAll(m *Manager, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := m.Update(r.Context(), SessionID(r.Context()), func(l *Layout, _ *Stack) error {
			l.CloseAll()
			return nil
		})
		respondLayout(w, log, l, err)
	}
}

func handleMissionControl(m *Manager, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := m.Get(r.Context(), SessionID(r.Context()))
		if err != nil {
			log.WithError(err).Error("loading desktop layout")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load layout"})
			return
		}
		windows := l.MissionControl()
		if windows == nil {
			windows = []Window{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"windows": windows})
	}
}

func handleDockScale(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	index, err1 := strconv.Atoi(q.Get("index"))
	total, err2 := strconv.Atoi(q.Get("total"))
	left, err3 := parseFinite(q.Get("left"))
	width, err4 := parseFinite(q.Get("width"))
	if err := errors.Join(err1, err2, err3, err4); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index, total, left and width are required numbers"})
		return
	}
	var mouse *float64
	if v := q.Get("mouse"); v != "" {
		x, err := parseFinite(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "mouse must be a number"})
			return
		}
		mouse = &x
	}
	writeJSON(w, http.StatusOK, map[string]float64{"scale": DockScale(index, total, left, width, mouse)})
}

// parseFinite parses a float, rejecting NaN and the infinities.
func parseFinite(s string) (float64, error) {
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if !finite(x) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return x, nil
}

// decodeOptional decodes a JSON body if one was sent.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	return false
}

func viewportOrDefault(vp *Viewport) Viewport {
	if vp == nil || vp.Width <= 0 || vp.Height <= 0 {
		return defaultViewport
	}
	return *vp
}

func respondLayout(w http.ResponseWriter, log logrus.FieldLogger, l *Layout, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, l)
	case errors.Is(err, ErrUnknownApp):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrNotOpen):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		log.WithError(err).Error("updating desktop layout")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update layout"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/trueloving/deskfolio/internal/i18n"
	"github.com/trueloving/deskfolio/internal/llm"
)

const (
	maxBodyBytes = 256 << 10
	// MaxHistory bounds the conversation a terminal connection keeps.
	MaxHistory = 20
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RegisterRoutes mounts the chat proxy and terminal endpoints.
func RegisterRoutes(r chi.Router, svc *Service, log logrus.FieldLogger) {
	r.Post("/api/chat", handleChat(svc, log))
	r.Get("/api/terminal/welcome", handleWelcome(svc))
	r.Get("/ws/terminal", handleTerminal(svc, log))
}

type chatRequest struct {
	Messages json.RawMessage `json:"messages"`
}

// decodeMessages reads the conversation out of a chat body. A body that is
// not JSON is ErrInvalidJSON; a messages value that is not an array of
// {role, content} strings is ErrInvalidMessages.
func decodeMessages(body []byte) ([]llm.Message, error) {
	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidJSON, err)
	}
	if len(req.Messages) == 0 || string(req.Messages) == "null" {
		return nil, nil
	}
	var messages []llm.Message
	if err := json.Unmarshal(req.Messages, &messages); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessages, err)
	}
	return messages, nil
}

func handleChat(svc *Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !svc.Configured() {
			log.Error("chat request without a configured provider")
			writeError(w, ErrNotConfigured, false)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeError(w, fmt.Errorf("%w: %v", errInvalidJSON, err), false)
			return
		}
		messages, err := decodeMessages(body)
		if err != nil {
			writeError(w, err, false)
			return
		}

		locale := i18n.Infer(r, svc.library.DefaultLocale())
		reply, err := svc.Reply(r.Context(), locale, messages)
		if err != nil {
			if !errors.Is(err, ErrInvalidMessages) {
				log.WithError(err).Error("chat completion failed")
			}
			writeError(w, err, svc.opts.Dev)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": reply})
	}
}

func handleWelcome(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := svc.Portfolio(i18n.Infer(r, svc.library.DefaultLocale()))
		writeJSON(w, http.StatusOK, map[string]any{
			"welcome":      WelcomeMessage(p),
			"placeholders": Placeholders,
			"configured":   svc.Configured(),
		})
	}
}

// terminalMessage is the websocket frame in both directions. Clients only
// set Content.
type terminalMessage struct {
	Type    string `json:"type,omitempty"`
	Content string `json:"content"`
}

func handleTerminal(svc *Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locale := i18n.Infer(r, svc.library.DefaultLocale())
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Warn("terminal websocket upgrade failed")
			return
		}
		defer conn.Close()

		fallback := FallbackMessage(svc.Portfolio(locale))
		var history []llm.Message

		for {
			var in terminalMessage
			if err := conn.ReadJSON(&in); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.WithError(err).Warn("terminal websocket read failed")
				}
				return
			}
			if in.Content == "" {
				send(conn, log, terminalMessage{Type: "error", Content: "content is required"})
				continue
			}

			history = append(history, llm.Message{Role: llm.RoleUser, Content: in.Content})
			reply, err := svc.Reply(r.Context(), locale, history)
			if err != nil {
				log.WithError(err).Warn("terminal completion failed")
				// Drop the unanswered question so a retry starts clean.
				history = history[:len(history)-1]
				send(conn, log, terminalMessage{Type: "error", Content: fallback})
				continue
			}

			history = append(history, llm.Message{Role: llm.RoleAssistant, Content: reply})
			if len(history) > MaxHistory {
				history = history[len(history)-MaxHistory:]
			}
			send(conn, log, terminalMessage{Type: "response", Content: reply})
		}
	}
}

func send(conn *websocket.Conn, log logrus.FieldLogger, msg terminalMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		log.WithError(err).Warn("terminal websocket write failed")
	}
}

func writeError(w http.ResponseWriter, err error, dev bool) {
	status, body := classify(err, dev, time.Now())
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

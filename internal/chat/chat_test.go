package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/trueloving/deskfolio/internal/content"
	"github.com/trueloving/deskfolio/internal/llm"
	"github.com/trueloving/deskfolio/internal/llm/llmtest"
	"github.com/trueloving/deskfolio/internal/logging"
)

func setupTestLibrary(t *testing.T) *content.Library {
	t.Helper()
	lib, err := content.NewLibrary(content.Defaults(), "en", []string{"en", "zh-CN"})
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	return lib
}

func setupTestService(t *testing.T, provider llm.Provider, opts Options) *Service {
	t.Helper()
	svc := NewService(provider, setupTestLibrary(t), opts, logging.Discard())
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) }
	return svc
}

func setupTestRouter(t *testing.T, svc *Service) chi.Router {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, svc, logging.Discard())
	return r
}

func postChat(t *testing.T, r http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding %q: %v", w.Body.String(), err)
	}
	return w, out
}

type staticRetriever struct {
	snippets []string
	queries  []string
}

func (s *staticRetriever) Retrieve(_ context.Context, q string, k int) ([]string, error) {
	s.queries = append(s.queries, q)
	if k < len(s.snippets) {
		return s.snippets[:k], nil
	}
	return s.snippets, nil
}

func TestSystemPrompt(t *testing.T) {
	lib := setupTestLibrary(t)
	p := lib.Get("en")
	now := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	prompt := SystemPrompt(p, now, []string{"Built Pixuli."})
	for _, want := range []string{
		"You ARE " + p.Profile.Name,
		"CURRENT DATE: March 14, 2025",
		fmt.Sprintf("I'm %d years old", 2025-p.Profile.YearOfBirth),
		"My email is " + p.Contact.Email,
		"My professional experience:",
		"Relevant details from my portfolio:\n---\nBuilt Pixuli.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if len(p.Projects) > 0 && !strings.Contains(prompt, "- "+p.Projects[0].Title+": ") {
		t.Errorf("prompt missing project %q", p.Projects[0].Title)
	}
	if strings.Contains(SystemPrompt(p, now, nil), "Relevant details") {
		t.Error("snippet section should be omitted without snippets")
	}
}

func TestReplyPrependsPersona(t *testing.T) {
	mock := llmtest.NewMockProvider("mock")
	retr := &staticRetriever{snippets: []string{"a", "b", "c"}}
	svc := setupTestService(t, mock, Options{Snippets: 2})
	svc.SetRetriever(retr)

	got, err := svc.Reply(context.Background(), "en", []llm.Message{
		{Role: llm.RoleUser, Content: "hi"},
		{Role: llm.RoleAssistant, Content: "hello"},
		{Role: llm.RoleUser, Content: "what do you build?"},
	})
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got != "mock response" {
		t.Errorf("reply: got %q", got)
	}

	req := mock.LastRequest()
	if len(req.Messages) != 4 || req.Messages[0].Role != llm.RoleSystem {
		t.Fatalf("messages: got %+v", req.Messages)
	}
	if !strings.Contains(req.Messages[0].Content, "---\nb\n") || strings.Contains(req.Messages[0].Content, "---\nc\n") {
		t.Errorf("expected two snippets in prompt")
	}
	if req.Model != DefaultModel || req.Temperature != DefaultTemperature || req.MaxTokens != llm.DefaultMaxTokens {
		t.Errorf("request params: %+v", req)
	}
	if len(retr.queries) != 1 || retr.queries[0] != "what do you build?" {
		t.Errorf("retrieval queries: %v", retr.queries)
	}
}

func TestReplyTemperature(t *testing.T) {
	zero := 0.0
	tests := []struct {
		name string
		opt  *float64
		want float64
	}{
		{"unset", nil, DefaultTemperature},
		{"zero", &zero, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llmtest.NewMockProvider("mock")
			svc := setupTestService(t, mock, Options{Temperature: tt.opt})
			if _, err := svc.Reply(context.Background(), "en", []llm.Message{{Role: llm.RoleUser, Content: "hi"}}); err != nil {
				t.Fatalf("Reply: %v", err)
			}
			if got := mock.LastRequest().Temperature; got != tt.want {
				t.Errorf("temperature = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReplyKeepsCallerSystemPrompt(t *testing.T) {
	mock := llmtest.NewMockProvider("mock")
	retr := &staticRetriever{snippets: []string{"x"}}
	svc := setupTestService(t, mock, Options{})
	svc.SetRetriever(retr)

	_, err := svc.Reply(context.Background(), "en", []llm.Message{
		{Role: llm.RoleSystem, Content: "be brief"},
		{Role: llm.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	req := mock.LastRequest()
	if len(req.Messages) != 2 || req.Messages[0].Content != "be brief" {
		t.Errorf("messages: got %+v", req.Messages)
	}
	if len(retr.queries) != 0 {
		t.Error("retrieval should be skipped when the caller brings a system prompt")
	}
}

func TestReplyErrors(t *testing.T) {
	unconfigured := setupTestService(t, nil, Options{})
	if _, err := unconfigured.Reply(context.Background(), "en", []llm.Message{{Role: llm.RoleUser, Content: "hi"}}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}

	mock := llmtest.NewMockProvider("mock")
	svc := setupTestService(t, mock, Options{})
	if _, err := svc.Reply(context.Background(), "en", nil); !errors.Is(err, ErrInvalidMessages) {
		t.Errorf("empty: got %v", err)
	}
	if _, err := svc.Reply(context.Background(), "en", []llm.Message{{Role: "tool", Content: "x"}}); !errors.Is(err, ErrInvalidMessages) {
		t.Errorf("bad role: got %v", err)
	}

	mock.Response = &llm.CompletionResponse{Content: "  "}
	if _, err := svc.Reply(context.Background(), "en", []llm.Message{{Role: llm.RoleUser, Content: "hi"}}); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("empty content: got %v", err)
	}
}

func TestClassify(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name   string
		err    error
		dev    bool
		status int
		code   Code
		msg    string
	}{
		{"config", ErrNotConfigured, false, 503, CodeConfig, "Chat service is not configured. Please contact the site administrator."},
		{"bad body", fmt.Errorf("%w: unexpected EOF", errInvalidJSON), false, 400, CodeInvalidJSON, "Invalid request format"},
		{"bad messages", fmt.Errorf("%w: not an array", ErrInvalidMessages), true, 400, CodeInvalidMessages, "Messages array is required and must not be empty"},
		{"empty", ErrEmptyResponse, false, 500, CodeInvalidResponse, "Received invalid response from AI service"},
		{"api prod", &llm.APIError{Provider: "groq", StatusCode: 429, Message: "slow down"}, false, 429, CodeAIService, "The AI service is temporarily unavailable"},
		{"api dev", &llm.APIError{Provider: "groq", Message: "bad key"}, true, 500, CodeAIService, "AI service error: bad key"},
		{"deadline", fmt.Errorf("completing chat: %w", context.DeadlineExceeded), false, 504, CodeTimeout, "Request timed out. Please try again."},
		{"timeout text", errors.New("net/http: request canceled (Client.Timeout exceeded)"), false, 504, CodeTimeout, "Request timed out. Please try again."},
		{"other prod", errors.New("boom"), false, 500, CodeInternal, "An unexpected error occurred. Please try again later."},
		{"other dev", errors.New("boom"), true, 500, CodeInternal, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := classify(tt.err, tt.dev, now)
			if status != tt.status || body.Code != tt.code || body.Message != tt.msg {
				t.Errorf("got %d %+v", status, body)
			}
			if body.Timestamp != "2025-01-02T03:04:05.000Z" {
				t.Errorf("timestamp: got %q", body.Timestamp)
			}
		})
	}
}

func TestHTTPChat(t *testing.T) {
	mock := llmtest.NewMockProvider("mock")
	r := setupTestRouter(t, setupTestService(t, mock, Options{}))

	w, out := postChat(t, r, `{"messages":[{"role":"user","content":"hello"}]}`)
	if w.Code != http.StatusOK || out["message"] != "mock response" {
		t.Errorf("got %d %v", w.Code, out)
	}

	w, out = postChat(t, r, `{not json`)
	if w.Code != http.StatusBadRequest || out["code"] != string(CodeInvalidJSON) {
		t.Errorf("bad json: got %d %v", w.Code, out)
	}

	for _, body := range []string{
		`{"messages":[]}`,
		`{}`,
		`{"messages":null}`,
		`{"messages":"hello"}`,
		`{"messages":{"role":"user"}}`,
		`{"messages":[{"role":"user","content":5}]}`,
		`{"messages":[{"role":"tool","content":"x"}]}`,
	} {
		w, out = postChat(t, r, body)
		if w.Code != http.StatusBadRequest || out["code"] != string(CodeInvalidMessages) {
			t.Errorf("%s: got %d %v", body, w.Code, out)
		}
	}

	w, out = postChat(t, r, `["not","an","object"]`)
	if w.Code != http.StatusBadRequest || out["code"] != string(CodeInvalidJSON) {
		t.Errorf("array body: got %d %v", w.Code, out)
	}

	mock.Err = &llm.APIError{Provider: "mock", StatusCode: 401, Message: "invalid api key"}
	w, out = postChat(t, r, `{"messages":[{"role":"user","content":"hello"}]}`)
	if w.Code != http.StatusUnauthorized || out["code"] != string(CodeAIService) {
		t.Errorf("api error: got %d %v", w.Code, out)
	}
	if _, ok := out["timestamp"].(string); !ok {
		t.Errorf("missing timestamp: %v", out)
	}
}

func TestHTTPChatUnconfigured(t *testing.T) {
	r := setupTestRouter(t, setupTestService(t, nil, Options{}))

	w, out := postChat(t, r, `{"messages":[{"role":"user","content":"hello"}]}`)
	if w.Code != http.StatusServiceUnavailable || out["code"] != string(CodeConfig) {
		t.Errorf("got %d %v", w.Code, out)
	}
}

func TestHTTPWelcome(t *testing.T) {
	svc := setupTestService(t, nil, Options{})
	r := setupTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/terminal/welcome", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out struct {
		Welcome      string   `json:"welcome"`
		Placeholders []string `json:"placeholders"`
		Configured   bool     `json:"configured"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	p := svc.Portfolio("en")
	if !strings.HasPrefix(out.Welcome, "Welcome to My Portfolio") || !strings.Contains(out.Welcome, "Contact: "+p.Contact.Email) {
		t.Errorf("welcome: got %q", out.Welcome)
	}
	if len(out.Placeholders) != len(Placeholders) || out.Configured {
		t.Errorf("got %+v", out)
	}
}

func dialTerminal(t *testing.T, svc *Service) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(setupTestRouter(t, svc))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/terminal"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func exchange(t *testing.T, conn *websocket.Conn, content string) terminalMessage {
	t.Helper()
	if err := conn.WriteJSON(terminalMessage{Content: content}); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var out terminalMessage
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("read: %v", err)
	}
	return out
}

func TestTerminalKeepsHistory(t *testing.T) {
	mock := llmtest.NewMockProvider("mock")
	conn := dialTerminal(t, setupTestService(t, mock, Options{}))

	if got := exchange(t, conn, "first"); got.Type != "response" || got.Content != "mock response" {
		t.Fatalf("first: got %+v", got)
	}
	if got := exchange(t, conn, "second"); got.Type != "response" {
		t.Fatalf("second: got %+v", got)
	}

	// system + first + reply + second
	msgs := mock.LastRequest().Messages
	if len(msgs) != 4 || msgs[1].Content != "first" || msgs[2].Role != llm.RoleAssistant || msgs[3].Content != "second" {
		t.Errorf("history: got %+v", msgs)
	}
}

func TestTerminalFallback(t *testing.T) {
	mock := &failFirstProvider{MockProvider: llmtest.NewMockProvider("mock")}
	svc := setupTestService(t, mock, Options{})
	conn := dialTerminal(t, svc)

	got := exchange(t, conn, "hello?")
	want := "I'm having trouble processing that. Please email me at " + svc.Portfolio("en").Contact.Email
	if got.Type != "error" || got.Content != want {
		t.Errorf("got %+v", got)
	}

	exchange(t, conn, "again")
	// The failed question is not replayed.
	if msgs := mock.LastRequest().Messages; len(msgs) != 2 || msgs[1].Content != "again" {
		t.Errorf("history after failure: got %+v", msgs)
	}

	if got := exchange(t, conn, ""); got.Type != "error" || got.Content != "content is required" {
		t.Errorf("empty content: got %+v", got)
	}
}

func TestTimeoutApplied(t *testing.T) {
	slow := &blockingProvider{}
	svc := setupTestService(t, slow, Options{Timeout: 20 * time.Millisecond})
	r := setupTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"messages":[{"role":"user","content":"hi"}]}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("got %d %s", w.Code, w.Body.String())
	}
}

type blockingProvider struct{}

func (blockingProvider) Name() string { return "blocking" }

func (blockingProvider) Complete(ctx context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// failFirstProvider fails its first completion and delegates afterwards.
type failFirstProvider struct {
	*llmtest.MockProvider
	mu     sync.Mutex
	failed bool
}

func (f *failFirstProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.mu.Lock()
	first := !f.failed
	f.failed = true
	f.mu.Unlock()
	if first {
		return nil, errors.New("upstream down")
	}
	return f.MockProvider.Complete(ctx, req)
}

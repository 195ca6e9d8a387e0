// Package chat proxies visitor questions to a language model that answers
// as the portfolio owner, over plain HTTP and the terminal websocket.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/trueloving/deskfolio/internal/content"
	"github.com/trueloving/deskfolio/internal/llm"
)

// Retriever finds portfolio snippets relevant to a question.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]string, error)
}

// Options tune completions. Zero values take the defaults below.
type Options struct {
	Model string
	// Temperature is sent as given, zero included. nil means DefaultTemperature.
	Temperature *float64
	MaxTokens   int
	Timeout     time.Duration
	// Snippets is how many knowledge results are added to the prompt.
	Snippets int
	// Dev exposes vendor error detail to clients.
	Dev bool
}

const (
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.7
	DefaultTimeout     = 30 * time.Second
	DefaultSnippets    = 4
)

// Service answers conversations. A nil provider leaves it unconfigured.
type Service struct {
	provider  llm.Provider
	retriever Retriever
	library   *content.Library
	opts      Options
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewService(provider llm.Provider, library *content.Library, opts Options, log logrus.FieldLogger) *Service {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Temperature == nil {
		t := DefaultTemperature
		opts.Temperature = &t
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = llm.DefaultMaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Snippets <= 0 {
		opts.Snippets = DefaultSnippets
	}
	return &Service{provider: provider, library: library, opts: opts, log: log, now: time.Now}
}

// SetRetriever enables knowledge retrieval. nil disables it.
func (s *Service) SetRetriever(r Retriever) { s.retriever = r }

// Configured reports whether a provider is set.
func (s *Service) Configured() bool { return s != nil && s.provider != nil }

// Portfolio returns the content for locale.
func (s *Service) Portfolio(locale string) *content.Portfolio {
	return s.library.Get(locale)
}

// Reply completes the conversation. When it carries no system message the
// persona prompt for locale is prepended.
func (s *Service) Reply(ctx context.Context, locale string, messages []llm.Message) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}
	if err := validateMessages(messages); err != nil {
		return "", err
	}

	msgs := messages
	if !hasSystem(messages) {
		snippets := s.retrieve(ctx, lastUserContent(messages))
		prompt := SystemPrompt(s.library.Get(locale), s.now(), snippets)
		msgs = make([]llm.Message, 0, len(messages)+1)
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: prompt})
		msgs = append(msgs, messages...)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := s.now()
	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model:       s.opts.Model,
		Messages:    msgs,
		MaxTokens:   s.opts.MaxTokens,
		Temperature: *s.opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("completing chat: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", ErrEmptyResponse
	}

	s.log.WithFields(logrus.Fields{
		"provider":      s.provider.Name(),
		"model":         resp.Model,
		"input_tokens":  resp.InputTokens,
		"output_tokens": resp.OutputTokens,
		"duration_ms":   s.now().Sub(start).Milliseconds(),
	}).Debug("chat completion")
	return resp.Content, nil
}

func (s *Service) retrieve(ctx context.Context, query string) []string {
	if s.retriever == nil || query == "" {
		return nil
	}
	snippets, err := s.retriever.Retrieve(ctx, query, s.opts.Snippets)
	if err != nil {
		s.log.WithError(err).Warn("knowledge retrieval failed")
		return nil
	}
	return snippets
}

func validateMessages(messages []llm.Message) error {
	if len(messages) == 0 {
		return ErrInvalidMessages
	}
	for _, m := range messages {
		if !m.Role.Valid() {
			return fmt.Errorf("%w: unknown role %q", ErrInvalidMessages, m.Role)
		}
	}
	return nil
}

func hasSystem(messages []llm.Message) bool {
	for _, m := range messages {
		if m.Role == llm.RoleSystem {
			return true
		}
	}
	return false
}

func lastUserContent(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

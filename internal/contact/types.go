// Package contact accepts messages from the contact form, stores them in
// SQLite or Supabase, and tells the owner about them.
package contact

import (
	"context"
	"errors"
	"time"
)

// Message is one stored contact form submission. JSON names match the
// contact_messages table columns.
type Message struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Message    string    `json:"message"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"user_agent"`
	TimeOnPage *float64  `json:"time_on_page"`
	CreatedAt  time.Time `json:"created_at"`
}

// Page is one slice of the inbox plus the total number of messages.
type Page struct {
	Messages []Message
	Total    int
}

// ErrNotFound is returned when a message id does not exist.
var ErrNotFound = errors.New("message not found")

// Store persists contact messages.
type Store interface {
	Insert(ctx context.Context, m *Message) error
	// List returns messages newest first.
	List(ctx context.Context, limit, offset int) (*Page, error)
	Delete(ctx context.Context, id string) error
}

// Notifier tells the owner a message arrived.
type Notifier interface {
	Notify(ctx context.Context, m Message) error
}

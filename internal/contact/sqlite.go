package contact

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trueloving/deskfolio/internal/db"
)

// SQLiteStore keeps messages in the local contact_messages table.
type SQLiteStore struct {
	db *db.DB
}

func NewSQLiteStore(d *db.DB) *SQLiteStore {
	return &SQLiteStore{db: d}
}

// Insert stores m, filling in its id and creation time when unset.
func (s *SQLiteStore) Insert(ctx context.Context, m *Message) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	var top sql.NullFloat64
	if m.TimeOnPage != nil {
		top = sql.NullFloat64{Float64: *m.TimeOnPage, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_messages (id, name, email, message, ip, user_agent, time_on_page, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Message, m.IP, m.UserAgent, top, db.FormatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting contact message: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, limit, offset int) (*Page, error) {
	page := &Page{Messages: []Message{}}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages`).Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("counting contact messages: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, message, ip, user_agent, time_on_page, created_at
		 FROM contact_messages ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("listing contact messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m Message
		var top sql.NullFloat64
		var created string
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.IP, &m.UserAgent, &top, &created); err != nil {
			return nil, fmt.Errorf("scanning contact message: %w", err)
		}
		if top.Valid {
			v := top.Float64
			m.TimeOnPage = &v
		}
		if t, err := db.ParseTime(created); err == nil {
			m.CreatedAt = t
		}
		page.Messages = append(page.Messages, m)
	}
	return page, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting contact message: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

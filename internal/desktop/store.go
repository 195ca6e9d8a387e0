package desktop

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/trueloving/deskfolio/internal/db"
)

// Store persists layouts keyed by session id.
type Store struct {
	db *db.DB
}

func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// Get loads a session's layout. Unknown sessions get a fresh layout.
func (s *Store) Get(ctx context.Context, sessionID string) (*Layout, error) {
	var raw, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT layout, updated_at FROM desktop_layouts WHERE session_id = ?`, sessionID,
	).Scan(&raw, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return NewLayout(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading layout %s: %w", sessionID, err)
	}

	l := NewLayout(sessionID)
	var stored Layout
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("decoding layout %s: %w", sessionID, err)
	}
	// Merge by app so layouts saved before an app existed still load.
	for _, w := range stored.Windows {
		if dst, err := l.Window(w.App); err == nil {
			*dst = w
		}
	}
	l.Focused = stored.Focused
	if t, err := db.ParseTime(updated); err == nil {
		l.UpdatedAt = t
	}
	return l, nil
}

// Save upserts a layout.
func (s *Store) Save(ctx context.Context, l *Layout) error {
	l.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encoding layout: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO desktop_layouts (session_id, layout, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET layout = excluded.layout, updated_at = excluded.updated_at`,
		l.SessionID, string(data), db.FormatTime(l.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving layout %s: %w", l.SessionID, err)
	}
	return nil
}

// Prune deletes layouts untouched since before.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM desktop_layouts WHERE updated_at < ?`, db.FormatTime(before))
	if err != nil {
		return 0, fmt.Errorf("pruning layouts: %w", err)
	}
	return res.RowsAffected()
}

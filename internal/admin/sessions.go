// Package admin guards the contact inbox behind a single configured
// account and opaque bearer tokens.
package admin

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/trueloving/deskfolio/internal/db"
)

var (
	ErrUnconfigured       = errors.New("admin credentials not configured")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// Auth checks credentials and issues session tokens. Only the SHA-256 of a
// token is stored, so a leaked database does not leak live sessions.
type Auth struct {
	db       *db.DB
	username string
	password string
	ttl      time.Duration
	now      func() time.Time
}

func NewAuth(d *db.DB, username, password string, ttl time.Duration) *Auth {
	return &Auth{db: d, username: username, password: password, ttl: ttl, now: time.Now}
}

// Configured reports whether both username and password are set.
func (a *Auth) Configured() bool {
	return a.username != "" && a.password != ""
}

// Login returns a new token for matching credentials.
func (a *Auth) Login(ctx context.Context, username, password string) (string, error) {
	if !a.Configured() {
		return "", ErrUnconfigured
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password))
	if userOK&passOK != 1 {
		return "", ErrInvalidCredentials
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	token := hex.EncodeToString(buf)

	now := a.now().UTC()
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO admin_sessions (token_hash, username, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		hashToken(token), a.username, db.FormatTime(now), db.FormatTime(now.Add(a.ttl)),
	)
	if err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	return token, nil
}

// Verify returns the username owning a live token.
func (a *Auth) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}
	var username, expires string
	err := a.db.QueryRowContext(ctx,
		`SELECT username, expires_at FROM admin_sessions WHERE token_hash = ?`, hashToken(token),
	).Scan(&username, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("loading session: %w", err)
	}
	exp, err := db.ParseTime(expires)
	if err != nil || !a.now().Before(exp) {
		return "", ErrUnauthorized
	}
	return username, nil
}

// Logout revokes a token. Unknown tokens are ignored.
func (a *Auth) Logout(ctx context.Context, token string) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE token_hash = ?`, hashToken(token)); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// PruneExpired removes sessions past their expiry.
func (a *Auth) PruneExpired(ctx context.Context) (int64, error) {
	res, err := a.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE expires_at <= ?`, db.FormatTime(a.now()))
	if err != nil {
		return 0, fmt.Errorf("pruning sessions: %w", err)
	}
	return res.RowsAffected()
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SupabaseStore talks to a Supabase table through its PostgREST endpoint
// using the service-role key.
type SupabaseStore struct {
	baseURL string
	key     string
	table   string
	client  *http.Client
}

// NewSupabaseStore returns a store for table at the project URL. A nil
// client gets a 10 second timeout.
func NewSupabaseStore(projectURL, key, table string, client *http.Client) *SupabaseStore {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SupabaseStore{
		baseURL: strings.TrimRight(projectURL, "/"),
		key:     key,
		table:   table,
		client:  client,
	}
}

type supabaseRow struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Message    string   `json:"message"`
	IP         string   `json:"ip"`
	UserAgent  string   `json:"user_agent"`
	TimeOnPage *float64 `json:"time_on_page"`
	CreatedAt  string   `json:"created_at,omitempty"`
}

func (s *SupabaseStore) Insert(ctx context.Context, m *Message) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	payload, err := json.Marshal(supabaseRow{
		ID: m.ID, Name: m.Name, Email: m.Email, Message: m.Message,
		IP: m.IP, UserAgent: m.UserAgent, TimeOnPage: m.TimeOnPage,
	})
	if err != nil {
		return fmt.Errorf("encoding contact message: %w", err)
	}

	req, err := s.newRequest(ctx, http.MethodPost, nil, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("supabase insert: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return supabaseError("insert", resp)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (s *SupabaseStore) List(ctx context.Context, limit, offset int) (*Page, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")
	req, err := s.newRequest(ctx, http.MethodGet, q, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "count=exact")
	req.Header.Set("Range-Unit", "items")
	req.Header.Set("Range", fmt.Sprintf("%d-%d", offset, offset+limit-1))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase select: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, supabaseError("select", resp)
	}

	var rows []supabaseRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding supabase rows: %w", err)
	}
	page := &Page{Messages: make([]Message, 0, len(rows)), Total: parseContentRange(resp.Header.Get("Content-Range"), len(rows))}
	for _, r := range rows {
		m := Message{
			ID: r.ID, Name: r.Name, Email: r.Email, Message: r.Message,
			IP: r.IP, UserAgent: r.UserAgent, TimeOnPage: r.TimeOnPage,
		}
		if t, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
			m.CreatedAt = t.UTC()
		}
		page.Messages = append(page.Messages, m)
	}
	return page, nil
}

func (s *SupabaseStore) Delete(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	req, err := s.newRequest(ctx, http.MethodDelete, q, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=representation")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("supabase delete: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return supabaseError("delete", resp)
	}
	var deleted []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&deleted); err != nil {
		return fmt.Errorf("decoding supabase delete: %w", err)
	}
	if len(deleted) == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SupabaseStore) newRequest(ctx context.Context, method string, q url.Values, body io.Reader) (*http.Request, error) {
	u := s.baseURL + "/rest/v1/" + s.table
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating supabase request: %w", err)
	}
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// parseContentRange reads the total from "0-49/123" or "*/0".
func parseContentRange(h string, fallback int) int {
	i := strings.LastIndex(h, "/")
	if i < 0 {
		return fallback
	}
	n, err := strconv.Atoi(h[i+1:])
	if err != nil {
		return fallback
	}
	return n
}

func supabaseError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	var e struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil && e.Message != "" {
		return fmt.Errorf("supabase %s: status %d: %s", op, resp.StatusCode, e.Message)
	}
	return fmt.Errorf("supabase %s: status %d", op, resp.StatusCode)
}

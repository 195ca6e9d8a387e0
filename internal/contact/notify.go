package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// SMTPNotifier e-mails the owner through a relay.
type SMTPNotifier struct {
	Host string
	Port int
	User string
	Pass string
	From string
	To   string

	// send defaults to smtp.SendMail; tests replace it.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (n *SMTPNotifier) Notify(ctx context.Context, m Message) error {
	from := n.From
	if from == "" {
		from = n.User
	}
	var auth smtp.Auth
	if n.User != "" {
		auth = smtp.PlainAuth("", n.User, n.Pass, n.Host)
	}
	send := n.send
	if send == nil {
		send = smtp.SendMail
	}
	addr := net.JoinHostPort(n.Host, strconv.Itoa(n.Port))
	if err := send(addr, auth, from, []string{n.To}, buildMail(from, n.To, m)); err != nil {
		return fmt.Errorf("sending notification mail: %w", err)
	}
	return nil
}

func buildMail(from, to string, m Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Reply-To: %s\r\n", headerSafe(m.Email))
	fmt.Fprintf(&b, "Subject: New portfolio message from %s\r\n", headerSafe(m.Name))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	fmt.Fprintf(&b, "Name: %s\r\nEmail: %s\r\nIP: %s\r\n", m.Name, m.Email, m.IP)
	if m.TimeOnPage != nil {
		fmt.Fprintf(&b, "Time on page: %.1fs\r\n", *m.TimeOnPage)
	}
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(m.Message, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

// headerSafe strips line breaks so visitor input cannot add headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// WebhookNotifier POSTs the message as JSON.
type WebhookNotifier struct {
	URL    string
	client *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{URL: url, client: &http.Client{Timeout: 10 * time.Second}}
}

func (n *WebhookNotifier) Notify(ctx context.Context, m Message) error {
	payload, err := json.Marshal(map[string]any{
		"text":    fmt.Sprintf("New portfolio message from %s <%s>", m.Name, m.Email),
		"message": m,
	})
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Notifiers fans a message out to every notifier and joins their errors.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, m Message) error {
	var errs []error
	for _, n := range ns {
		if err := n.Notify(ctx, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

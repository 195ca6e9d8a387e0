package contact

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// emailPattern is intentionally loose: something, an @, something, a dot, something.
var emailPattern = regexp.MustCompile(`.+@.+\..+`)

// ValidationError is a rejected submission and the status to answer with.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func reject(status int, msg string) *ValidationError {
	return &ValidationError{Status: status, Message: msg}
}

// Submission is a validated contact form body.
type Submission struct {
	Name       string
	Email      string
	Message    string
	TimeOnPage *float64
}

// Validate checks a raw request body. The checks run in a fixed order and
// the first failure wins: JSON, required fields, field types, e-mail shape,
// the company honeypot, then time on page against minSeconds.
func Validate(body []byte, minSeconds float64) (*Submission, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, reject(http.StatusBadRequest, "Invalid JSON")
	}
	fields, _ := raw.(map[string]any)

	name, email, message := fields["name"], fields["email"], fields["message"]
	if !truthy(name) || !truthy(email) || !truthy(message) {
		return nil, reject(http.StatusBadRequest, "Missing required fields")
	}
	ns, ok1 := name.(string)
	es, ok2 := email.(string)
	ms, ok3 := message.(string)
	if !ok1 || !ok2 || !ok3 {
		return nil, reject(http.StatusBadRequest, "Invalid field types")
	}
	if !emailPattern.MatchString(es) {
		return nil, reject(http.StatusBadRequest, "Invalid email")
	}
	if company := fields["company"]; truthy(company) && strings.TrimSpace(stringify(company)) != "" {
		return nil, reject(http.StatusBadRequest, "Spam detected")
	}

	sub := &Submission{Name: ns, Email: es, Message: ms}
	if t, ok := fields["t"].(float64); ok {
		if t < minSeconds {
			return nil, reject(http.StatusTooManyRequests, "Too fast. Please take a moment before sending.")
		}
		sub.TimeOnPage = &t
	}
	return sub, nil
}

// truthy mirrors what a browser client considers "filled in": absent, null,
// false, zero and the empty string are all empty.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

// stringify renders a decoded JSON value the way a browser's String() would,
// so an empty array reads as "" and nested nulls vanish.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			if e != nil {
				parts[i] = stringify(e)
			}
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

// ClientIP picks the visitor address from proxy headers.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if cf := r.Header.Get("CF-Connecting-IP"); cf != "" {
		return cf
	}
	return "unknown"
}

// UserAgent returns the request's user agent or "unknown".
func UserAgent(r *http.Request) string {
	if ua := r.UserAgent(); ua != "" {
		return ua
	}
	return "unknown"
}

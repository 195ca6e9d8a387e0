package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// vendorReply is a decoded response body that may carry the vendor's own
// error message.
type vendorReply interface {
	vendorError() string
}

// postJSON sends in to url and decodes the reply into out. A non-200
// status, or a vendor error inside the body, becomes an *APIError.
func postJSON(ctx context.Context, client *http.Client, provider, url string, header http.Header, in any, out vendorReply) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling %s request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", provider, err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", provider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", provider, err)
	}

	decodeErr := json.Unmarshal(raw, out)
	if decodeErr == nil {
		if msg := out.vendorError(); msg != "" {
			return &APIError{Provider: provider, StatusCode: resp.StatusCode, Message: msg}
		}
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{Provider: provider, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}
	if decodeErr != nil {
		return fmt.Errorf("decoding %s response: %w", provider, decodeErr)
	}
	return nil
}

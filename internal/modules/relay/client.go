package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to the external WhatsApp agent backend. An empty base URL
// means the backend is not configured; callers fall back to mock responses
// where the API contract allows it.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log.With().Str("component", "relay").Logger(),
	}
}

func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// PostJSON forwards a JSON body and returns the upstream status and raw
// response bytes. A transport failure returns a non-nil error; upstream
// error statuses do not.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, raw, nil
}

// SendMessage pushes a single WhatsApp text message through the backend.
func (c *Client) SendMessage(ctx context.Context, phone, message string) error {
	if !c.Configured() {
		return fmt.Errorf("backend not configured")
	}
	status, raw, err := c.PostJSON(ctx, "/api/send-whatsapp-message", map[string]string{
		"phone":   phone,
		"message": message,
	})
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		c.log.Warn().Int("status", status).Str("phone", phone).Msg("upstream rejected message")
		return fmt.Errorf("upstream returned %d: %s", status, truncate(raw, 200))
	}
	return nil
}

// PostMultipart re-encodes a file as a fresh multipart body upstream.
func (c *Client) PostMultipart(ctx context.Context, path, fieldName, fileName, folder string, file io.Reader) (int, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(fieldName, fileName)
	if err != nil {
		return 0, nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return 0, nil, err
	}
	if folder != "" {
		if err := w.WriteField("folder", folder); err != nil {
			return 0, nil, err
		}
	}
	if err := w.Close(); err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, raw, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

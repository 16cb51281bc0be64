// Package pastebin downloads crash logs shared through paste services.
package pastebin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// maxLogSize caps the downloaded body. Crash logs are a few hundred
// kilobytes at most.
const maxLogSize = 4 * 1024 * 1024

// Client fetches pasted crash logs over HTTP.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a pastebin client. A zero timeout uses DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

// Fetch downloads a pasted crash log and returns its content together
// with the paste identifier. Regular pastebin.com URLs are rewritten to
// their raw form, since only the raw endpoint serves plain text.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("parsing url: %w", err)
	}
	if parsed.Host == "pastebin.com" && !strings.Contains(parsed.Path, "/raw") {
		rawURL = strings.Replace(rawURL, "pastebin.com", "pastebin.com/raw", 1)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching paste: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("paste service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLogSize))
	if err != nil {
		return nil, "", fmt.Errorf("reading paste body: %w", err)
	}

	return body, path.Base(parsed.Path), nil
}

// Save writes a fetched paste into dir as crash-<id>.log, creating the
// directory if needed, and returns the file path.
func Save(dir, id string, content []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating pastebin folder: %w", err)
	}
	outPath := filepath.Join(dir, fmt.Sprintf("crash-%s.log", id))
	if err := os.WriteFile(outPath, content, 0o644); err != nil {
		return "", fmt.Errorf("saving paste: %w", err)
	}
	return outPath, nil
}

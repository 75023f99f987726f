package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

// maxErrorBody bounds how much of an error response ends up in messages.
const maxErrorBody = 512

// Client sends provider requests through the shared limiter and maps
// transport failures onto the domain extraction errors.
type Client struct {
	HTTP    *http.Client
	Limiter *RateLimiter
	// Provider prefixes error messages ("gemini", "openai").
	Provider string
}

// NewClient builds a client with the configured timeout.
func NewClient(provider string, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTP:     &http.Client{Timeout: timeout},
		Limiter:  cfg.Limiter,
		Provider: provider,
	}
}

// PostJSON marshals body, sends it and returns the 200 response body.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: marshal request: %w", domain.ErrExtraction, c.Provider, err)
	}

	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtraction, c.Provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: create request: %w", domain.ErrExtraction, c.Provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.do(req)
}

// Get sends a GET and returns the 200 response body.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: create request: %w", domain.ErrExtraction, c.Provider, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: send request: %w", domain.ErrExtraction, c.Provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read response: %w", domain.ErrExtraction, c.Provider, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.Limiter.RecordRateLimit(RetryAfter(resp.Header))
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrRateLimited, c.Provider, truncate(body))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %s: API returned status %d: %s",
			domain.ErrExtraction, c.Provider, resp.StatusCode, truncate(body))
	}
	return body, nil
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}

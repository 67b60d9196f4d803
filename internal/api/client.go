// internal/api/client.go
// Thin JSON gateway over the meeteat backend.
// Any non-2xx response becomes an *Error carrying status and body text;
// retry policy belongs to callers, not this layer.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/meeteat/meeteat-client/internal/metrics"
)

// Error is returned for any non-2xx backend response.
type Error struct {
	Status int
	Body   string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d - %s", e.Status, e.Body)
}

// Client wraps a base URL and an http.Client with a uniform JSON contract.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// PostJSON sends body as JSON to path and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	return c.do(req, out)
}

// GetJSON issues a GET with the given query parameters and decodes into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("X-Request-ID", uuid.NewString())

	return c.do(req, out)
}

// GetText fetches a non-JSON resource (screen fragments) as a string.
func (c *Client) GetText(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveAPIRequest(path, "error", time.Since(start).Seconds())
		return "", err
	}
	defer res.Body.Close()
	metrics.ObserveAPIRequest(path, strconv.Itoa(res.StatusCode), time.Since(start).Seconds())

	if res.StatusCode < 200 || res.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", &Error{Status: res.StatusCode, Body: string(bytes.TrimSpace(text))}
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveAPIRequest(req.URL.Path, "error", time.Since(start).Seconds())
		return err
	}
	defer res.Body.Close()
	metrics.ObserveAPIRequest(req.URL.Path, strconv.Itoa(res.StatusCode), time.Since(start).Seconds())

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// Best effort: the error body is diagnostic only.
		text, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &Error{Status: res.StatusCode, Body: string(bytes.TrimSpace(text))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

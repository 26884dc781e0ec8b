// Package kef speaks the HTTP API of KEF's wireless speakers (LSX II,
// LS50 Wireless II, LS60). Every datum lives at a path like player:volume
// and travels in a small typed JSON envelope.
package kef

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// Retry configuration for transient errors
	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond

	defaultTimeout = 10 * time.Second
)

// Client is a low-level KEF HTTP API client bound to one speaker host.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewClient creates a client for a speaker host. The host may be a bare IP,
// host:port, or a full http URL.
func NewClient(host string) *Client {
	base := strings.TrimRight(host, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logrus.StandardLogger().WithField("speaker", host),
	}
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(log logrus.FieldLogger) {
	c.log = log
}

// SetTimeout adjusts the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// Host returns the base URL the client talks to.
func (c *Client) Host() string {
	return c.baseURL
}

// GetData reads the typed values at a path.
func (c *Client) GetData(ctx context.Context, path string) ([]Value, error) {
	body, err := c.request(ctx, BuildURL(c.baseURL+"/api/getData", map[string]string{
		"path":  path,
		"roles": "value",
	}))
	if err != nil {
		return nil, err
	}

	var values []Value
	if err := json.Unmarshal(body, &values); err != nil {
		return nil, fmt.Errorf("parse %s response: %w", path, err)
	}
	return values, nil
}

// GetRaw reads the first value at a path as raw JSON. Rich objects such as
// the player data blob do not fit the Value envelope.
func (c *Client) GetRaw(ctx context.Context, path string) (json.RawMessage, error) {
	body, err := c.request(ctx, BuildURL(c.baseURL+"/api/getData", map[string]string{
		"path":  path,
		"roles": "value",
	}))
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("parse %s response: %w", path, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("empty response for %s", path)
	}
	return items[0], nil
}

// SetData writes a typed value to a path.
func (c *Client) SetData(ctx context.Context, path string, value Value) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for %s: %w", path, err)
	}

	_, err = c.request(ctx, BuildURL(c.baseURL+"/api/setData", map[string]string{
		"path":  path,
		"roles": "value",
		"value": string(encoded),
	}))
	return err
}

// SetControl sends a playback control action ("pause", "next", "previous")
// to a path. Control actions use a bare {"control": ...} payload instead of
// the typed envelope.
func (c *Client) SetControl(ctx context.Context, path, action string) error {
	encoded, err := json.Marshal(map[string]string{"control": action})
	if err != nil {
		return fmt.Errorf("encode control %q: %w", action, err)
	}

	_, err = c.request(ctx, BuildURL(c.baseURL+"/api/setData", map[string]string{
		"path":  path,
		"roles": "activate",
		"value": string(encoded),
	}))
	return err
}

// request performs a GET with retries on transport errors and 5xx
// responses, backing off exponentially between attempts.
func (c *Client) request(ctx context.Context, fullURL string) ([]byte, error) {
	c.log.Debugf("GET %s", fullURL)

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Wait before retry (skip on first attempt)
		if attempt > 0 {
			wait := baseRetryWait * time.Duration(1<<(attempt-1))
			c.log.Debugf("retry %d/%d after %v (last error: %v)", attempt, maxRetries, wait, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("speaker request: %w", err)
			continue // Retry on network error
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		// Retry on 5xx server errors
		if resp.StatusCode >= 500 {
			lastErr = newAPIError(resp.StatusCode, body)
			c.log.Debugf("server error, will retry: %v", lastErr)
			continue
		}

		// Don't retry 4xx errors
		if resp.StatusCode >= 400 {
			return nil, newAPIError(resp.StatusCode, body)
		}

		return body, nil
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

// APIError is an error response from the speaker's firmware.
type APIError struct {
	Status  int
	Message string
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	} else if len(body) > 0 {
		apiErr.Message = strings.TrimSpace(string(body))
	} else {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func (e *APIError) Error() string {
	return fmt.Sprintf("KEF API error %d: %s", e.Status, e.Message)
}

// BuildURL builds a URL with query parameters.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}

	u, _ := url.Parse(path)
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// ABOUTME: Authenticated HTTP client for the training service.
// ABOUTME: One retry on transport errors, typed errors otherwise.
package garmin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://connectapi.garmin.com"

// requestTimeout bounds every single request.
const requestTimeout = 30 * time.Second

// Client performs bearer-token authenticated requests against the service.
// One client instance is shared per process; concurrent calls against one
// credential store are not supported because the token may rotate.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *TokenStore
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the service base URL (tests point it at a fake).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient builds a client over a loaded token store.
func NewClient(store *TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		store:      store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues one authenticated request, decoding the JSON response into out
// when out is non-nil. Transport errors are retried exactly once.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	operation := func() error {
		err := c.doOnce(ctx, method, path, body, out)
		var te *TransportError
		if errors.As(err, &te) {
			return err // retryable
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 1), ctx)
	return backoff.Retry(operation, policy)
}

func (c *Client) doOnce(ctx context.Context, method, path string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	token, err := c.store.AccessToken(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debugf("%s %s", method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Status: resp.StatusCode, Message: trimBody(respBytes)}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Resource: path}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{Message: trimBody(respBytes)}
	case resp.StatusCode >= 400:
		return &TransportError{Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, trimBody(respBytes))}
	}

	if out == nil || len(respBytes) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("unmarshal response for %s: %w", path, err)
	}
	return nil
}

func trimBody(b []byte) string {
	const max = 200
	s := string(b)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// Package coordapi is the HTTP client for the remote blood-donation
// coordination API. The API is an opaque collaborator: every call is
// JSON-over-HTTP, mutations are POST, reads are GET, and protected routes
// take a bearer token.
//
// Auth failure is handled uniformly. Any protected call answered with HTTP
// 401 or 403 returns ErrUnauthorized and the in-flight result is discarded;
// callers must treat that as "session is dead, tear it down and redirect"
// rather than a normal error.
package coordapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Sentinel errors
var (
	// ErrUnauthorized means the API rejected the bearer token (401/403).
	ErrUnauthorized = errors.New("coordination api rejected the session token")

	// ErrUnavailable wraps transport and decode failures. It never clears
	// the session; only explicit auth rejection does.
	ErrUnavailable = errors.New("coordination api unreachable")
)

// APIError is an application-level rejection: the API answered, but with a
// non-"ok" status. Its message is surfaced to the user verbatim.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Observer receives a latency sample for every completed call.
type Observer interface {
	Observe(endpoint string, d time.Duration, err error)
}

// Client talks to the coordination API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   Observer
}

// DefaultTimeout bounds every remote call. The original UI had none and a
// hung request left it loading forever.
const DefaultTimeout = 15 * time.Second

// New creates a Client for the API at baseURL.
// PRE: baseURL is non-empty, without a trailing slash
// POST: Returns a client with the default timeout applied
func New(baseURL string, observer Observer) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		observer:   observer,
	}
}

// envelope is the uniform mutation response shape. Older endpoints report
// errors in "detail", newer ones in "message"; both are honored.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// errText returns the server-supplied error text, preferring message.
func (e envelope) errText() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Detail != "" {
		return e.Detail
	}
	return "operation failed"
}

// get issues an authenticated GET and decodes the body into out.
// PRE: token is the session bearer token; out is a pointer
// POST: out is populated on success; ErrUnauthorized on 401/403
func (c *Client) get(ctx context.Context, token, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, token, nil, out)
}

// postEnvelope issues an authenticated POST and enforces the status envelope.
// PRE: body is JSON-marshalable
// POST: Returns nil on status "ok"; *APIError otherwise; ErrUnauthorized on 401/403
func (c *Client) postEnvelope(ctx context.Context, token, path string, body any) (envelope, error) {
	var env envelope
	if err := c.do(ctx, http.MethodPost, path, token, body, &env); err != nil {
		return envelope{}, err
	}
	if env.Status != "ok" {
		return env, &APIError{Message: env.errText()}
	}
	return env, nil
}

// do performs one HTTP round trip against the API.
// PRE: path begins with "/"
// POST: 401/403 map to ErrUnauthorized; transport and decode failures wrap
// ErrUnavailable; otherwise out holds the decoded body
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, path, token, body, out)
	if c.observer != nil {
		c.observer.Observe(path, time.Since(start), err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request for %s: %w", path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		slog.Warn("api_auth_rejected", "path", path, "status", resp.StatusCode)
		return ErrUnauthorized
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d on %s", ErrUnavailable, resp.StatusCode, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, path, err)
	}
	return nil
}

// Package gateway is the HTTP transport layer for the university
// management API. It attaches the session's bearer token to every
// outgoing request and converts authentication failures into a session
// invalidation event instead of navigating anywhere itself.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campus-core/portal-client/internal/events"
)

// TokenSource supplies the current bearer token. An empty string means no
// session is established and the Authorization header is omitted.
type TokenSource interface {
	Token() string
}

// SnapshotClearer erases the persisted session snapshot. Implemented by
// the session store; the gateway calls it when the backend rejects the
// token so a reload cannot resurrect dead credentials.
type SnapshotClearer interface {
	Clear() error
}

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL of the API including the /api prefix.
	BaseURL string
	// HTTPClient used for all requests. If nil, a client with a 15s
	// timeout is used.
	HTTPClient *http.Client
	// Tokens supplies the bearer token. If nil, all requests go out
	// unauthenticated.
	Tokens TokenSource
	// Snapshots is cleared when an authenticated call returns 401.
	Snapshots SnapshotClearer
	// Events receives the session.invalidated event on 401.
	Events events.Publisher
	// Logger for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client is the typed HTTP client shared by all API bindings.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	snapshots  SnapshotClearer
	events     events.Publisher
	logger     *slog.Logger
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("gateway: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("gateway: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		tokens:     cfg.Tokens,
		snapshots:  cfg.Snapshots,
		events:     cfg.Events,
		logger:     logger,
	}, nil
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT request with a JSON body and decodes the response.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE request and decodes the response.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

// do performs an HTTP request against the backend. On 2xx the body is
// decoded into out (when non-nil). On any other status a *APIError is
// returned. A 401 on a request that carried a token additionally clears
// the snapshot and publishes session.invalidated, exactly once per
// failing response, before the error is returned unchanged.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return fmt.Errorf("gateway: failed to create request: %w", err)
	}

	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("X-Request-ID", uuid.NewString())

	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("gateway: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("gateway: failed to read response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(responseBody, out); err != nil {
			return fmt.Errorf("gateway: failed to decode %s %s response: %w", method, path, err)
		}
		return nil
	}

	apiErr := &APIError{StatusCode: response.StatusCode}
	if err := json.Unmarshal(responseBody, apiErr); err != nil {
		// Non-JSON error body; keep the raw text as the detail.
		apiErr.Detail = strings.TrimSpace(string(responseBody))
	}

	// A rejected token means the whole session is dead, not just this
	// call. Pre-login 401s (wrong password) carry no token and are left
	// to the caller.
	if response.StatusCode == http.StatusUnauthorized && token != "" {
		c.invalidateSession(method, path)
	}

	return apiErr
}

// maxResponseBytes caps response reads; report payloads are the largest
// bodies the backend returns and stay well under this.
const maxResponseBytes = 16 << 20

func (c *Client) invalidateSession(method, path string) {
	c.logger.Warn("authenticated call rejected, invalidating session",
		"method", method, "path", path)

	if c.snapshots != nil {
		if err := c.snapshots.Clear(); err != nil {
			c.logger.Error("failed to clear session snapshot", "error", err)
		}
	}
	if c.events != nil {
		if err := c.events.Publish(events.Event{
			Type:   events.SessionInvalidated,
			Reason: "token rejected by server",
		}); err != nil {
			c.logger.Error("failed to publish session.invalidated", "error", err)
		}
	}
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://gitlab.com"

// Client provides access to the GitLab REST API for one authenticated
// session.
type Client struct {
	baseURL   string
	token     string
	httpCli   *http.Client
	logger    *zap.Logger
	onAuthErr func()

	mu sync.Mutex
	rl RateLimitState
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpCli = h }
}

// WithLogger sets the client's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithAuthFailureHandler registers a callback invoked when a 401 response is
// received. Callers use it to invalidate the local session so the next
// operation forces re-authentication.
func WithAuthFailureHandler(fn func()) Option {
	return func(c *Client) { c.onAuthErr = fn }
}

// NewClient creates a client for the given GitLab instance. An empty baseURL
// targets gitlab.com.
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("gitlab token is required")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpCli: &http.Client{Timeout: 60 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type callOptions struct {
	propagateAuth bool
	accept        string
}

// CallOption adjusts how a single API call is handled.
type CallOption func(*callOptions)

// PropagateAuthError makes a 401 on this call surface directly to the caller
// without triggering the session-invalidation handler. Used when the caller
// wants to handle an auth failure locally, e.g. while verifying a token.
func PropagateAuthError() CallOption {
	return func(o *callOptions) { o.propagateAuth = true }
}

// WithAccept sets the Accept header for this call. Endpoints that return
// non-JSON bodies, such as raw diffs, advertise the expected type with it.
func WithAccept(contentType string) CallOption {
	return func(o *callOptions) { o.accept = contentType }
}

// do executes an API call, updates rate-limit state from the response
// headers, and decodes a JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, opts ...CallOption) error {
	raw, err := c.doRaw(ctx, method, path, query, body, opts...)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// doRaw executes an API call and returns the raw response body.
func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, body any, opts ...CallOption) ([]byte, error) {
	var co callOptions
	for _, opt := range opts {
		opt(&co)
	}

	u := c.baseURL + "/api/v4" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if co.accept != "" {
		req.Header.Set("Accept", co.accept)
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	// Quota headers are tracked on every response, including errors.
	c.updateRateLimit(resp.Header)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, nil
	}
	return nil, c.statusError(resp, respBody, co)
}

func (c *Client) statusError(resp *http.Response, body []byte, co callOptions) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if !co.propagateAuth && c.onAuthErr != nil {
			c.logger.Warn("authentication failure, invalidating session")
			c.onAuthErr()
		}
		return &AuthError{Message: apiMessage(body)}
	case http.StatusTooManyRequests:
		rle := &RateLimitError{}
		if v := quotaHeader(resp.Header, "Reset"); v != "" {
			if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
				rle.Reset = time.Unix(epoch, 0)
			}
		}
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := strconv.Atoi(v); err == nil {
				rle.RetryAfter = secs
			}
		}
		return rle
	case http.StatusNotFound:
		return &NotFoundError{Resource: apiMessage(body)}
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &ValidationError{Status: resp.StatusCode, Message: apiMessage(body)}
	}
	return fmt.Errorf("gitlab API error (status %d): %s", resp.StatusCode, apiMessage(body))
}

// apiMessage extracts the message field from a GitLab error body, falling
// back to the raw body.
func apiMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if len(payload.Message) > 0 {
			return strings.Trim(string(payload.Message), `"`)
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "no response body"
	}
	return msg
}

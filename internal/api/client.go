// Package api is the typed client for the storefront REST contract. It owns
// the bearer token, enforces the request timeout, turns failures into
// pkg/errors codes and notifies a hook on unauthorized responses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/logger"
	"github.com/angelmondragon/artmarket-storefront/pkg/metrics"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
	"github.com/google/uuid"
)

const (
	DefaultTimeout      = 10 * time.Second
	errorBodyReadLimit  = 64 << 10
	requestIDHeader     = "X-Request-ID"
	authorizationHeader = "Authorization"
	contentTypeHeader   = "Content-Type"
	jsonContentType     = "application/json"
)

var errBaseURLRequired = errors.New("api base url is required")

// UnauthorizedHandler runs after a request that carried a token gets a 401.
type UnauthorizedHandler func(ctx context.Context)

// Client talks to the storefront REST API.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	baseURL    string
	logg       *logger.Logger
	metrics    *metrics.ClientMetrics

	mu             sync.RWMutex
	token          string
	onUnauthorized UnauthorizedHandler
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. The client is copied;
// the caller's value is never modified.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			cp := *client
			c.httpClient = &cp
		}
	}
}

// WithTimeout sets the absolute per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		if logg != nil {
			c.logg = logg
		}
	}
}

func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds a client for the API rooted at baseURL (for example
// http://localhost:8080/api/v1).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api base url must be absolute, got %q", baseURL)
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logg:       logger.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	switch {
	case client.timeout > 0:
		client.httpClient.Timeout = client.timeout
	case client.httpClient.Timeout <= 0:
		client.httpClient.Timeout = DefaultTimeout
	}
	return client, nil
}

// SetToken installs the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

// ClearToken drops the bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Authenticated reports whether a bearer token is installed.
func (c *Client) Authenticated() bool {
	return c.Token() != ""
}

// SetUnauthorizedHandler registers the global 401 hook.
func (c *Client) SetUnauthorizedHandler(fn UnauthorizedHandler) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// request describes one call. endpoint is the low-cardinality route label
// used for metrics and logs, e.g. "PUT /cart/items/{id}".
type request struct {
	method   string
	endpoint string
	path     string
	query    url.Values
	body     any
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "api client not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.buildURL(req.path, req.query), body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if req.body != nil {
		httpReq.Header.Set(contentTypeHeader, jsonContentType)
	}
	httpReq.Header.Set("Accept", jsonContentType)
	httpReq.Header.Set(requestIDHeader, uuid.NewString())

	token := c.Token()
	if token != "" {
		httpReq.Header.Set(authorizationHeader, "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.ObserveRequest(req.endpoint, 0, time.Since(start))
		return networkError(err, req.endpoint)
	}
	defer func() { _ = resp.Body.Close() }()
	c.metrics.ObserveRequest(req.endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := c.responseError(resp)
		if resp.StatusCode == http.StatusUnauthorized && token != "" {
			c.notifyUnauthorized(ctx)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return decodeData(resp.Body, out, req.endpoint)
}

func (c *Client) notifyUnauthorized(ctx context.Context) {
	c.mu.RLock()
	hook := c.onUnauthorized
	c.mu.RUnlock()
	if hook != nil {
		hook(ctx)
	}
}

func networkError(err error, endpoint string) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "request timed out").WithDetails(map[string]any{"endpoint": endpoint})
	case errors.Is(err, context.Canceled):
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "request canceled").WithDetails(map[string]any{"endpoint": endpoint})
	}
	return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "server unreachable").WithDetails(map[string]any{"endpoint": endpoint})
}

// responseError maps a non-2xx response onto a typed error, keeping the
// server's message verbatim when one is present.
func (c *Client) responseError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	var envelope types.ErrorEnvelope
	message := ""
	var details any
	if len(bytes.TrimSpace(raw)) > 0 && json.Unmarshal(raw, &envelope) == nil {
		message = strings.TrimSpace(envelope.ServerMessage())
		if envelope.Error != nil {
			details = envelope.Error.Details
		}
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}

	code := pkgerrors.CodeServer
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		code = pkgerrors.CodeSessionExpired
	case http.StatusNotFound:
		code = pkgerrors.CodeNotFound
	}

	apiErr := pkgerrors.New(code, message)
	d := map[string]any{"status": resp.StatusCode}
	if sc := envelope.ServerCode(); sc != "" {
		d["server_code"] = sc
	}
	if details != nil {
		d["details"] = details
	}
	return apiErr.WithDetails(d)
}

// decodeData reads a {"data": ...} envelope into out. Bodies without a data
// member are decoded as the payload itself.
func decodeData(body io.Reader, out any, endpoint string) error {
	raw, err := io.ReadAll(body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "read response body")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	payload := raw
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		payload = envelope.Data
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeServer, err, "unexpected response shape").WithDetails(map[string]any{"endpoint": endpoint})
	}
	return nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/studyshare/internal/logging"
	"github.com/google/uuid"
)

const (
	RequestIDHeaderName = "X-Request-ID"

	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 8 << 20
)

// HTTPClient issues authenticated REST calls against one base URL.
//
// Every request carries the bearer token from the TokenSource. When the
// server answers 401, the registered unauthorized callback runs once per
// failure episode; an episode is identified by the token that was rejected,
// so a burst of 401s for the same token logs the member out only once.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
	logger  logging.Logger

	mu             sync.Mutex
	onUnauthorized func(ctx context.Context)
	episodeOpen    bool
	episodeToken   string
}

type Option func(*HTTPClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base url scheme %q", u.Scheme)
	}

	c := &HTTPClient{
		baseURL: u,
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  TokenFunc(func(context.Context) (string, error) { return "", nil }),
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// OnUnauthorized registers the logout callback. Only one callback is kept;
// registering again replaces it.
func (c *HTTPClient) OnUnauthorized(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *HTTPClient) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = u.Path + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Request performs one call and returns the read body of a 2xx answer.
// Anything else comes back as *APIError; transport failures wrap
// ErrUnavailable. Nothing is retried.
func (c *HTTPClient) Request(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	query, header := ResolveOptions(opts...)

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path, query), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeaderName, requestID)

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("read access token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Warn(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	c.logger.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: errorMessage(data), RequestID: requestID}
		// A 401 without a token is a failed login, not an expired session.
		if resp.StatusCode == http.StatusUnauthorized && token != "" {
			c.unauthorized(ctx, token)
		}
		return nil, apiErr
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (c *HTTPClient) unauthorized(ctx context.Context, token string) {
	c.mu.Lock()
	if c.episodeOpen && c.episodeToken == token {
		c.mu.Unlock()
		return
	}
	c.episodeOpen = true
	c.episodeToken = token
	fn := c.onUnauthorized
	c.mu.Unlock()

	c.logger.Warn(ctx, "session rejected by server")
	if fn != nil {
		fn(ctx)
	}
}

// Upload PUTs raw bytes to an absolute (presigned) URL. No bearer token is
// attached: the URL itself carries the authorization.
func (c *HTTPClient) Upload(ctx context.Context, rawURL, contentType string, r io.Reader, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, rawURL, r)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	if size > 0 {
		req.ContentLength = size
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: upload: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(b))}
	}
	return nil
}

// errorMessage extracts the "message" field of an error body. Validation
// failures may carry a list of messages; they are joined.
func errorMessage(body []byte) string {
	var env struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Message) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(env.Message, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(env.Message, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return ""
}

// IsUnavailable reports whether err means the server could not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

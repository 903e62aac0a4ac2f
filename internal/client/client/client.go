package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// Requester is the transport contract the resource accessors depend on.
type Requester interface {
	Request(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error)
	Upload(ctx context.Context, rawURL, contentType string, r io.Reader, size int64) error
}

// TokenSource yields the bearer token to attach to a request. An empty token
// means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// Response is a successful (2xx) answer with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

type requestConfig struct {
	query  url.Values
	header http.Header
}

// RequestOption tweaks a single request.
type RequestOption func(*requestConfig)

// WithQuery adds a query parameter. Empty values are skipped.
func WithQuery(key, value string) RequestOption {
	return func(c *requestConfig) {
		if value == "" {
			return
		}
		c.query.Add(key, value)
	}
}

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(c *requestConfig) {
		c.header.Set(key, value)
	}
}

// ResolveOptions applies opts and returns the query parameters and headers
// they describe. Alternative Requester implementations use it.
func ResolveOptions(opts ...RequestOption) (url.Values, http.Header) {
	cfg := &requestConfig{query: url.Values{}, header: http.Header{}}
	for _, o := range opts {
		o(cfg)
	}
	return cfg.query, cfg.header
}

// Package clienttest provides an in-memory client.Requester for tests of the
// layers above the HTTP client.
package clienttest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/studyshare/internal/client/client"
)

// Call is one recorded request.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   json.RawMessage
}

// Upload is one recorded object PUT.
type Upload struct {
	URL         string
	ContentType string
	Data        []byte
}

// Handler answers a call with a response body or an error.
type Handler func(ctx context.Context, call Call) (string, error)

type Requester struct {
	mu      sync.Mutex
	routes  map[string]Handler
	calls   []Call
	uploads []Upload

	UploadErr error
}

func New() *Requester {
	return &Requester{routes: make(map[string]Handler)}
}

func route(method, path string) string {
	return method + " " + path
}

func (f *Requester) Handle(method, path string, h Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[route(method, path)] = h
}

// Reply answers method+path with a fixed 200 body.
func (f *Requester) Reply(method, path, body string) {
	f.Handle(method, path, func(context.Context, Call) (string, error) { return body, nil })
}

// Fail answers method+path with an API error.
func (f *Requester) Fail(method, path string, status int, message string) {
	f.Handle(method, path, func(context.Context, Call) (string, error) {
		return "", &client.APIError{Status: status, Message: message}
	})
}

func (f *Requester) Request(ctx context.Context, method, path string, body any, opts ...client.RequestOption) (*client.Response, error) {
	query, _ := client.ResolveOptions(opts...)
	call := Call{Method: method, Path: path, Query: query}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		call.Body = b
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	h, ok := f.routes[route(method, path)]
	f.mu.Unlock()

	if !ok {
		return nil, &client.APIError{Status: http.StatusNotFound, Message: "no route for " + route(method, path)}
	}
	out, err := h(ctx, call)
	if err != nil {
		return nil, err
	}
	return &client.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: []byte(out)}, nil
}

func (f *Requester) Upload(_ context.Context, rawURL, contentType string, r io.Reader, _ int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, Upload{URL: rawURL, ContentType: contentType, Data: data})
	return f.UploadErr
}

func (f *Requester) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Count returns how many times method+path was requested.
func (f *Requester) Count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (f *Requester) Uploads() []Upload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Upload(nil), f.uploads...)
}

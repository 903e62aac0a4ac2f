// Package api holds one accessor per REST endpoint. Each accessor issues
// exactly one call (uploads add the object PUT) and normalises the response
// envelope into plain records. Nothing is cached here.
//
// Reads unwrap the "data" field of the body and fail closed: list endpoints
// return an empty slice when the payload is missing or is not an array,
// record endpoints return a defaulted record. Transport and server errors
// propagate unchanged, except for the two suggestion accessors, which log
// and return an empty list so type-ahead never breaks a screen.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/studyshare/internal/client/client"
	"github.com/dmitrijs2005/studyshare/internal/logging"
)

// ErrMalformedResponse is returned when a 2xx answer lacks a field the
// caller cannot do without (an access token, an upload URL).
var ErrMalformedResponse = errors.New("malformed response")

type API struct {
	c      client.Requester
	logger logging.Logger
}

func New(c client.Requester, logger logging.Logger) *API {
	if logger == nil {
		logger = logging.Nop()
	}
	return &API{c: c, logger: logger}
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// dataField returns the "data" member of a response body, or nil.
func dataField(body []byte) json.RawMessage {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	return env.Data
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// decodeList never returns nil.
func decodeList[T any](raw json.RawMessage) []T {
	out := []T{}
	if firstByte(raw) != '[' {
		return out
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return out
	}
	return items
}

// decodeRecord overlays the payload on def. A missing, null, non-object or
// malformed payload yields def unchanged. Fields of the wrong type keep
// their default while the others are decoded.
func decodeRecord[T any](raw json.RawMessage, def T) T {
	if firstByte(raw) != '{' {
		return def
	}
	v := def
	if err := json.Unmarshal(raw, &v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return v
		}
		return def
	}
	return v
}

func (a *API) call(ctx context.Context, method, path string, body any, opts ...client.RequestOption) (json.RawMessage, error) {
	resp, err := a.c.Request(ctx, method, path, body, opts...)
	if err != nil {
		return nil, err
	}
	return dataField(resp.Body), nil
}

func (a *API) get(ctx context.Context, path string, opts ...client.RequestOption) (json.RawMessage, error) {
	return a.call(ctx, http.MethodGet, path, nil, opts...)
}

func seg(id string) string {
	return url.PathEscape(id)
}

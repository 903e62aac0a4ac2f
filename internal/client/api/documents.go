package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/studyshare/internal/client/client"
	"github.com/dmitrijs2005/studyshare/internal/client/models"
)

func decodePage[T any](raw json.RawMessage) models.Page[T] {
	p := decodeRecord(raw, models.Page[T]{Items: []T{}})
	if p.Items == nil {
		p.Items = []T{}
	}
	return p
}

// Documents is GET /documents?page=N&limit=M. A non-positive limit leaves the
// page size to the server.
func (a *API) Documents(ctx context.Context, page, limit int) (models.Page[models.Document], error) {
	opts := []client.RequestOption{client.WithQuery("page", strconv.Itoa(page))}
	if limit > 0 {
		opts = append(opts, client.WithQuery("limit", strconv.Itoa(limit)))
	}
	raw, err := a.get(ctx, "/documents", opts...)
	if err != nil {
		return models.Page[models.Document]{}, err
	}
	return decodePage[models.Document](raw), nil
}

func (a *API) Document(ctx context.Context, id string) (models.Document, error) {
	raw, err := a.get(ctx, "/documents/"+seg(id))
	if err != nil {
		return models.Document{}, err
	}
	return decodeRecord(raw, models.Document{ID: id}), nil
}

func (a *API) FacultyDocuments(ctx context.Context, facultyID string) ([]models.Document, error) {
	raw, err := a.get(ctx, "/documents/faculty/"+seg(facultyID))
	if err != nil {
		return nil, err
	}
	return decodeList[models.Document](raw), nil
}

func (a *API) SubjectDocuments(ctx context.Context, subjectID string) ([]models.Document, error) {
	raw, err := a.get(ctx, "/documents/subject/"+seg(subjectID))
	if err != nil {
		return nil, err
	}
	return decodeList[models.Document](raw), nil
}

func (a *API) SearchDocuments(ctx context.Context, keyword string, page int) (models.Page[models.Document], error) {
	raw, err := a.get(ctx, "/documents/search",
		client.WithQuery("keyword", keyword),
		client.WithQuery("page", strconv.Itoa(page)))
	if err != nil {
		return models.Page[models.Document]{}, err
	}
	return decodePage[models.Document](raw), nil
}

// KeywordSuggestions never fails; errors are logged and yield an empty list.
func (a *API) KeywordSuggestions(ctx context.Context, keyword string) []string {
	raw, err := a.get(ctx, "/documents/suggestions", client.WithQuery("keyword", keyword))
	if err != nil {
		a.logger.Error(ctx, "Error fetching suggestions keyword: "+err.Error())
		return []string{}
	}
	return decodeList[string](raw)
}

// UploadDocument creates the document record and then PUTs the file bytes
// to the returned URL. The record stays PENDING until an admin approves it.
func (a *API) UploadDocument(ctx context.Context, in models.NewDocument, r io.Reader) (models.Document, error) {
	raw, err := a.call(ctx, http.MethodPost, "/documents", in)
	if err != nil {
		return models.Document{}, err
	}
	ticket := decodeRecord(raw, models.UploadTicket{})
	if ticket.UploadURL == "" {
		return models.Document{}, fmt.Errorf("upload document: %w: no upload url", ErrMalformedResponse)
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := a.c.Upload(ctx, ticket.UploadURL, contentType, r, in.SizeBytes); err != nil {
		return models.Document{}, fmt.Errorf("upload document bytes: %w", err)
	}
	return ticket.Document, nil
}

func (a *API) DownloadLink(ctx context.Context, id string) (models.DownloadLink, error) {
	raw, err := a.get(ctx, "/documents/"+seg(id)+"/download")
	if err != nil {
		return models.DownloadLink{}, err
	}
	return decodeRecord(raw, models.DownloadLink{}), nil
}

func (a *API) DeleteDocument(ctx context.Context, id string) (models.Message, error) {
	return a.message(ctx, http.MethodDelete, "/documents/"+seg(id), nil)
}

package services

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/studyshare/internal/client/hooks"
	"github.com/dmitrijs2005/studyshare/internal/client/models"
	"github.com/dmitrijs2005/studyshare/internal/client/utils"
)

// DocumentFiles moves document bytes between the local disk and object
// storage. Record bookkeeping goes through the hooks so the usual
// invalidation applies.
type DocumentFiles interface {
	Upload(ctx context.Context, path string, meta models.NewDocument) (models.Document, error)
	Download(ctx context.Context, id, dir string) (string, error)
}

type documentFiles struct {
	hooks *hooks.Hooks
	http  *http.Client
}

func NewDocumentFiles(h *hooks.Hooks, hc *http.Client) DocumentFiles {
	return &documentFiles{hooks: h, http: hc}
}

// Upload fills the file name, size and content type from the file and
// defaults the title to the file name without extension.
func (s *documentFiles) Upload(ctx context.Context, path string, meta models.NewDocument) (models.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Document{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return models.Document{}, fmt.Errorf("stat file: %w", err)
	}
	if st.IsDir() {
		return models.Document{}, fmt.Errorf("%s is a directory", path)
	}

	name := filepath.Base(path)
	meta.FileName = name
	meta.SizeBytes = st.Size()
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(name))
	}
	if meta.ContentType == "" {
		meta.ContentType = "application/octet-stream"
	}
	if strings.TrimSpace(meta.Title) == "" {
		meta.Title = strings.TrimSuffix(name, filepath.Ext(name))
	}

	doc, err := s.hooks.UploadDocument().MutateAsync(ctx, hooks.Upload{Document: meta, Content: f})
	if err != nil {
		return models.Document{}, fmt.Errorf("upload error: %w", err)
	}
	return doc, nil
}

// Download saves document id into dir and returns the written path.
func (s *documentFiles) Download(ctx context.Context, id, dir string) (string, error) {
	link, err := s.hooks.DownloadLink(id).Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("download link error: %w", err)
	}
	if link.URL == "" {
		return "", fmt.Errorf("no download url for document %s", id)
	}

	doc, err := s.hooks.Document(id).Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("document error: %w", err)
	}
	name := filepath.Base(doc.FileName)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = id
	}

	dest := filepath.Join(dir, name)
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := utils.DownloadPresignedURL(ctx, s.http, link.URL, f); err != nil {
		_ = f.Close()
		_ = os.Remove(dest)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return dest, nil
}

// Package documents stores uploaded study documents.
package documents

import (
	"context"

	"github.com/dmitrijs2005/studyshare/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, d *models.Document) (*models.Document, error)
	GetByID(ctx context.Context, id string) (*models.Document, error)
	// List returns one page of matching documents, newest first, and the
	// total number of matches.
	List(ctx context.Context, f models.DocumentFilter, page models.PageRequest) ([]models.Document, int, error)
	// All returns every matching document, newest first.
	All(ctx context.Context, f models.DocumentFilter) ([]models.Document, error)
	TitleSuggestions(ctx context.Context, keyword string, limit int) ([]string, error)
	SetStatus(ctx context.Context, id string, status models.DocumentStatus) error
	IncrementDownloads(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, status models.DocumentStatus) (int, error)
}

package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/studyshare/internal/server/models"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/repomanager"
)

type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: m}
}

func (s *CatalogService) Faculties(ctx context.Context) ([]models.Faculty, error) {
	return s.repomanager.Catalog(s.db).Faculties(ctx)
}

func (s *CatalogService) FacultyInfo(ctx context.Context, id, viewerID string) (*models.FacultyInfo, error) {
	return s.repomanager.Catalog(s.db).FacultyInfo(ctx, id, viewerID)
}

// Subjects lists the subjects of facultyID, or all subjects when it is empty.
func (s *CatalogService) Subjects(ctx context.Context, facultyID, viewerID string) ([]models.Subject, error) {
	return s.repomanager.Catalog(s.db).Subjects(ctx, facultyID, viewerID)
}

func (s *CatalogService) SubjectInfo(ctx context.Context, id, viewerID string) (*models.Subject, error) {
	return s.repomanager.Catalog(s.db).SubjectInfo(ctx, id, viewerID)
}

func (s *CatalogService) SubjectSuggestions(ctx context.Context, keyword string) ([]models.Subject, error) {
	if strings.TrimSpace(keyword) == "" {
		return []models.Subject{}, nil
	}
	return s.repomanager.Catalog(s.db).SearchSubjects(ctx, keyword, suggestionLimit)
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/studyshare/internal/common"
	"github.com/dmitrijs2005/studyshare/internal/logging"
	"github.com/dmitrijs2005/studyshare/internal/server/models"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/studyshare/internal/server/storage"
)

const suggestionLimit = 8

// DocumentService manages uploads, listings and downloads. Readers only
// ever see ACTIVE documents; moderation lives in AdminService.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	presigner   Presigner
	logger      logging.Logger
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, p Presigner, logger logging.Logger) *DocumentService {
	return &DocumentService{db: db, repomanager: m, presigner: p, logger: logger}
}

// Create records a PENDING document and returns a URL the client PUTs the
// file to.
func (s *DocumentService) Create(ctx context.Context, uploader *models.Member, in models.NewDocument) (*models.UploadTicket, error) {
	if err := validateNewDocument(&in); err != nil {
		return nil, err
	}

	subject, err := s.repomanager.Catalog(s.db).SubjectInfo(ctx, in.SubjectID, "")
	if errors.Is(err, common.ErrorNotFound) {
		return nil, invalid("Unknown subject")
	}
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	if subject.FacultyID != in.FacultyID {
		return nil, invalid("Subject does not belong to the faculty")
	}

	doc := &models.Document{
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		FileName:    in.FileName,
		ContentType: in.ContentType,
		SizeBytes:   in.SizeBytes,
		Status:      models.DocumentPending,
		UploaderID:  uploader.ID,
		FacultyID:   in.FacultyID,
		SubjectID:   in.SubjectID,
		StorageKey:  storage.StorageKey(uploader.ID, in.FileName),
	}

	url, err := s.presigner.PresignPut(ctx, doc.StorageKey, doc.ContentType)
	if err != nil {
		return nil, err
	}

	doc, err = s.repomanager.Documents(s.db).Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	doc.UploaderName = uploader.FullName

	s.logger.Info(ctx, "document created", "document", doc.ID, "uploader", uploader.ID)
	return &models.UploadTicket{Document: doc, UploadURL: url}, nil
}

func (s *DocumentService) activeByID(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.repomanager.Documents(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.DocumentActive {
		return nil, common.ErrorNotFound
	}
	return doc, nil
}

func (s *DocumentService) Get(ctx context.Context, id string) (*models.Document, error) {
	return s.activeByID(ctx, id)
}

func (s *DocumentService) List(ctx context.Context, page, limit int) (models.Page[models.Document], error) {
	return s.page(ctx, models.DocumentFilter{Status: models.DocumentActive}, models.NewPageRequest(page, limit))
}

func (s *DocumentService) Search(ctx context.Context, keyword string, page, limit int) (models.Page[models.Document], error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return models.Page[models.Document]{}, invalid("Keyword is required")
	}
	f := models.DocumentFilter{Status: models.DocumentActive, Keyword: keyword}
	return s.page(ctx, f, models.NewPageRequest(page, limit))
}

func (s *DocumentService) page(ctx context.Context, f models.DocumentFilter, req models.PageRequest) (models.Page[models.Document], error) {
	items, total, err := s.repomanager.Documents(s.db).List(ctx, f, req)
	if err != nil {
		return models.Page[models.Document]{}, fmt.Errorf("list documents: %w", err)
	}
	return models.NewPage(items, req, total), nil
}

func (s *DocumentService) ByFaculty(ctx context.Context, facultyID string) ([]models.Document, error) {
	ok, err := s.repomanager.Catalog(s.db).FacultyExists(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Documents(s.db).All(ctx, models.DocumentFilter{Status: models.DocumentActive, FacultyID: facultyID})
}

func (s *DocumentService) BySubject(ctx context.Context, subjectID string) ([]models.Document, error) {
	if _, err := s.repomanager.Catalog(s.db).SubjectInfo(ctx, subjectID, ""); err != nil {
		return nil, err
	}
	return s.repomanager.Documents(s.db).All(ctx, models.DocumentFilter{Status: models.DocumentActive, SubjectID: subjectID})
}

// Suggestions returns matching titles, or an empty list for a blank keyword.
func (s *DocumentService) Suggestions(ctx context.Context, keyword string) ([]string, error) {
	if strings.TrimSpace(keyword) == "" {
		return []string{}, nil
	}
	return s.repomanager.Documents(s.db).TitleSuggestions(ctx, keyword, suggestionLimit)
}

// Download returns a presigned GET URL and counts the download.
func (s *DocumentService) Download(ctx context.Context, id string) (*models.DownloadLink, error) {
	doc, err := s.activeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, expires, err := s.presigner.PresignGet(ctx, doc.StorageKey, doc.FileName)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Documents(s.db).IncrementDownloads(ctx, doc.ID); err != nil {
		s.logger.Warn(ctx, "download counter not updated", "document", doc.ID, "error", err)
	}
	return &models.DownloadLink{URL: url, ExpiresAt: expires}, nil
}

// Delete removes a document. Only its uploader or an admin may do so.
func (s *DocumentService) Delete(ctx context.Context, actor *models.Member, id string) error {
	repo := s.repomanager.Documents(s.db)
	doc, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc.UploaderID != actor.ID && !actor.IsAdmin() {
		return common.ErrorForbidden
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "document deleted", "document", id, "by", actor.ID)
	return nil
}

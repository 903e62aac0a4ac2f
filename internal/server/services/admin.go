package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/studyshare/internal/dbx"
	"github.com/dmitrijs2005/studyshare/internal/logging"
	"github.com/dmitrijs2005/studyshare/internal/server/models"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/repomanager"
)

// AdminService backs the moderation endpoints. Callers must have checked
// that the actor is an admin.
type AdminService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	notifications *NotificationService
	logger        logging.Logger
}

func NewAdminService(db *sql.DB, m repomanager.RepositoryManager, n *NotificationService, logger logging.Logger) *AdminService {
	return &AdminService{db: db, repomanager: m, notifications: n, logger: logger}
}

func (s *AdminService) Statistics(ctx context.Context) (*models.AdminStatistics, error) {
	users, err := s.repomanager.Members(s.db).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("statistics: %w", err)
	}
	pending, err := s.repomanager.Documents(s.db).CountByStatus(ctx, models.DocumentPending)
	if err != nil {
		return nil, fmt.Errorf("statistics: %w", err)
	}
	return &models.AdminStatistics{TotalUsers: users, PendingDocuments: pending}, nil
}

func (s *AdminService) Members(ctx context.Context) ([]models.AdminMember, error) {
	return s.repomanager.Members(s.db).List(ctx)
}

func (s *AdminService) SetBanStatus(ctx context.Context, actor *models.Member, memberID string, status models.BanStatus) (*models.AdminMember, error) {
	if status != models.BanStatusNone && status != models.BanStatusBanned {
		return nil, invalid("Ban status must be NONE or BANNED")
	}
	if memberID == actor.ID {
		return nil, invalid("You cannot change your own ban status")
	}

	repo := s.repomanager.Members(s.db)
	if err := repo.SetBanStatus(ctx, memberID, status); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "ban status changed", "member", memberID, "status", string(status), "by", actor.ID)
	return repo.AdminGet(ctx, memberID)
}

func (s *AdminService) PendingDocuments(ctx context.Context) ([]models.PendingDocument, error) {
	docs, err := s.repomanager.Documents(s.db).All(ctx, models.DocumentFilter{Status: models.DocumentPending})
	if err != nil {
		return nil, fmt.Errorf("pending documents: %w", err)
	}
	out := make([]models.PendingDocument, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.PendingDocument{
			ID:           d.ID,
			Title:        d.Title,
			FileName:     d.FileName,
			UploaderID:   d.UploaderID,
			UploaderName: d.UploaderName,
			FacultyID:    d.FacultyID,
			SubjectID:    d.SubjectID,
			CreatedAt:    d.CreatedAt,
		})
	}
	return out, nil
}

// SetDocumentStatus approves (ACTIVE) or rejects (INACTIVE) a document.
// The uploader is told either way; on approval, followers of the subject,
// the faculty and the uploader hear about the new document.
func (s *AdminService) SetDocumentStatus(ctx context.Context, documentID string, status models.DocumentStatus) (*models.Document, error) {
	if status != models.DocumentActive && status != models.DocumentInactive {
		return nil, invalid("Status must be ACTIVE or INACTIVE")
	}

	doc, err := s.repomanager.Documents(s.db).GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	var created []*models.Notification
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Documents(tx).SetStatus(ctx, doc.ID, status); err != nil {
			return err
		}
		notes := s.repomanager.Notifications(tx)

		tmpl := models.Notification{
			Title:    "Document approved",
			Body:     doc.Title + " is now visible to everyone",
			Kind:     models.KindDocumentApproved,
			TargetID: doc.ID,
		}
		if status == models.DocumentInactive {
			tmpl.Title = "Document rejected"
			tmpl.Body = doc.Title + " was not approved"
			tmpl.Kind = models.KindDocumentRejected
		}
		n, err := notify(ctx, notes, []string{doc.UploaderID}, tmpl)
		if err != nil {
			return err
		}
		created = append(created, n...)

		if status != models.DocumentActive || doc.Status == models.DocumentActive {
			return nil
		}
		followers, err := s.repomanager.Subscriptions(tx).Followers(ctx,
			models.Target{Type: models.TargetSubject, ID: doc.SubjectID},
			models.Target{Type: models.TargetFaculty, ID: doc.FacultyID},
			models.Target{Type: models.TargetMember, ID: doc.UploaderID})
		if err != nil {
			return err
		}
		n, err = notify(ctx, notes, without(followers, doc.UploaderID), models.Notification{
			Title:    "New document",
			Body:     doc.UploaderName + " shared " + doc.Title,
			Kind:     models.KindNewDocument,
			TargetID: doc.ID,
		})
		if err != nil {
			return err
		}
		created = append(created, n...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("set document status: %w", err)
	}

	s.notifications.Deliver(ctx, created)
	s.logger.Info(ctx, "document moderated", "document", doc.ID, "status", string(status), "notified", len(created))

	doc.Status = status
	return doc, nil
}

func without(ids []string, drop string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

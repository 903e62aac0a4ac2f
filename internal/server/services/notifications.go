package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/studyshare/internal/logging"
	"github.com/dmitrijs2005/studyshare/internal/server/models"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/repomanager"
)

type NotificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	push        PushSender
	logger      logging.Logger
}

func NewNotificationService(db *sql.DB, m repomanager.RepositoryManager, push PushSender, logger logging.Logger) *NotificationService {
	return &NotificationService{db: db, repomanager: m, push: push, logger: logger}
}

func (s *NotificationService) List(ctx context.Context, memberID string, page, limit int) (models.Page[models.Notification], error) {
	req := models.NewPageRequest(page, limit)
	items, total, err := s.repomanager.Notifications(s.db).List(ctx, memberID, req)
	if err != nil {
		return models.Page[models.Notification]{}, fmt.Errorf("list notifications: %w", err)
	}
	return models.NewPage(items, req, total), nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, memberID string) (*models.Notification, error) {
	return s.repomanager.Notifications(s.db).MarkRead(ctx, id, memberID)
}

// RegisterDevice binds a push token to memberID.
func (s *NotificationService) RegisterDevice(ctx context.Context, memberID string, tok models.DeviceToken) error {
	tok.Token = strings.TrimSpace(tok.Token)
	if tok.Token == "" {
		return invalid("Device token is required")
	}
	if tok.Platform == "" {
		tok.Platform = "unknown"
	}
	tok.MemberID = memberID
	if err := s.repomanager.Notifications(s.db).UpsertDevice(ctx, &tok); err != nil {
		return fmt.Errorf("register device: %w", err)
	}
	return nil
}

// Deliver pushes each notification to its member's devices. Failures are
// logged; the notification rows already exist.
func (s *NotificationService) Deliver(ctx context.Context, ns []*models.Notification) {
	repo := s.repomanager.Notifications(s.db)
	for _, n := range ns {
		devices, err := repo.Devices(ctx, n.MemberID)
		if err != nil {
			s.logger.Warn(ctx, "load devices failed", "member", n.MemberID, "error", err)
			continue
		}
		if len(devices) == 0 {
			continue
		}
		if err := s.push.Push(ctx, devices, n); err != nil {
			s.logger.Warn(ctx, "push failed", "member", n.MemberID, "error", err)
		}
	}
}

// notify stores a copy of tmpl for each member in memberIDs.
func notify(ctx context.Context, repo notifications.Repository, memberIDs []string, tmpl models.Notification) ([]*models.Notification, error) {
	out := make([]*models.Notification, 0, len(memberIDs))
	for _, id := range memberIDs {
		n := tmpl
		n.MemberID = id
		created, err := repo.Create(ctx, &n)
		if err != nil {
			return nil, fmt.Errorf("create notification: %w", err)
		}
		out = append(out, created)
	}
	return out, nil
}

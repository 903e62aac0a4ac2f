package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/studyshare/internal/common"
	"github.com/dmitrijs2005/studyshare/internal/server/models"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/repomanager"
)

type SubscriptionService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	notifications *NotificationService
}

func NewSubscriptionService(db *sql.DB, m repomanager.RepositoryManager, n *NotificationService) *SubscriptionService {
	return &SubscriptionService{db: db, repomanager: m, notifications: n}
}

func (s *SubscriptionService) targetExists(ctx context.Context, t models.Target) error {
	switch t.Type {
	case models.TargetFaculty:
		ok, err := s.repomanager.Catalog(s.db).FacultyExists(ctx, t.ID)
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrorNotFound
		}
		return nil
	case models.TargetSubject:
		_, err := s.repomanager.Catalog(s.db).SubjectInfo(ctx, t.ID, "")
		return err
	case models.TargetMember:
		_, err := s.repomanager.Members(s.db).GetByID(ctx, t.ID)
		return err
	default:
		return invalid("Unknown subscription target")
	}
}

// Subscribe follows t. Following again is a no-op; following a member
// notifies them.
func (s *SubscriptionService) Subscribe(ctx context.Context, follower *models.Member, t models.Target) error {
	if t.Type == models.TargetMember && t.ID == follower.ID {
		return invalid("You cannot follow yourself")
	}
	if err := s.targetExists(ctx, t); err != nil {
		return err
	}
	if err := s.repomanager.Subscriptions(s.db).Subscribe(ctx, follower.ID, t); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	if t.Type == models.TargetMember {
		created, err := notify(ctx, s.repomanager.Notifications(s.db), []string{t.ID}, models.Notification{
			Title:    "New follower",
			Body:     follower.FullName + " started following you",
			Kind:     models.KindNewFollower,
			TargetID: follower.ID,
		})
		if err != nil {
			return err
		}
		s.notifications.Deliver(ctx, created)
	}
	return nil
}

func (s *SubscriptionService) Unsubscribe(ctx context.Context, follower *models.Member, t models.Target) error {
	if err := s.repomanager.Subscriptions(s.db).Unsubscribe(ctx, follower.ID, t); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	return nil
}

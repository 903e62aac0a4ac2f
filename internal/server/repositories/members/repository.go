// Package members stores member accounts and their read models.
package members

import (
	"context"

	"github.com/dmitrijs2005/studyshare/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Member) (*models.Member, error)
	GetByID(ctx context.Context, id string) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	SetStatus(ctx context.Context, id string, status models.MemberStatus) error
	SetPasswordHash(ctx context.Context, id, hash string) error
	UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) error
	Profile(ctx context.Context, id, viewerID string) (*models.MemberProfile, error)

	List(ctx context.Context) ([]models.AdminMember, error)
	AdminGet(ctx context.Context, id string) (*models.AdminMember, error)
	SetBanStatus(ctx context.Context, id string, status models.BanStatus) error
	Count(ctx context.Context) (int, error)
}

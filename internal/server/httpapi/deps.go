package httpapi

import (
	"context"

	"github.com/dmitrijs2005/studyshare/internal/server/models"
	"github.com/dmitrijs2005/studyshare/internal/server/services"
)

// The interfaces below are the slices of the services package the handlers
// call. The concrete services satisfy them.

type MemberService interface {
	Signup(ctx context.Context, in services.SignupInput) error
	VerifySignup(ctx context.Context, email, code string) (*services.AuthResult, error)
	ResendCode(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Logout(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, email, code string) (string, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	Authenticate(ctx context.Context, token string) (*models.Member, error)
	Profile(ctx context.Context, id, viewerID string) (*models.MemberProfile, error)
	UpdateProfile(ctx context.Context, memberID string, upd models.ProfileUpdate) (*models.MemberProfile, error)
}

type DocumentService interface {
	Create(ctx context.Context, uploader *models.Member, in models.NewDocument) (*models.UploadTicket, error)
	Get(ctx context.Context, id string) (*models.Document, error)
	List(ctx context.Context, page, limit int) (models.Page[models.Document], error)
	Search(ctx context.Context, keyword string, page, limit int) (models.Page[models.Document], error)
	ByFaculty(ctx context.Context, facultyID string) ([]models.Document, error)
	BySubject(ctx context.Context, subjectID string) ([]models.Document, error)
	Suggestions(ctx context.Context, keyword string) ([]string, error)
	Download(ctx context.Context, id string) (*models.DownloadLink, error)
	Delete(ctx context.Context, actor *models.Member, id string) error
}

type CatalogService interface {
	Faculties(ctx context.Context) ([]models.Faculty, error)
	FacultyInfo(ctx context.Context, id, viewerID string) (*models.FacultyInfo, error)
	Subjects(ctx context.Context, facultyID, viewerID string) ([]models.Subject, error)
	SubjectInfo(ctx context.Context, id, viewerID string) (*models.Subject, error)
	SubjectSuggestions(ctx context.Context, keyword string) ([]models.Subject, error)
}

type SubscriptionService interface {
	Subscribe(ctx context.Context, follower *models.Member, t models.Target) error
	Unsubscribe(ctx context.Context, follower *models.Member, t models.Target) error
}

type NotificationService interface {
	List(ctx context.Context, memberID string, page, limit int) (models.Page[models.Notification], error)
	MarkRead(ctx context.Context, id, memberID string) (*models.Notification, error)
	RegisterDevice(ctx context.Context, memberID string, tok models.DeviceToken) error
}

type AdminService interface {
	Statistics(ctx context.Context) (*models.AdminStatistics, error)
	Members(ctx context.Context) ([]models.AdminMember, error)
	SetBanStatus(ctx context.Context, actor *models.Member, memberID string, status models.BanStatus) (*models.AdminMember, error)
	PendingDocuments(ctx context.Context) ([]models.PendingDocument, error)
	SetDocumentStatus(ctx context.Context, documentID string, status models.DocumentStatus) (*models.Document, error)
}

// Services bundles the handler dependencies.
type Services struct {
	Members       MemberService
	Documents     DocumentService
	Catalog       CatalogService
	Subscriptions SubscriptionService
	Notifications NotificationService
	Admin         AdminService
}

var (
	_ MemberService       = (*services.MemberService)(nil)
	_ DocumentService     = (*services.DocumentService)(nil)
	_ CatalogService      = (*services.CatalogService)(nil)
	_ SubscriptionService = (*services.SubscriptionService)(nil)
	_ NotificationService = (*services.NotificationService)(nil)
	_ AdminService        = (*services.AdminService)(nil)
)

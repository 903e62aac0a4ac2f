// Package hooks binds the resource accessors to the query cache: one
// constructor per screen query and one per mutation, each with its cache
// key and, for mutations, the keys it invalidates.
package hooks

import (
	"context"

	"github.com/dmitrijs2005/studyshare/internal/client/api"
	"github.com/dmitrijs2005/studyshare/internal/client/models"
	"github.com/dmitrijs2005/studyshare/internal/client/query"
)

// DocumentsPageSize is the page size of the document feed.
const DocumentsPageSize = 20

type Hooks struct {
	api   *api.API
	cache *query.Cache
}

func New(a *api.API, c *query.Cache) *Hooks {
	return &Hooks{api: a, cache: c}
}

func (h *Hooks) Cache() *query.Cache {
	return h.cache
}

func (h *Hooks) MyProfile(opts ...query.Option) *query.Query[models.User] {
	return query.New(h.cache, KeyMyProfile, h.api.Me, opts...)
}

func (h *Hooks) UserProfile(id string) *query.Query[models.User] {
	return query.New(h.cache, UserProfileKey(id), func(ctx context.Context) (models.User, error) {
		return h.api.UserProfile(ctx, id)
	}, query.Enabled(id != ""))
}

func (h *Hooks) Documents() *query.InfiniteQuery[models.Document] {
	return query.NewInfinite[models.Document](h.cache, KeyDocuments.With("feed"), func(ctx context.Context, page int) (models.Page[models.Document], error) {
		return h.api.Documents(ctx, page, DocumentsPageSize)
	})
}

func (h *Hooks) Document(id string) *query.Query[models.Document] {
	return query.New(h.cache, DocumentKey(id), func(ctx context.Context) (models.Document, error) {
		return h.api.Document(ctx, id)
	}, query.Enabled(id != ""))
}

// DownloadLink is never served from cache; presigned URLs expire.
func (h *Hooks) DownloadLink(id string) *query.Query[models.DownloadLink] {
	return query.New(h.cache, DownloadKey(id), func(ctx context.Context) (models.DownloadLink, error) {
		return h.api.DownloadLink(ctx, id)
	}, query.Enabled(id != ""), query.StaleTime(0))
}

func (h *Hooks) FacultyDocuments(facultyID string) *query.Query[[]models.Document] {
	return query.New(h.cache, FacultyDocumentsKey(facultyID), func(ctx context.Context) ([]models.Document, error) {
		return h.api.FacultyDocuments(ctx, facultyID)
	}, query.Enabled(facultyID != ""))
}

func (h *Hooks) SubjectDocuments(subjectID string) *query.Query[[]models.Document] {
	return query.New(h.cache, SubjectDocumentsKey(subjectID), func(ctx context.Context) ([]models.Document, error) {
		return h.api.SubjectDocuments(ctx, subjectID)
	}, query.Enabled(subjectID != ""))
}

func (h *Hooks) SearchDocuments(keyword string) *query.InfiniteQuery[models.Document] {
	return query.NewInfinite[models.Document](h.cache, SearchKey(keyword), func(ctx context.Context, page int) (models.Page[models.Document], error) {
		return h.api.SearchDocuments(ctx, keyword, page)
	}, query.Enabled(keyword != ""))
}

func (h *Hooks) KeywordSuggestions(keyword string) *query.Query[[]string] {
	return query.New(h.cache, KeywordSuggestionsKey(keyword), func(ctx context.Context) ([]string, error) {
		return h.api.KeywordSuggestions(ctx, keyword), nil
	}, query.Enabled(keyword != ""))
}

func (h *Hooks) SubjectSuggestions(keyword string) *query.Query[[]models.Subject] {
	return query.New(h.cache, SubjectSuggestionsKey(keyword), func(ctx context.Context) ([]models.Subject, error) {
		return h.api.SubjectSuggestions(ctx, keyword), nil
	}, query.Enabled(keyword != ""))
}

func (h *Hooks) Faculties() *query.Query[[]models.Faculty] {
	return query.New(h.cache, KeyFaculties, h.api.Faculties)
}

func (h *Hooks) FacultyInfo(id string) *query.Query[models.FacultyInfo] {
	return query.New(h.cache, FacultyInfoKey(id), func(ctx context.Context) (models.FacultyInfo, error) {
		return h.api.FacultyInfo(ctx, id)
	}, query.Enabled(id != ""))
}

func (h *Hooks) Subjects(facultyID string) *query.Query[[]models.Subject] {
	return query.New(h.cache, SubjectsKey(facultyID), func(ctx context.Context) ([]models.Subject, error) {
		return h.api.Subjects(ctx, facultyID)
	})
}

func (h *Hooks) SubjectInfo(id string) *query.Query[models.Subject] {
	return query.New(h.cache, SubjectInfoKey(id), func(ctx context.Context) (models.Subject, error) {
		return h.api.SubjectInfo(ctx, id)
	}, query.Enabled(id != ""))
}

func (h *Hooks) Notifications() *query.InfiniteQuery[models.Notification] {
	return query.NewInfinite[models.Notification](h.cache, KeyNotifications, h.api.Notifications)
}

// The admin queries take options so callers can disable them for members
// without the ADMIN role.

func (h *Hooks) AdminStatistics(opts ...query.Option) *query.Query[models.AdminStatistics] {
	return query.New(h.cache, KeyAdminStatistics, h.api.AdminStatistics, opts...)
}

func (h *Hooks) AdminUsers(opts ...query.Option) *query.Query[[]models.AdminUser] {
	return query.New(h.cache, KeyAdminUsers, h.api.AdminUsers, opts...)
}

func (h *Hooks) PendingDocuments(opts ...query.Option) *query.Query[[]models.PendingDocument] {
	return query.New(h.cache, KeyAdminPending, h.api.PendingDocuments, opts...)
}

package hooks

import (
	"context"
	"io"

	"github.com/dmitrijs2005/studyshare/internal/client/models"
	"github.com/dmitrijs2005/studyshare/internal/client/query"
)

func keys(k ...query.Key) func(string) []query.Key {
	return func(string) []query.Key { return k }
}

func (h *Hooks) banStatus(status models.BanStatus) *query.Mutation[string, models.AdminUser] {
	return query.NewMutation(h.cache, func(ctx context.Context, id string) (models.AdminUser, error) {
		return h.api.SetBanStatus(ctx, id, status)
	}, keys(KeyAdminUsers, KeyAdminStatistics))
}

func (h *Hooks) BanUser() *query.Mutation[string, models.AdminUser] {
	return h.banStatus(models.BanStatusBanned)
}

func (h *Hooks) UnbanUser() *query.Mutation[string, models.AdminUser] {
	return h.banStatus(models.BanStatusNone)
}

func (h *Hooks) documentStatus(status models.DocumentStatus) *query.Mutation[string, models.Document] {
	return query.NewMutation(h.cache, func(ctx context.Context, id string) (models.Document, error) {
		return h.api.SetDocumentStatus(ctx, id, status)
	}, keys(KeyAdminPending, KeyAdminStatistics, KeyDocuments))
}

func (h *Hooks) ApproveDocument() *query.Mutation[string, models.Document] {
	return h.documentStatus(models.DocumentStatusActive)
}

func (h *Hooks) RejectDocument() *query.Mutation[string, models.Document] {
	return h.documentStatus(models.DocumentStatusInactive)
}

func (h *Hooks) subscription(target models.SubscriptionTarget, subscribe bool, invalidates func(string) []query.Key) *query.Mutation[string, models.Message] {
	return query.NewMutation(h.cache, func(ctx context.Context, id string) (models.Message, error) {
		if subscribe {
			return h.api.Subscribe(ctx, target, id)
		}
		return h.api.Unsubscribe(ctx, target, id)
	}, invalidates)
}

func facultyKeys(id string) []query.Key {
	return []query.Key{FacultyInfoKey(id), KeyFaculties}
}

func subjectKeys(id string) []query.Key {
	return []query.Key{SubjectInfoKey(id), KeySubjects}
}

func userKeys(id string) []query.Key {
	return []query.Key{UserProfileKey(id)}
}

func (h *Hooks) SubscribeFaculty() *query.Mutation[string, models.Message] {
	return h.subscription(models.TargetFaculty, true, facultyKeys)
}

func (h *Hooks) UnsubscribeFaculty() *query.Mutation[string, models.Message] {
	return h.subscription(models.TargetFaculty, false, facultyKeys)
}

func (h *Hooks) SubscribeSubject() *query.Mutation[string, models.Message] {
	return h.subscription(models.TargetSubject, true, subjectKeys)
}

func (h *Hooks) UnsubscribeSubject() *query.Mutation[string, models.Message] {
	return h.subscription(models.TargetSubject, false, subjectKeys)
}

func (h *Hooks) FollowUser() *query.Mutation[string, models.Message] {
	return h.subscription(models.TargetUser, true, userKeys)
}

func (h *Hooks) UnfollowUser() *query.Mutation[string, models.Message] {
	return h.subscription(models.TargetUser, false, userKeys)
}

// Upload is the input of UploadDocument.
type Upload struct {
	Document models.NewDocument
	Content  io.Reader
}

func (h *Hooks) UploadDocument() *query.Mutation[Upload, models.Document] {
	return query.NewMutation(h.cache, func(ctx context.Context, in Upload) (models.Document, error) {
		return h.api.UploadDocument(ctx, in.Document, in.Content)
	}, func(Upload) []query.Key {
		return []query.Key{KeyDocuments, KeyMyProfile}
	})
}

func (h *Hooks) DeleteDocument() *query.Mutation[string, models.Message] {
	return query.NewMutation(h.cache, h.api.DeleteDocument, func(id string) []query.Key {
		return []query.Key{KeyDocuments, DocumentKey(id), KeyMyProfile}
	})
}

func (h *Hooks) UpdateProfile() *query.Mutation[models.ProfileUpdate, models.User] {
	return query.NewMutation(h.cache, h.api.UpdateProfile, func(models.ProfileUpdate) []query.Key {
		return []query.Key{KeyMyProfile}
	})
}

func (h *Hooks) MarkNotificationRead() *query.Mutation[string, models.Notification] {
	return query.NewMutation(h.cache, h.api.MarkNotificationRead, keys(KeyNotifications))
}

package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/studyshare/internal/client/client"
	"github.com/dmitrijs2005/studyshare/internal/client/models"
)

func (a *API) Faculties(ctx context.Context) ([]models.Faculty, error) {
	raw, err := a.get(ctx, "/faculties")
	if err != nil {
		return nil, err
	}
	return decodeList[models.Faculty](raw), nil
}

func (a *API) FacultyInfo(ctx context.Context, id string) (models.FacultyInfo, error) {
	raw, err := a.get(ctx, "/faculties/"+seg(id))
	if err != nil {
		return models.FacultyInfo{}, err
	}
	return decodeRecord(raw, models.FacultyInfo{ID: id}), nil
}

// Subjects lists subjects, narrowed to one faculty when facultyID is set.
func (a *API) Subjects(ctx context.Context, facultyID string) ([]models.Subject, error) {
	raw, err := a.get(ctx, "/subjects", client.WithQuery("facultyId", facultyID))
	if err != nil {
		return nil, err
	}
	return decodeList[models.Subject](raw), nil
}

func (a *API) SubjectInfo(ctx context.Context, id string) (models.Subject, error) {
	raw, err := a.get(ctx, "/subjects/"+seg(id))
	if err != nil {
		return models.Subject{}, err
	}
	return decodeRecord(raw, models.Subject{ID: id}), nil
}

// SubjectSuggestions never fails; errors are logged and yield an empty list.
func (a *API) SubjectSuggestions(ctx context.Context, keyword string) []models.Subject {
	raw, err := a.get(ctx, "/subjects/suggestions", client.WithQuery("keyword", keyword))
	if err != nil {
		a.logger.Error(ctx, "Error fetching suggestions subject: "+err.Error())
		return []models.Subject{}
	}
	return decodeList[models.Subject](raw)
}

func subscriptionPath(target models.SubscriptionTarget, id string) string {
	return "/" + string(target) + "/" + seg(id) + "/subscription"
}

// Subscribe follows a faculty, a subject or another member.
func (a *API) Subscribe(ctx context.Context, target models.SubscriptionTarget, id string) (models.Message, error) {
	return a.message(ctx, http.MethodPost, subscriptionPath(target, id), nil)
}

func (a *API) Unsubscribe(ctx context.Context, target models.SubscriptionTarget, id string) (models.Message, error) {
	return a.message(ctx, http.MethodDelete, subscriptionPath(target, id), nil)
}

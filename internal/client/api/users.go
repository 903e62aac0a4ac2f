package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/studyshare/internal/client/models"
)

func (a *API) Me(ctx context.Context) (models.User, error) {
	raw, err := a.get(ctx, "/users/me")
	if err != nil {
		return models.User{}, err
	}
	return decodeRecord(raw, models.User{}), nil
}

func (a *API) UserProfile(ctx context.Context, id string) (models.User, error) {
	raw, err := a.get(ctx, "/users/"+seg(id))
	if err != nil {
		return models.User{}, err
	}
	return decodeRecord(raw, models.User{ID: id}), nil
}

func (a *API) UpdateProfile(ctx context.Context, in models.ProfileUpdate) (models.User, error) {
	raw, err := a.call(ctx, http.MethodPatch, "/users/me", in)
	if err != nil {
		return models.User{}, err
	}
	return decodeRecord(raw, models.User{}), nil
}

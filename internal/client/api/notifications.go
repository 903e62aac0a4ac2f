package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/studyshare/internal/client/client"
	"github.com/dmitrijs2005/studyshare/internal/client/models"
)

// PathFCMToken is where device push tokens are registered.
const PathFCMToken = "/notifications/fcm-token"

func (a *API) Notifications(ctx context.Context, page int) (models.Page[models.Notification], error) {
	raw, err := a.get(ctx, "/notifications", client.WithQuery("page", strconv.Itoa(page)))
	if err != nil {
		return models.Page[models.Notification]{}, err
	}
	return decodePage[models.Notification](raw), nil
}

func (a *API) MarkNotificationRead(ctx context.Context, id string) (models.Notification, error) {
	raw, err := a.call(ctx, http.MethodPatch, "/notifications/"+seg(id)+"/read", nil)
	if err != nil {
		return models.Notification{}, err
	}
	return decodeRecord(raw, models.Notification{ID: id, IsRead: true}), nil
}

func (a *API) RegisterDeviceToken(ctx context.Context, tok models.DeviceToken) (models.Message, error) {
	return a.message(ctx, http.MethodPost, PathFCMToken, tok)
}

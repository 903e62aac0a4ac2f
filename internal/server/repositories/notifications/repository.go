// Package notifications stores per-member notifications and the push
// device tokens they are delivered to.
package notifications

import (
	"context"

	"github.com/dmitrijs2005/studyshare/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	List(ctx context.Context, memberID string, page models.PageRequest) ([]models.Notification, int, error)
	// MarkRead fails with common.ErrorNotFound unless the notification
	// belongs to memberID.
	MarkRead(ctx context.Context, id, memberID string) (*models.Notification, error)

	UpsertDevice(ctx context.Context, d *models.DeviceToken) error
	Devices(ctx context.Context, memberID string) ([]models.DeviceToken, error)
}

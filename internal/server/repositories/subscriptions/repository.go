// Package subscriptions stores which members follow which faculties,
// subjects and members.
package subscriptions

import (
	"context"

	"github.com/dmitrijs2005/studyshare/internal/server/models"
)

type Repository interface {
	// Subscribe is idempotent.
	Subscribe(ctx context.Context, memberID string, target models.Target) error
	// Unsubscribe of a missing subscription is a no-op.
	Unsubscribe(ctx context.Context, memberID string, target models.Target) error
	// Followers returns the distinct members following any of targets.
	Followers(ctx context.Context, targets ...models.Target) ([]string, error)
}

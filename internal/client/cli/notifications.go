package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/studyshare/internal/client/models"
)

func notificationLine(n models.Notification) string {
	mark := "*"
	if n.IsRead {
		mark = " "
	}
	return fmt.Sprintf("%s %s  %s: %s", mark, n.ID, n.Title, n.Body)
}

func (a *App) notifications(ctx context.Context, _ []string) error {
	return showPages(ctx, a, a.hooks.Notifications(), "No notifications.", notificationLine)
}

func (a *App) markRead(ctx context.Context, args []string) error {
	return mutate(ctx, a, a.hooks.MarkNotificationRead(), args[0], func(models.Notification) string {
		return "Marked as read."
	})
}

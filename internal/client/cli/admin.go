package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/studyshare/internal/client/models"
	"github.com/dmitrijs2005/studyshare/internal/client/screen"
)

func (a *App) adminStats(ctx context.Context, _ []string) error {
	_, err := show(ctx, a, a.hooks.AdminStatistics(), screen.View[models.AdminStatistics]{
		Render: func(w io.Writer, s models.AdminStatistics) error {
			_, err := fmt.Fprintf(w, "users: %d\npending documents: %d\n", s.TotalUsers, s.PendingDocuments)
			return err
		},
	})
	return err
}

func (a *App) adminUsers(ctx context.Context, _ []string) error {
	_, err := show(ctx, a, a.hooks.AdminUsers(), screen.View[[]models.AdminUser]{
		Empty: "No users.",
		Count: screen.Len[models.AdminUser],
		Render: func(w io.Writer, users []models.AdminUser) error {
			for i, u := range users {
				if _, err := fmt.Fprintf(w, "%3d. %s  %s <%s>  %s %s  docs: %d\n",
					i+1, u.ID, u.FullName, u.Email, u.Role, u.BanStatus, u.DocumentCount); err != nil {
					return err
				}
			}
			return nil
		},
	})
	return err
}

func (a *App) pending(ctx context.Context, _ []string) error {
	_, err := show(ctx, a, a.hooks.PendingDocuments(), screen.View[[]models.PendingDocument]{
		Empty: "No documents awaiting review.",
		Count: screen.Len[models.PendingDocument],
		Render: func(w io.Writer, docs []models.PendingDocument) error {
			for i, d := range docs {
				if _, err := fmt.Fprintf(w, "%3d. %s  %s (%s) by %s\n", i+1, d.ID, d.Title, d.FileName, d.UploaderName); err != nil {
					return err
				}
			}
			return nil
		},
	})
	return err
}

func (a *App) ban(ctx context.Context, args []string) error {
	return mutate(ctx, a, a.hooks.BanUser(), args[0], func(u models.AdminUser) string {
		return "Banned " + orID(u.Email, args[0]) + "."
	})
}

func (a *App) unban(ctx context.Context, args []string) error {
	return mutate(ctx, a, a.hooks.UnbanUser(), args[0], func(u models.AdminUser) string {
		return "Unbanned " + orID(u.Email, args[0]) + "."
	})
}

func (a *App) approve(ctx context.Context, args []string) error {
	return mutate(ctx, a, a.hooks.ApproveDocument(), args[0], func(d models.Document) string {
		return "Approved " + orID(d.Title, args[0]) + "."
	})
}

func (a *App) reject(ctx context.Context, args []string) error {
	return mutate(ctx, a, a.hooks.RejectDocument(), args[0], func(d models.Document) string {
		return "Rejected " + orID(d.Title, args[0]) + "."
	})
}

// orID labels a record by id when the response left its name empty.
func orID(name, id string) string {
	if name == "" {
		return id
	}
	return name
}

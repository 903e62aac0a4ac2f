package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/studyshare/internal/client/models"
	"github.com/dmitrijs2005/studyshare/internal/client/screen"
)

func renderUser(w io.Writer, u models.User) error {
	_, err := fmt.Fprintf(w, "%s <%s>\n  id: %s  role: %s\n  followers: %d  following: %d  documents: %d\n",
		u.FullName, u.Email, u.ID, u.Role, u.FollowerCount, u.FollowingCount, u.DocumentCount)
	if err != nil {
		return err
	}
	if u.Bio != "" {
		if _, err := fmt.Fprintf(w, "  %s\n", u.Bio); err != nil {
			return err
		}
	}
	if u.IsSubscribed {
		_, err = fmt.Fprintln(w, "  (following)")
	}
	return err
}

func (a *App) me(ctx context.Context, _ []string) error {
	_, err := show(ctx, a, a.hooks.MyProfile(), screen.View[models.User]{
		Render: func(w io.Writer, u models.User) error {
			a.setUser(&u)
			return renderUser(w, u)
		},
	})
	return err
}

func (a *App) profile(ctx context.Context, args []string) error {
	_, err := show(ctx, a, a.hooks.UserProfile(args[0]), screen.View[models.User]{
		Empty:  "User not found.",
		Render: renderUser,
	})
	return err
}

// editProfile leaves a field unchanged when its answer is empty.
func (a *App) editProfile(ctx context.Context, _ []string) error {
	name, err := a.text("Full name (empty to keep)")
	if err != nil {
		return err
	}
	bio, err := a.text("Bio (empty to keep)")
	if err != nil {
		return err
	}
	upd := models.ProfileUpdate{FullName: name, Bio: bio}
	if upd == (models.ProfileUpdate{}) {
		a.println("Nothing to change.")
		return nil
	}
	return mutate(ctx, a, a.hooks.UpdateProfile(), upd, func(u models.User) string {
		a.setUser(&u)
		return "Profile updated."
	})
}

func (a *App) followUser(ctx context.Context, args []string) error {
	return mutate(ctx, a, a.hooks.FollowUser(), args[0], messageText("Following."))
}

func (a *App) unfollowUser(ctx context.Context, args []string) error {
	return mutate(ctx, a, a.hooks.UnfollowUser(), args[0], messageText("Unfollowed."))
}

func messageText(fallback string) func(models.Message) string {
	return func(m models.Message) string {
		if m.Message != "" {
			return m.Message
		}
		return fallback
	}
}

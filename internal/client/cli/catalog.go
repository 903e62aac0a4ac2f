package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/studyshare/internal/client/models"
	"github.com/dmitrijs2005/studyshare/internal/client/screen"
)

func renderSubjects(w io.Writer, subjects []models.Subject) error {
	for i, s := range subjects {
		if _, err := fmt.Fprintf(w, "%3d. %s  %s %s\n", i+1, s.ID, s.Code, s.Name); err != nil {
			return err
		}
	}
	return nil
}

func subscribed(on bool) string {
	if on {
		return "  (following)"
	}
	return ""
}

func (a *App) faculties(ctx context.Context, _ []string) error {
	_, err := show(ctx, a, a.hooks.Faculties(), screen.View[[]models.Faculty]{
		Empty: "No faculties.",
		Count: screen.Len[models.Faculty],
		Render: func(w io.Writer, fs []models.Faculty) error {
			for i, f := range fs {
				if _, err := fmt.Fprintf(w, "%3d. %s  %s %s\n", i+1, f.ID, f.Code, f.Name); err != nil {
					return err
				}
			}
			return nil
		},
	})
	return err
}

// faculty shows the faculty card followed by its documents.
func (a *App) faculty(ctx context.Context, args []string) error {
	id := args[0]
	s, err := show(ctx, a, a.hooks.FacultyInfo(id), screen.View[models.FacultyInfo]{
		Empty: "Faculty not found.",
		Render: func(w io.Writer, f models.FacultyInfo) error {
			_, err := fmt.Fprintf(w, "%s %s%s\n  followers: %d  subjects: %d  documents: %d\n",
				f.Code, f.Name, subscribed(f.IsSubscribed), f.FollowerCount, f.SubjectCount, f.DocumentCount)
			if err == nil && f.Description != "" {
				_, err = fmt.Fprintf(w, "  %s\n", f.Description)
			}
			return err
		},
	})
	if err != nil || s != screen.Populated {
		return err
	}
	_, err = show(ctx, a, a.hooks.FacultyDocuments(id), screen.View[[]models.Document]{
		Empty:  "No documents in this faculty yet.",
		Count:  screen.Len[models.Document],
		Render: renderDocuments,
	})
	return err
}

func (a *App) subjects(ctx context.Context, args []string) error {
	var facultyID string
	if len(args) > 0 {
		facultyID = args[0]
	}
	_, err := show(ctx, a, a.hooks.Subjects(facultyID), screen.View[[]models.Subject]{
		Empty:  "No subjects.",
		Count:  screen.Len[models.Subject],
		Render: renderSubjects,
	})
	return err
}

// subject shows the subject card followed by its documents.
func (a *App) subject(ctx context.Context, args []string) error {
	id := args[0]
	s, err := show(ctx, a, a.hooks.SubjectInfo(id), screen.View[models.Subject]{
		Empty: "Subject not found.",
		Render: func(w io.Writer, s models.Subject) error {
			_, err := fmt.Fprintf(w, "%s %s%s\n  followers: %d  documents: %d\n",
				s.Code, s.Name, subscribed(s.IsSubscribed), s.FollowerCount, s.DocumentCount)
			return err
		},
	})
	if err != nil || s != screen.Populated {
		return err
	}
	_, err = show(ctx, a, a.hooks.SubjectDocuments(id), screen.View[[]models.Document]{
		Empty:  "No documents for this subject yet.",
		Count:  screen.Len[models.Document],
		Render: renderDocuments,
	})
	return err
}

func (a *App) followFaculty(ctx context.Context, args []string) error {
	return mutate(ctx, a, a.hooks.SubscribeFaculty(), args[0], messageText("Following faculty."))
}

func (a *App) unfollowFaculty(ctx context.Context, args []string) error {
	return mutate(ctx, a, a.hooks.UnsubscribeFaculty(), args[0], messageText("Unfollowed faculty."))
}

func (a *App) followSubject(ctx context.Context, args []string) error {
	return mutate(ctx, a, a.hooks.SubscribeSubject(), args[0], messageText("Following subject."))
}

func (a *App) unfollowSubject(ctx context.Context, args []string) error {
	return mutate(ctx, a, a.hooks.UnsubscribeSubject(), args[0], messageText("Unfollowed subject."))
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/studyshare/internal/client/models"
	"github.com/dmitrijs2005/studyshare/internal/client/screen"
	"github.com/dmitrijs2005/studyshare/internal/client/validation"
)

func documentLine(d models.Document) string {
	return fmt.Sprintf("%s  %s (%s)", d.ID, d.Title, d.FileName)
}

func renderDocument(w io.Writer, d models.Document) error {
	_, err := fmt.Fprintf(w, "%s\n  id: %s  status: %s\n  file: %s  %s  %d bytes\n  by %s  downloads: %d\n",
		d.Title, d.ID, d.Status, d.FileName, d.ContentType, d.SizeBytes, d.UploaderName, d.DownloadCount)
	if err != nil {
		return err
	}
	if d.Description != "" {
		_, err = fmt.Fprintf(w, "  %s\n", d.Description)
	}
	return err
}

func renderDocuments(w io.Writer, docs []models.Document) error {
	for i, d := range docs {
		if _, err := fmt.Fprintf(w, "%3d. %s\n", i+1, documentLine(d)); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) docs(ctx context.Context, _ []string) error {
	return showPages(ctx, a, a.hooks.Documents(), "No documents yet.", documentLine)
}

func (a *App) search(ctx context.Context, args []string) error {
	if err := validation.Keyword(args[0]); err != nil {
		return err
	}
	return showPages(ctx, a, a.hooks.SearchDocuments(args[0]), "No documents match.", documentLine)
}

// suggest shows keyword and subject completions for a prefix.
func (a *App) suggest(ctx context.Context, args []string) error {
	kw := args[0]
	_, err := show(ctx, a, a.hooks.KeywordSuggestions(kw), screen.View[[]string]{
		Empty: "No keyword suggestions.",
		Count: screen.Len[string],
		Render: func(w io.Writer, words []string) error {
			for _, s := range words {
				if _, err := fmt.Fprintln(w, "  "+s); err != nil {
					return err
				}
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	_, err = show(ctx, a, a.hooks.SubjectSuggestions(kw), screen.View[[]models.Subject]{
		Empty:  "No subject suggestions.",
		Count:  screen.Len[models.Subject],
		Render: renderSubjects,
	})
	return err
}

func (a *App) doc(ctx context.Context, args []string) error {
	_, err := show(ctx, a, a.hooks.Document(args[0]), screen.View[models.Document]{
		Empty:  "Document not found.",
		Render: renderDocument,
	})
	return err
}

func (a *App) download(ctx context.Context, args []string) error {
	a.println("Downloading...")
	path, err := a.files.Download(ctx, args[0], a.downloadDir)
	if err != nil {
		return err
	}
	a.println("Saved to", path)
	return nil
}

func (a *App) upload(ctx context.Context, args []string) error {
	title, err := a.text("Title (empty for the file name)")
	if err != nil {
		return err
	}
	desc, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	faculty, err := a.text("Faculty id")
	if err != nil {
		return err
	}
	subject, err := a.text("Subject id")
	if err != nil {
		return err
	}

	a.println("Uploading...")
	doc, err := a.files.Upload(ctx, args[0], models.NewDocument{
		Title:       title,
		Description: desc,
		FacultyID:   faculty,
		SubjectID:   subject,
	})
	if err != nil {
		return err
	}
	a.printf("Uploaded %s (%s). It will be visible once approved.\n", doc.Title, doc.ID)
	return nil
}

func (a *App) deleteDocument(ctx context.Context, args []string) error {
	ok, err := Confirm(a.reader, "Delete document "+args[0]+"?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.println("Cancelled.")
		return nil
	}
	return mutate(ctx, a, a.hooks.DeleteDocument(), args[0], messageText("Document deleted."))
}

// Package catalog reads faculties and subjects together with their
// follower and document counts.
package catalog

import (
	"context"

	"github.com/dmitrijs2005/studyshare/internal/server/models"
)

// Repository methods taking a viewerID fill IsSubscribed for that member;
// an empty viewerID leaves it false.
type Repository interface {
	Faculties(ctx context.Context) ([]models.Faculty, error)
	FacultyInfo(ctx context.Context, id, viewerID string) (*models.FacultyInfo, error)
	Subjects(ctx context.Context, facultyID, viewerID string) ([]models.Subject, error)
	SubjectInfo(ctx context.Context, id, viewerID string) (*models.Subject, error)
	SearchSubjects(ctx context.Context, keyword string, limit int) ([]models.Subject, error)
	FacultyExists(ctx context.Context, id string) (bool, error)
}

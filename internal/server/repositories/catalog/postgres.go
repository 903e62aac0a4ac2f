package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/studyshare/internal/common"
	"github.com/dmitrijs2005/studyshare/internal/dbx"
	"github.com/dmitrijs2005/studyshare/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) qb() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func (r *PostgresRepository) Faculties(ctx context.Context) ([]models.Faculty, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, code, description FROM faculties ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Faculty{}
	for rows.Next() {
		var f models.Faculty
		if err := rows.Scan(&f.ID, &f.Name, &f.Code, &f.Description); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) FacultyInfo(ctx context.Context, id, viewerID string) (*models.FacultyInfo, error) {
	query :=
		`SELECT f.id, f.name, f.code, f.description,
		   (SELECT COUNT(*) FROM subscriptions s WHERE s.target_type = 'FACULTY' AND s.target_id = f.id),
		   (SELECT COUNT(*) FROM documents d WHERE d.faculty_id = f.id AND d.status = 'ACTIVE'),
		   (SELECT COUNT(*) FROM subjects j WHERE j.faculty_id = f.id),
		   EXISTS (SELECT 1 FROM subscriptions s
		           WHERE s.member_id::text = $2 AND s.target_type = 'FACULTY' AND s.target_id = f.id)
		 FROM faculties f
		 WHERE f.id = $1
		 `

	fi := &models.FacultyInfo{}
	err := r.db.QueryRowContext(ctx, query, id, viewerID).Scan(
		&fi.ID, &fi.Name, &fi.Code, &fi.Description,
		&fi.FollowerCount, &fi.DocumentCount, &fi.SubjectCount, &fi.IsSubscribed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return fi, nil
}

func (r *PostgresRepository) selectSubjects(viewerID string) sq.SelectBuilder {
	return r.qb().
		Select("s.id", "s.name", "s.code", "s.faculty_id").
		Column("(SELECT COUNT(*) FROM subscriptions x WHERE x.target_type = 'SUBJECT' AND x.target_id = s.id)").
		Column("(SELECT COUNT(*) FROM documents d WHERE d.subject_id = s.id AND d.status = 'ACTIVE')").
		Column(sq.Expr("EXISTS (SELECT 1 FROM subscriptions x WHERE x.member_id::text = ? AND x.target_type = 'SUBJECT' AND x.target_id = s.id)", viewerID)).
		From("subjects s")
}

func scanSubject(row interface{ Scan(...any) error }) (*models.Subject, error) {
	s := &models.Subject{}
	err := row.Scan(&s.ID, &s.Name, &s.Code, &s.FacultyID, &s.FollowerCount, &s.DocumentCount, &s.IsSubscribed)
	return s, err
}

func (r *PostgresRepository) listSubjects(ctx context.Context, b sq.SelectBuilder) ([]models.Subject, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Subject{}
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// Subjects lists subjects by name, limited to facultyID when it is set.
func (r *PostgresRepository) Subjects(ctx context.Context, facultyID, viewerID string) ([]models.Subject, error) {
	b := r.selectSubjects(viewerID)
	if facultyID != "" {
		b = b.Where(sq.Eq{"s.faculty_id": facultyID})
	}
	return r.listSubjects(ctx, b.OrderBy("s.name"))
}

func (r *PostgresRepository) SubjectInfo(ctx context.Context, id, viewerID string) (*models.Subject, error) {
	query, args, err := r.selectSubjects(viewerID).Where(sq.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	s, err := scanSubject(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

// SearchSubjects matches keyword against subject names and codes.
func (r *PostgresRepository) SearchSubjects(ctx context.Context, keyword string, limit int) ([]models.Subject, error) {
	p := "%" + strings.TrimSpace(keyword) + "%"
	b := r.selectSubjects("").
		Where(sq.Or{sq.ILike{"s.name": p}, sq.ILike{"s.code": p}}).
		OrderBy("s.name").
		Limit(uint64(limit))
	return r.listSubjects(ctx, b)
}

func (r *PostgresRepository) FacultyExists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM faculties WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

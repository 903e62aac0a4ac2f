package documents

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
	"github.com/google/uuid"
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

func (r *PostgresRepository) selectDocuments() sq.SelectBuilder {
	return r.qb().
		Select("d.id", "d.title", "d.description", "d.file_name", "d.content_type", "d.size_bytes",
			"d.status", "d.uploader_id", "m.full_name", "d.faculty_id", "d.subject_id",
			"d.storage_key", "d.download_count", "d.thumbnail_url", "d.created_at").
		From("documents d").
		Join("members m ON m.id = d.uploader_id")
}

func scanDocument(row interface{ Scan(...any) error }) (*models.Document, error) {
	d := &models.Document{}
	err := row.Scan(&d.ID, &d.Title, &d.Description, &d.FileName, &d.ContentType, &d.SizeBytes,
		&d.Status, &d.UploaderID, &d.UploaderName, &d.FacultyID, &d.SubjectID,
		&d.StorageKey, &d.DownloadCount, &d.ThumbnailURL, &d.CreatedAt)
	return d, err
}

// likePattern wraps keyword for a substring ILIKE, escaping its wildcards.
func likePattern(keyword string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(keyword)) + "%"
}

func applyFilter(b sq.SelectBuilder, f models.DocumentFilter) sq.SelectBuilder {
	if f.Status != "" {
		b = b.Where(sq.Eq{"d.status": f.Status})
	}
	if f.FacultyID != "" {
		b = b.Where(sq.Eq{"d.faculty_id": f.FacultyID})
	}
	if f.SubjectID != "" {
		b = b.Where(sq.Eq{"d.subject_id": f.SubjectID})
	}
	if f.UploaderID != "" {
		b = b.Where(sq.Eq{"d.uploader_id": f.UploaderID})
	}
	if strings.TrimSpace(f.Keyword) != "" {
		p := likePattern(f.Keyword)
		b = b.Where(sq.Or{sq.ILike{"d.title": p}, sq.ILike{"d.description": p}})
	}
	return b
}

func (r *PostgresRepository) Create(ctx context.Context, d *models.Document) (*models.Document, error) {
	query :=
		`INSERT INTO documents (id, title, description, file_name, content_type, size_bytes,
		                        status, uploader_id, faculty_id, subject_id, storage_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at
		 `

	d.ID = uuid.NewString()
	if d.Status == "" {
		d.Status = models.DocumentPending
	}

	err := r.db.QueryRowContext(ctx, query,
		d.ID, d.Title, d.Description, d.FileName, d.ContentType, d.SizeBytes,
		d.Status, d.UploaderID, d.FacultyID, d.SubjectID, d.StorageKey).Scan(&d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

// GetByID returns the document in any status.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query, args, err := r.selectDocuments().Where(sq.Eq{"d.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	d, err := scanDocument(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) query(ctx context.Context, b sq.SelectBuilder) ([]models.Document, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) List(ctx context.Context, f models.DocumentFilter, page models.PageRequest) ([]models.Document, int, error) {
	countQuery, countArgs, err := applyFilter(r.qb().Select("COUNT(*)").From("documents d"), f).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	if total == 0 {
		return []models.Document{}, 0, nil
	}

	b := applyFilter(r.selectDocuments(), f).
		OrderBy("d.created_at DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset()))
	items, err := r.query(ctx, b)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresRepository) All(ctx context.Context, f models.DocumentFilter) ([]models.Document, error) {
	return r.query(ctx, applyFilter(r.selectDocuments(), f).OrderBy("d.created_at DESC"))
}

// TitleSuggestions returns distinct titles of active documents containing
// keyword, alphabetically.
func (r *PostgresRepository) TitleSuggestions(ctx context.Context, keyword string, limit int) ([]string, error) {
	query, args, err := r.qb().
		Select("DISTINCT d.title").
		From("documents d").
		Where(sq.Eq{"d.status": models.DocumentActive}).
		Where(sq.ILike{"d.title": likePattern(keyword)}).
		OrderBy("d.title").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status models.DocumentStatus) error {
	return r.exec(ctx, `UPDATE documents SET status = $1 WHERE id = $2`, status, id)
}

func (r *PostgresRepository) IncrementDownloads(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE documents SET download_count = download_count + 1 WHERE id = $1`, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
}

func (r *PostgresRepository) CountByStatus(ctx context.Context, status models.DocumentStatus) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE status = $1`, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

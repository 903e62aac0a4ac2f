package members

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/studyshare/internal/common"
	"github.com/dmitrijs2005/studyshare/internal/dbx"
	"github.com/dmitrijs2005/studyshare/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const memberColumns = `id, email, full_name, password_hash, bio, avatar_url, role, status, ban_status, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) qb() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func scanMember(row interface{ Scan(...any) error }) (*models.Member, error) {
	m := &models.Member{}
	err := row.Scan(&m.ID, &m.Email, &m.FullName, &m.PasswordHash, &m.Bio, &m.AvatarURL,
		&m.Role, &m.Status, &m.BanStatus, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// Create inserts m with a fresh id. A duplicate email yields
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, m *models.Member) (*models.Member, error) {
	query :=
		`INSERT INTO members (id, email, full_name, password_hash, role, status, ban_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	m.ID = uuid.NewString()
	if m.Role == "" {
		m.Role = models.RoleUser
	}
	if m.Status == "" {
		m.Status = models.MemberUnverified
	}
	if m.BanStatus == "" {
		m.BanStatus = models.BanStatusNone
	}

	err := r.db.QueryRowContext(ctx, query,
		m.ID, m.Email, m.FullName, m.PasswordHash, m.Role, m.Status, m.BanStatus).Scan(&m.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	return scanMember(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail matches case-insensitively.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE lower(email) = lower($1)`
	return scanMember(r.db.QueryRowContext(ctx, query, email))
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

func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status models.MemberStatus) error {
	return r.exec(ctx, `UPDATE members SET status = $1 WHERE id = $2`, status, id)
}

func (r *PostgresRepository) SetPasswordHash(ctx context.Context, id, hash string) error {
	return r.exec(ctx, `UPDATE members SET password_hash = $1 WHERE id = $2`, hash, id)
}

func (r *PostgresRepository) SetBanStatus(ctx context.Context, id string, status models.BanStatus) error {
	return r.exec(ctx, `UPDATE members SET ban_status = $1 WHERE id = $2`, status, id)
}

// UpdateProfile sets only the non-nil fields of upd.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) error {
	if upd.Empty() {
		return nil
	}
	b := r.qb().Update("members").Where(sq.Eq{"id": id})
	if upd.FullName != nil {
		b = b.Set("full_name", *upd.FullName)
	}
	if upd.Bio != nil {
		b = b.Set("bio", *upd.Bio)
	}
	if upd.AvatarURL != nil {
		b = b.Set("avatar_url", *upd.AvatarURL)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return r.exec(ctx, query, args...)
}

// Profile returns the member with follower, following and document counts.
// IsSubscribed reports whether viewerID follows the member.
func (r *PostgresRepository) Profile(ctx context.Context, id, viewerID string) (*models.MemberProfile, error) {
	query :=
		`SELECT m.id, m.email, m.full_name, m.bio, m.avatar_url, m.role, m.created_at,
		   (SELECT COUNT(*) FROM subscriptions s WHERE s.target_type = 'MEMBER' AND s.target_id = m.id),
		   (SELECT COUNT(*) FROM subscriptions s WHERE s.member_id = m.id),
		   (SELECT COUNT(*) FROM documents d WHERE d.uploader_id = m.id AND d.status = 'ACTIVE'),
		   EXISTS (SELECT 1 FROM subscriptions s
		           WHERE s.member_id::text = $2 AND s.target_type = 'MEMBER' AND s.target_id = m.id)
		 FROM members m
		 WHERE m.id = $1
		 `

	p := &models.MemberProfile{}
	err := r.db.QueryRowContext(ctx, query, id, viewerID).Scan(
		&p.ID, &p.Email, &p.FullName, &p.Bio, &p.AvatarURL, &p.Role, &p.CreatedAt,
		&p.FollowerCount, &p.FollowingCount, &p.DocumentCount, &p.IsSubscribed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

const adminMemberQuery = `SELECT m.id, m.email, m.full_name, m.role, m.ban_status, m.created_at,
	   (SELECT COUNT(*) FROM documents d WHERE d.uploader_id = m.id)
	 FROM members m`

func scanAdminMember(row interface{ Scan(...any) error }) (*models.AdminMember, error) {
	a := &models.AdminMember{}
	if err := row.Scan(&a.ID, &a.Email, &a.FullName, &a.Role, &a.BanStatus, &a.CreatedAt, &a.DocumentCount); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.AdminMember, error) {
	rows, err := r.db.QueryContext(ctx, adminMemberQuery+` ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.AdminMember{}
	for rows.Next() {
		a, err := scanAdminMember(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) AdminGet(ctx context.Context, id string) (*models.AdminMember, error) {
	a, err := scanAdminMember(r.db.QueryRowContext(ctx, adminMemberQuery+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

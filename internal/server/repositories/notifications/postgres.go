package notifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studyshare/internal/common"
	"github.com/dmitrijs2005/studyshare/internal/dbx"
	"github.com/dmitrijs2005/studyshare/internal/server/models"
	"github.com/google/uuid"
)

const notificationColumns = `id, member_id, title, body, kind, target_id, is_read, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanNotification(row interface{ Scan(...any) error }) (*models.Notification, error) {
	n := &models.Notification{}
	err := row.Scan(&n.ID, &n.MemberID, &n.Title, &n.Body, &n.Kind, &n.TargetID, &n.IsRead, &n.CreatedAt)
	return n, err
}

func (r *PostgresRepository) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	query :=
		`INSERT INTO notifications (id, member_id, title, body, kind, target_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	n.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, query, n.ID, n.MemberID, n.Title, n.Body, n.Kind, n.TargetID).Scan(&n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) List(ctx context.Context, memberID string, page models.PageRequest) ([]models.Notification, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE member_id = $1`, memberID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	if total == 0 {
		return []models.Notification{}, 0, nil
	}

	query :=
		`SELECT ` + notificationColumns + ` FROM notifications
		 WHERE member_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3
		 `

	rows, err := r.db.QueryContext(ctx, query, memberID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return out, total, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, id, memberID string) (*models.Notification, error) {
	query :=
		`UPDATE notifications SET is_read = TRUE
		 WHERE id = $1 AND member_id = $2
		 RETURNING ` + notificationColumns

	n, err := scanNotification(r.db.QueryRowContext(ctx, query, id, memberID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// UpsertDevice registers d.Token for d.MemberID. A token seen before moves
// to the new member and platform.
func (r *PostgresRepository) UpsertDevice(ctx context.Context, d *models.DeviceToken) error {
	query :=
		`INSERT INTO device_tokens (token, member_id, platform, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (token) DO UPDATE
		 SET member_id = EXCLUDED.member_id, platform = EXCLUDED.platform, updated_at = now()
		 `

	if _, err := r.db.ExecContext(ctx, query, d.Token, d.MemberID, d.Platform); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Devices(ctx context.Context, memberID string) ([]models.DeviceToken, error) {
	query := `SELECT token, member_id, platform, updated_at FROM device_tokens WHERE member_id = $1 ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.DeviceToken{}
	for rows.Next() {
		var d models.DeviceToken
		if err := rows.Scan(&d.Token, &d.MemberID, &d.Platform, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

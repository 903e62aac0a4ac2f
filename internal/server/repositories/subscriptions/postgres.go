package subscriptions

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/studyshare/internal/dbx"
	"github.com/dmitrijs2005/studyshare/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Subscribe(ctx context.Context, memberID string, target models.Target) error {
	query :=
		`INSERT INTO subscriptions (member_id, target_type, target_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (member_id, target_type, target_id) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, memberID, target.Type, target.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Unsubscribe(ctx context.Context, memberID string, target models.Target) error {
	query := `DELETE FROM subscriptions WHERE member_id = $1 AND target_type = $2 AND target_id = $3`

	if _, err := r.db.ExecContext(ctx, query, memberID, target.Type, target.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Followers(ctx context.Context, targets ...models.Target) ([]string, error) {
	if len(targets) == 0 {
		return []string{}, nil
	}

	or := sq.Or{}
	for _, t := range targets {
		or = append(or, sq.Eq{"target_type": t.Type, "target_id": t.ID})
	}
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("DISTINCT member_id").
		From("subscriptions").
		Where(or).
		OrderBy("member_id").
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
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

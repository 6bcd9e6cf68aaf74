package magiclinks

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/waulty/internal/common"
	"github.com/dmitrijs2005/waulty/internal/dbx"
	"github.com/dmitrijs2005/waulty/internal/server/models"
)

var columns = []string{"id", "token", "email", "context_type", "context_id", "used", "expires_at", "created_at"}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, l *models.MagicLink) (*models.MagicLink, error) {
	query := `
		INSERT INTO magic_links (token, email, context_type, context_id, used, expires_at)
		VALUES ($1, $2, $3, $4, false, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, l.Token, l.Email, l.ContextType, l.ContextID, l.ExpiresAt).
		Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	l.Used = false
	return l, nil
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*models.MagicLink, error) {
	return dbx.Get[models.MagicLink](ctx, r.db,
		dbx.SQL.Select(columns...).From("magic_links").Where(sq.Eq{"token": token}))
}

func (r *PostgresRepository) Claim(ctx context.Context, id string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE magic_links SET used = true WHERE id = $1 AND used = false AND expires_at > $2`, id, now)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res, common.ErrInvalidLink)
}

func (r *PostgresRepository) InvalidateForContext(ctx context.Context, ct models.ContextType, contextID string) (int64, error) {
	return dbx.Exec(ctx, r.db, dbx.SQL.Update("magic_links").
		Set("used", true).
		Where(sq.Eq{"context_type": ct, "context_id": contextID, "used": false}))
}

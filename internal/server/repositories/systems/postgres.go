package systems

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/waulty/internal/common"
	"github.com/dmitrijs2005/waulty/internal/dbx"
	"github.com/dmitrijs2005/waulty/internal/server/models"
	"github.com/dmitrijs2005/waulty/internal/server/workflow"
)

var columns = []string{
	"id", "name", "description", "owner_name", "owner_email", "owner_username",
	"manager_name", "manager_username", "resource_group", "status", "is_archived",
	"user_id", "created_at", "updated_at",
}

var openPointsExpr = `(SELECT count(*) FROM points p WHERE p.system_id = systems.id` +
	` AND p.status NOT IN (` + quoteStatuses(workflow.ClosedPointStatuses) + `)) AS open_points`

// quoteStatuses renders enum values as SQL string literals. The values are
// fixed identifiers, never user input.
func quoteStatuses(statuses []models.PointStatus) string {
	quoted := make([]string, len(statuses))
	for i, s := range statuses {
		quoted[i] = "'" + string(s) + "'"
	}
	return strings.Join(quoted, ", ")
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.System) (*models.System, error) {
	b := dbx.SQL.Insert("systems").
		Columns("name", "description", "owner_name", "owner_email", "owner_username",
			"manager_name", "manager_username", "resource_group", "status", "user_id").
		Values(s.Name, s.Description, s.OwnerName, s.OwnerEmail, s.OwnerUsername,
			s.ManagerName, s.ManagerUsername, s.ResourceGroup, s.Status, s.UserID).
		Suffix("RETURNING id, is_archived, created_at, updated_at")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.IsArchived, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.System, error) {
	return dbx.Get[models.System](ctx, r.db,
		dbx.SQL.Select(columns...).From("systems").Where(sq.Eq{"id": id}))
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, includeArchived bool) ([]*models.System, error) {
	b := dbx.SQL.Select(columns...).Column(openPointsExpr).
		From("systems").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")
	if !includeArchived {
		b = b.Where(sq.Eq{"is_archived": false})
	}
	return dbx.Select[models.System](ctx, r.db, b)
}

func (r *PostgresRepository) Update(ctx context.Context, id string, f models.SystemFields) (*models.System, error) {
	b := dbx.SQL.Update("systems")
	if f.Name != nil {
		b = b.Set("name", *f.Name)
	}
	if f.Description != nil {
		b = b.Set("description", *f.Description)
	}
	if f.OwnerName != nil {
		b = b.Set("owner_name", *f.OwnerName)
	}
	if f.OwnerEmail != nil {
		b = b.Set("owner_email", *f.OwnerEmail)
	}
	if f.OwnerUsername != nil {
		b = b.Set("owner_username", *f.OwnerUsername)
	}
	if f.ManagerName != nil {
		b = b.Set("manager_name", *f.ManagerName)
	}
	if f.ManagerUsername != nil {
		b = b.Set("manager_username", *f.ManagerUsername)
	}
	if f.ResourceGroup != nil {
		b = b.Set("resource_group", *f.ResourceGroup)
	}
	if f.Status != nil {
		b = b.Set("status", *f.Status)
	}
	return r.update(ctx, id, b)
}

func (r *PostgresRepository) SetArchived(ctx context.Context, id string, archived bool) (*models.System, error) {
	return r.update(ctx, id, dbx.SQL.Update("systems").Set("is_archived", archived))
}

func (r *PostgresRepository) update(ctx context.Context, id string, b sq.UpdateBuilder) (*models.System, error) {
	b = b.Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", "))
	return dbx.Get[models.System](ctx, r.db, b)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	n, err := dbx.Exec(ctx, r.db, dbx.SQL.Delete("systems").Where(sq.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

package upgrades

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/waulty/internal/common"
	"github.com/dmitrijs2005/waulty/internal/dbx"
	"github.com/dmitrijs2005/waulty/internal/server/models"
)

var columns = []string{
	"id", "system_id", "version", "title", "description", "planned_date",
	"downtime", "status", "decision_date", "created_at",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, u models.NewUpgrade) (*models.Upgrade, error) {
	b := dbx.SQL.Insert("upgrades").
		Columns("system_id", "version", "title", "description", "planned_date", "downtime", "status").
		Values(u.SystemID, u.Version, u.Title, u.Description, u.PlannedDate, u.Downtime, models.UpgradePlanned).
		Suffix("RETURNING " + strings.Join(columns, ", "))
	return dbx.Get[models.Upgrade](ctx, r.db, b)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Upgrade, error) {
	return dbx.Get[models.Upgrade](ctx, r.db,
		dbx.SQL.Select(columns...).From("upgrades").Where(sq.Eq{"id": id}))
}

func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Upgrade, error) {
	return dbx.Get[models.Upgrade](ctx, r.db,
		dbx.SQL.Select(columns...).From("upgrades").Where(sq.Eq{"id": id}).Suffix("FOR UPDATE"))
}

func (r *PostgresRepository) ListBySystem(ctx context.Context, systemID string) ([]*models.Upgrade, error) {
	return dbx.Select[models.Upgrade](ctx, r.db,
		dbx.SQL.Select(columns...).From("upgrades").
			Where(sq.Eq{"system_id": systemID}).
			OrderBy("planned_date DESC NULLS LAST"))
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd models.UpgradeUpdate) (*models.Upgrade, error) {
	b := dbx.SQL.Update("upgrades")
	n := 0
	set := func(col string, v any) {
		b = b.Set(col, v)
		n++
	}
	if upd.Version != nil {
		set("version", *upd.Version)
	}
	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.PlannedDate != nil {
		set("planned_date", *upd.PlannedDate)
	}
	if upd.Downtime != nil {
		set("downtime", *upd.Downtime)
	}
	if upd.Status != nil {
		set("status", *upd.Status)
	}
	if upd.DecisionDate != nil {
		set("decision_date", *upd.DecisionDate)
	}
	if n == 0 {
		return r.GetByID(ctx, id)
	}

	return dbx.Get[models.Upgrade](ctx, r.db,
		b.Where(sq.Eq{"id": id}).Suffix("RETURNING "+strings.Join(columns, ", ")))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	n, err := dbx.Exec(ctx, r.db, dbx.SQL.Delete("upgrades").Where(sq.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

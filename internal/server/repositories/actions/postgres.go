package actions

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/waulty/internal/common"
	"github.com/dmitrijs2005/waulty/internal/dbx"
	"github.com/dmitrijs2005/waulty/internal/server/models"
)

var columns = []string{
	"id", "point_id", "title", "description", "notes", "assigned_to",
	"start_date", "due_date", "status", "created_at",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a models.NewAction) (*models.Action, error) {
	b := dbx.SQL.Insert("actions").
		Columns("point_id", "title", "assigned_to", "start_date", "due_date", "status").
		Values(a.PointID, a.Title, a.AssignedTo, a.StartDate, a.DueDate, models.ActionPending).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	out, err := dbx.Get[models.Action](ctx, r.db, b)
	if err != nil && dbx.IsUniqueViolation(err) {
		return nil, common.ErrorAlreadyExists
	}
	return out, err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Action, error) {
	return dbx.Get[models.Action](ctx, r.db,
		dbx.SQL.Select(columns...).From("actions").Where(sq.Eq{"id": id}))
}

func (r *PostgresRepository) ListByPointIDs(ctx context.Context, pointIDs []string) ([]*models.Action, error) {
	if len(pointIDs) == 0 {
		return []*models.Action{}, nil
	}
	return dbx.Select[models.Action](ctx, r.db,
		dbx.SQL.Select(columns...).From("actions").Where(sq.Eq{"point_id": pointIDs}))
}

type openAction struct {
	models.Action
	PointSystemID string             `db:"point_system_id"`
	PointTitle    string             `db:"point_title"`
	PointStatus   models.PointStatus `db:"point_status"`
}

func (r *PostgresRepository) ListOpenBySystem(ctx context.Context, systemID string) ([]*models.Action, error) {
	cols := make([]string, 0, len(columns)+3)
	for _, c := range columns {
		cols = append(cols, "a."+c)
	}
	cols = append(cols, "p.system_id AS point_system_id", "p.title AS point_title", "p.status AS point_status")

	rows, err := dbx.Select[openAction](ctx, r.db, dbx.SQL.Select(cols...).
		From("actions a").
		Join("points p ON p.id = a.point_id").
		Where(sq.Eq{"p.system_id": systemID}).
		Where(sq.NotEq{"a.status": models.ActionDone}).
		OrderBy("a.due_date ASC NULLS LAST"))
	if err != nil {
		return nil, err
	}

	out := make([]*models.Action, 0, len(rows))
	for _, row := range rows {
		a := row.Action
		a.Point = &models.Point{ID: a.PointID, SystemID: row.PointSystemID, Title: row.PointTitle, Status: row.PointStatus}
		out = append(out, &a)
	}
	return out, nil
}

// Update writes the non-nil fields of upd.
func (r *PostgresRepository) Update(ctx context.Context, id string, upd models.ActionUpdate) (*models.Action, error) {
	b := dbx.SQL.Update("actions")
	n := 0
	set := func(col string, v any) {
		b = b.Set(col, v)
		n++
	}
	if upd.Status != nil {
		set("status", *upd.Status)
	}
	if upd.Notes != nil {
		set("notes", *upd.Notes)
	}
	if upd.AssignedTo != nil {
		set("assigned_to", *upd.AssignedTo)
	}
	if upd.DueDate != nil {
		set("due_date", *upd.DueDate)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if n == 0 {
		return r.GetByID(ctx, id)
	}

	return dbx.Get[models.Action](ctx, r.db,
		b.Where(sq.Eq{"id": id}).Suffix("RETURNING "+strings.Join(columns, ", ")))
}

package points

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/waulty/internal/common"
	"github.com/dmitrijs2005/waulty/internal/dbx"
	"github.com/dmitrijs2005/waulty/internal/server/models"
)

// Columns is the select list matching models.Point.
var Columns = []string{
	"id", "system_id", "meeting_id", "title", "description", "origin", "priority",
	"status", "relevance", "feasibility", "benefit", "risk", "cost_estimate",
	"manager_comment", "decision_date", "created_at",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p models.NewPoint) (*models.Point, error) {
	b := dbx.SQL.Insert("points").
		Columns("system_id", "meeting_id", "title", "description", "origin", "priority", "status").
		Values(p.SystemID, p.MeetingID, p.Title, p.Description, p.Origin, p.Priority, models.PointNew).
		Suffix("RETURNING " + strings.Join(Columns, ", "))
	return dbx.Get[models.Point](ctx, r.db, b)
}

func (r *PostgresRepository) selectPoints() sq.SelectBuilder {
	return dbx.SQL.Select(Columns...).From("points")
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Point, error) {
	return dbx.Get[models.Point](ctx, r.db, r.selectPoints().Where(sq.Eq{"id": id}))
}

func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Point, error) {
	return dbx.Get[models.Point](ctx, r.db, r.selectPoints().Where(sq.Eq{"id": id}).Suffix("FOR UPDATE"))
}

func (r *PostgresRepository) ListBySystem(ctx context.Context, systemID string) ([]*models.Point, error) {
	return dbx.Select[models.Point](ctx, r.db,
		r.selectPoints().Where(sq.Eq{"system_id": systemID}).OrderBy("created_at DESC"))
}

func (r *PostgresRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*models.Point, error) {
	return dbx.Select[models.Point](ctx, r.db,
		r.selectPoints().Where(sq.Eq{"meeting_id": meetingID}).OrderBy("created_at DESC"))
}

// Update writes the non-nil fields of upd. An empty update returns the
// current row unchanged.
func (r *PostgresRepository) Update(ctx context.Context, id string, upd models.PointUpdate) (*models.Point, error) {
	if upd.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	b := dbx.SQL.Update("points")
	set := func(col string, v any) { b = b.Set(col, v) }

	if upd.MeetingID != nil {
		set("meeting_id", nullIfEmpty(*upd.MeetingID))
	}
	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.Origin != nil {
		set("origin", *upd.Origin)
	}
	if upd.Priority != nil {
		set("priority", *upd.Priority)
	}
	if upd.Status != nil {
		set("status", *upd.Status)
	}
	if upd.Relevance != nil {
		set("relevance", *upd.Relevance)
	}
	if upd.Feasibility != nil {
		set("feasibility", *upd.Feasibility)
	}
	if upd.Benefit != nil {
		set("benefit", *upd.Benefit)
	}
	if upd.Risk != nil {
		set("risk", *upd.Risk)
	}
	if upd.CostEstimate != nil {
		set("cost_estimate", *upd.CostEstimate)
	}
	if upd.ManagerComment != nil {
		set("manager_comment", *upd.ManagerComment)
	}
	if upd.DecisionDate != nil {
		set("decision_date", *upd.DecisionDate)
	}

	b = b.Where(sq.Eq{"id": id}).Suffix("RETURNING " + strings.Join(Columns, ", "))
	p, err := dbx.Get[models.Point](ctx, r.db, b)
	if err != nil {
		return nil, fmt.Errorf("update point: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	n, err := dbx.Exec(ctx, r.db, dbx.SQL.Delete("points").Where(sq.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

package dashboard

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/waulty/internal/dbx"
	"github.com/dmitrijs2005/waulty/internal/server/models"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/points"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// owned restricts b, which must join systems as s, to the caller's live systems.
func owned(b sq.SelectBuilder, userID string) sq.SelectBuilder {
	return b.Where(sq.Eq{"s.user_id": userID, "s.is_archived": false})
}

func (r *PostgresRepository) CountActiveSystems(ctx context.Context, userID string) (int, error) {
	return dbx.Count(ctx, r.db, dbx.SQL.Select("count(*)").From("systems").
		Where(sq.Eq{"user_id": userID, "status": models.SystemActive, "is_archived": false}))
}

func (r *PostgresRepository) CountPoints(ctx context.Context, userID string, statuses []models.PointStatus, since *time.Time) (int, error) {
	b := owned(dbx.SQL.Select("count(*)").From("points p").
		Join("systems s ON s.id = p.system_id"), userID).
		Where(sq.Eq{"p.status": statuses})
	if since != nil {
		b = b.Where(sq.GtOrEq{"p.created_at": *since})
	}
	return dbx.Count(ctx, r.db, b)
}

func (r *PostgresRepository) CountUpgrades(ctx context.Context, userID string, statuses []models.UpgradeStatus) (int, error) {
	b := owned(dbx.SQL.Select("count(*)").From("upgrades u").
		Join("systems s ON s.id = u.system_id"), userID).
		Where(sq.Eq{"u.status": statuses})
	return dbx.Count(ctx, r.db, b)
}

type meetingRow struct {
	models.Meeting
	SystemName string `db:"system_name"`
}

func (r *PostgresRepository) UpcomingMeetings(ctx context.Context, userID string, from time.Time, limit uint64) ([]*models.Meeting, error) {
	b := owned(dbx.SQL.Select(
		"m.id", "m.system_id", "m.title", "m.date", "m.agenda", "m.summary", "m.attendees",
		"s.name AS system_name").
		From("meetings m").
		Join("systems s ON s.id = m.system_id"), userID).
		Where(sq.GtOrEq{"m.date": from}).
		OrderBy("m.date ASC").
		Limit(limit)

	rows, err := dbx.Select[meetingRow](ctx, r.db, b)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Meeting, 0, len(rows))
	for _, row := range rows {
		m := row.Meeting
		m.System = &models.SystemRef{ID: m.SystemID, Name: row.SystemName}
		out = append(out, &m)
	}
	return out, nil
}

type pointRow struct {
	models.Point
	SystemName string `db:"system_name"`
}

func (r *PostgresRepository) RecentPoints(ctx context.Context, userID string, limit uint64) ([]*models.Point, error) {
	cols := make([]string, 0, len(points.Columns)+1)
	for _, c := range points.Columns {
		cols = append(cols, "p."+c)
	}
	cols = append(cols, "s.name AS system_name")

	b := owned(dbx.SQL.Select(cols...).
		From("points p").
		Join("systems s ON s.id = p.system_id"), userID).
		OrderBy("p.created_at DESC").
		Limit(limit)

	rows, err := dbx.Select[pointRow](ctx, r.db, b)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Point, 0, len(rows))
	for _, row := range rows {
		p := row.Point
		p.System = &models.SystemRef{ID: p.SystemID, Name: row.SystemName}
		out = append(out, &p)
	}
	return out, nil
}

package meetings

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/waulty/internal/common"
	"github.com/dmitrijs2005/waulty/internal/dbx"
	"github.com/dmitrijs2005/waulty/internal/server/models"
)

var columns = []string{"id", "system_id", "title", "date", "agenda", "summary", "attendees"}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m models.NewMeeting) (*models.Meeting, error) {
	b := dbx.SQL.Insert("meetings").
		Columns("system_id", "title", "date", "agenda", "attendees").
		Values(m.SystemID, m.Title, m.Date, m.Agenda, models.Attendees{}).
		Suffix("RETURNING " + strings.Join(columns, ", "))
	return dbx.Get[models.Meeting](ctx, r.db, b)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Meeting, error) {
	return dbx.Get[models.Meeting](ctx, r.db,
		dbx.SQL.Select(columns...).From("meetings").Where(sq.Eq{"id": id}))
}

func (r *PostgresRepository) ListBySystem(ctx context.Context, systemID string) ([]*models.Meeting, error) {
	return dbx.Select[models.Meeting](ctx, r.db,
		dbx.SQL.Select(columns...).From("meetings").
			Where(sq.Eq{"system_id": systemID}).
			OrderBy("date DESC"))
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd models.MeetingUpdate) (*models.Meeting, error) {
	b := dbx.SQL.Update("meetings")
	n := 0
	set := func(col string, v any) {
		b = b.Set(col, v)
		n++
	}
	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.Date != nil {
		set("date", *upd.Date)
	}
	if upd.Agenda != nil {
		set("agenda", *upd.Agenda)
	}
	if upd.Summary != nil {
		set("summary", *upd.Summary)
	}
	if upd.Attendees != nil {
		set("attendees", *upd.Attendees)
	}
	if n == 0 {
		return r.GetByID(ctx, id)
	}

	return dbx.Get[models.Meeting](ctx, r.db,
		b.Where(sq.Eq{"id": id}).Suffix("RETURNING "+strings.Join(columns, ", ")))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	n, err := dbx.Exec(ctx, r.db, dbx.SQL.Delete("meetings").Where(sq.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

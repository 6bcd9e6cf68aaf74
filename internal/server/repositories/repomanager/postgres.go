// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/waulty/internal/dbx"
	"github.com/dmitrijs2005/waulty/internal/server/migrations"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/actions"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/dashboard"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/magiclinks"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/meetings"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/points"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/systems"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/upgrades"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Systems(db dbx.DBTX) systems.Repository {
	return systems.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Points(db dbx.DBTX) points.Repository {
	return points.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Actions(db dbx.DBTX) actions.Repository {
	return actions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Upgrades(db dbx.DBTX) upgrades.Repository {
	return upgrades.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Meetings(db dbx.DBTX) meetings.Repository {
	return meetings.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) MagicLinks(db dbx.DBTX) magiclinks.Repository {
	return magiclinks.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Dashboard(db dbx.DBTX) dashboard.Repository {
	return dashboard.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded goose migrations to db.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

// Package repomanager vends per-entity repositories bound to a DBTX so that
// services can use the same repositories inside and outside transactions.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/waulty/internal/dbx"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/actions"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/dashboard"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/magiclinks"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/meetings"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/points"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/systems"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/upgrades"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Systems(db dbx.DBTX) systems.Repository
	Points(db dbx.DBTX) points.Repository
	Actions(db dbx.DBTX) actions.Repository
	Upgrades(db dbx.DBTX) upgrades.Repository
	Meetings(db dbx.DBTX) meetings.Repository
	MagicLinks(db dbx.DBTX) magiclinks.Repository
	Dashboard(db dbx.DBTX) dashboard.Repository
}

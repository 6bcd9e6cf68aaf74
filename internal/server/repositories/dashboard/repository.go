// Package dashboard declares the read-only aggregate queries behind the
// dashboard. Every query is scoped to the non-archived systems of one user.
package dashboard

import (
	"context"
	"time"

	"github.com/dmitrijs2005/waulty/internal/server/models"
)

type Repository interface {
	CountActiveSystems(ctx context.Context, userID string) (int, error)
	// CountPoints counts points in any of statuses. A non-nil since limits it
	// to points created at or after that instant.
	CountPoints(ctx context.Context, userID string, statuses []models.PointStatus, since *time.Time) (int, error)
	CountUpgrades(ctx context.Context, userID string, statuses []models.UpgradeStatus) (int, error)
	UpcomingMeetings(ctx context.Context, userID string, from time.Time, limit uint64) ([]*models.Meeting, error)
	RecentPoints(ctx context.Context, userID string, limit uint64) ([]*models.Point, error)
}

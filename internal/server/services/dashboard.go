package services

import (
	"context"
	"database/sql"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/waulty/internal/server/models"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/repomanager"
)

const dashboardListSize = 5

type DashboardService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewDashboardService(db *sql.DB, m repomanager.RepositoryManager) *DashboardService {
	return &DashboardService{db: db, repomanager: m, now: time.Now}
}

// Get summarises the caller's non-archived systems. The queries are
// independent and run concurrently; the first failure cancels the rest.
func (s *DashboardService) Get(ctx context.Context, userID string) (*models.Dashboard, error) {
	repo := s.repomanager.Dashboard(s.db)
	now := s.now()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	var (
		d               models.Dashboard
		pendingPoints   int
		pendingUpgrades int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.SystemCount, err = repo.CountActiveSystems(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		pendingPoints, err = repo.CountPoints(ctx, userID,
			[]models.PointStatus{models.PointRecommended, models.PointPendingApproval}, nil)
		return err
	})
	g.Go(func() (err error) {
		pendingUpgrades, err = repo.CountUpgrades(ctx, userID,
			[]models.UpgradeStatus{models.UpgradePendingApproval})
		return err
	})
	g.Go(func() (err error) {
		d.ActivePoints, err = repo.CountPoints(ctx, userID,
			[]models.PointStatus{models.PointApproved, models.PointInProgress}, nil)
		return err
	})
	g.Go(func() (err error) {
		d.CompletedPoints, err = repo.CountPoints(ctx, userID,
			[]models.PointStatus{models.PointDone}, &yearStart)
		return err
	})
	g.Go(func() (err error) {
		d.UpcomingMeetings, err = repo.UpcomingMeetings(ctx, userID, now, dashboardListSize)
		return err
	})
	g.Go(func() (err error) {
		d.RecentActivity, err = repo.RecentPoints(ctx, userID, dashboardListSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.PendingDecisions = pendingPoints + pendingUpgrades
	if d.UpcomingMeetings == nil {
		d.UpcomingMeetings = []*models.Meeting{}
	}
	if d.RecentActivity == nil {
		d.RecentActivity = []*models.Point{}
	}
	return &d, nil
}

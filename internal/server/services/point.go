package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/waulty/internal/common"
	"github.com/dmitrijs2005/waulty/internal/server/models"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/waulty/internal/server/workflow"
)

type PointService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	policy      workflow.Policy
}

func NewPointService(db *sql.DB, m repomanager.RepositoryManager, policy workflow.Policy) *PointService {
	return &PointService{db: db, repomanager: m, policy: policy}
}

// Create raises a new point in status NEW.
func (s *PointService) Create(ctx context.Context, np models.NewPoint) (*models.Point, error) {
	if np.SystemID == "" || strings.TrimSpace(np.Title) == "" || np.Description == "" || np.Origin == "" {
		return nil, fmt.Errorf("%w: systemId, title, description and origin are required", common.ErrorValidation)
	}
	if !np.Priority.IsValid() {
		return nil, fmt.Errorf("%w: unknown priority %q", common.ErrorValidation, np.Priority)
	}
	if np.MeetingID != nil && *np.MeetingID == "" {
		np.MeetingID = nil
	}

	if _, err := s.repomanager.Systems(s.db).GetByID(ctx, np.SystemID); err != nil {
		return nil, fmt.Errorf("system %s: %w", np.SystemID, err)
	}
	if np.MeetingID != nil {
		if _, err := s.repomanager.Meetings(s.db).GetByID(ctx, *np.MeetingID); err != nil {
			return nil, fmt.Errorf("meeting %s: %w", *np.MeetingID, err)
		}
	}

	return s.repomanager.Points(s.db).Create(ctx, np)
}

// Update applies a partial update. A new status is checked against the
// workflow policy.
func (s *PointService) Update(ctx context.Context, id string, upd models.PointUpdate) (*models.Point, error) {
	if upd.Priority != nil && !upd.Priority.IsValid() {
		return nil, fmt.Errorf("%w: unknown priority %q", common.ErrorValidation, *upd.Priority)
	}
	if upd.Feasibility != nil && !upd.Feasibility.IsValid() {
		return nil, fmt.Errorf("%w: unknown feasibility %q", common.ErrorValidation, *upd.Feasibility)
	}
	if upd.Status != nil && !upd.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown point status %q", common.ErrorValidation, *upd.Status)
	}

	repo := s.repomanager.Points(s.db)
	if upd.Status != nil {
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.policy.ValidatePoint(current.Status, *upd.Status); err != nil {
			return nil, err
		}
	}
	return repo.Update(ctx, id, upd)
}

func (s *PointService) Delete(ctx context.Context, id string) error {
	repo := s.repomanager.Points(s.db)
	if s.policy == workflow.Strict {
		p, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.policy.CanDeletePoint(p.Status); err != nil {
			return err
		}
	}
	return repo.Delete(ctx, id)
}

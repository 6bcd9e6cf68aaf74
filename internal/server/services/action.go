package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/waulty/internal/common"
	"github.com/dmitrijs2005/waulty/internal/dbx"
	"github.com/dmitrijs2005/waulty/internal/server/models"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/waulty/internal/server/workflow"
)

// ActionService manages actions and keeps the parent point's status in step
// with them. Each action write and its point cascade share one transaction.
type ActionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	policy      workflow.Policy
}

func NewActionService(db *sql.DB, m repomanager.RepositoryManager, policy workflow.Policy) *ActionService {
	return &ActionService{db: db, repomanager: m, policy: policy}
}

// Create starts work on a point. A point can have only one action.
func (s *ActionService) Create(ctx context.Context, na models.NewAction) (*models.Action, error) {
	if na.PointID == "" || strings.TrimSpace(na.Title) == "" {
		return nil, fmt.Errorf("%w: pointId and title are required", common.ErrorValidation)
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Action, error) {
		points := s.repomanager.Points(tx)
		p, err := points.GetByIDForUpdate(ctx, na.PointID)
		if err != nil {
			return nil, fmt.Errorf("point %s: %w", na.PointID, err)
		}
		if err := s.policy.CanStartAction(p.Status); err != nil {
			return nil, err
		}

		a, err := s.repomanager.Actions(tx).Create(ctx, na)
		if err != nil {
			return nil, err
		}

		if next := workflow.PointStatusOnActionCreated(p.Status); next != p.Status {
			if _, err := points.Update(ctx, p.ID, models.PointUpdate{Status: &next}); err != nil {
				return nil, err
			}
		}
		return a, nil
	})
}

// Update edits an action. When the status is set, the parent point follows:
// DONE closes the point, anything else keeps it in progress.
func (s *ActionService) Update(ctx context.Context, id string, upd models.ActionUpdate) (*models.Action, error) {
	if upd.Status != nil && !upd.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown action status %q", common.ErrorValidation, *upd.Status)
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Action, error) {
		actions := s.repomanager.Actions(tx)
		if upd.Status != nil {
			current, err := actions.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if err := s.policy.ValidateAction(current.Status, *upd.Status); err != nil {
				return nil, err
			}
		}

		a, err := actions.Update(ctx, id, upd)
		if err != nil {
			return nil, err
		}

		if upd.Status != nil {
			next := workflow.PointStatusForAction(a.Status)
			if _, err := s.repomanager.Points(tx).Update(ctx, a.PointID, models.PointUpdate{Status: &next}); err != nil {
				return nil, err
			}
		}
		return a, nil
	})
}

// ListOpenBySystem returns the unfinished actions of a system by due date.
func (s *ActionService) ListOpenBySystem(ctx context.Context, systemID string) ([]*models.Action, error) {
	return s.repomanager.Actions(s.db).ListOpenBySystem(ctx, systemID)
}

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

type UpgradeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	policy      workflow.Policy
}

func NewUpgradeService(db *sql.DB, m repomanager.RepositoryManager, policy workflow.Policy) *UpgradeService {
	return &UpgradeService{db: db, repomanager: m, policy: policy}
}

// Create plans an upgrade in status PLANNED.
func (s *UpgradeService) Create(ctx context.Context, nu models.NewUpgrade) (*models.Upgrade, error) {
	if nu.SystemID == "" || strings.TrimSpace(nu.Version) == "" || strings.TrimSpace(nu.Title) == "" {
		return nil, fmt.Errorf("%w: systemId, version and title are required", common.ErrorValidation)
	}
	if _, err := s.repomanager.Systems(s.db).GetByID(ctx, nu.SystemID); err != nil {
		return nil, fmt.Errorf("system %s: %w", nu.SystemID, err)
	}
	return s.repomanager.Upgrades(s.db).Create(ctx, nu)
}

func (s *UpgradeService) Update(ctx context.Context, id string, upd models.UpgradeUpdate) (*models.Upgrade, error) {
	repo := s.repomanager.Upgrades(s.db)
	if upd.Status != nil {
		if !upd.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown upgrade status %q", common.ErrorValidation, *upd.Status)
		}
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.policy.ValidateUpgrade(current.Status, *upd.Status); err != nil {
			return nil, err
		}
	}
	return repo.Update(ctx, id, upd)
}

func (s *UpgradeService) Delete(ctx context.Context, id string) error {
	return s.repomanager.Upgrades(s.db).Delete(ctx, id)
}

// Package upgrades declares the repository contract for system Upgrades.
package upgrades

import (
	"context"

	"github.com/dmitrijs2005/waulty/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, u models.NewUpgrade) (*models.Upgrade, error)
	GetByID(ctx context.Context, id string) (*models.Upgrade, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Upgrade, error)
	ListBySystem(ctx context.Context, systemID string) ([]*models.Upgrade, error)
	Update(ctx context.Context, id string, upd models.UpgradeUpdate) (*models.Upgrade, error)
	Delete(ctx context.Context, id string) error
}

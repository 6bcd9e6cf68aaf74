// Package systems declares the repository contract for governed systems.
package systems

import (
	"context"

	"github.com/dmitrijs2005/waulty/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.System) (*models.System, error)
	GetByID(ctx context.Context, id string) (*models.System, error)
	// ListByUser returns the systems owned by userID, newest first, each with
	// its count of open points. Archived systems are included on request.
	ListByUser(ctx context.Context, userID string, includeArchived bool) ([]*models.System, error)
	Update(ctx context.Context, id string, f models.SystemFields) (*models.System, error)
	SetArchived(ctx context.Context, id string, archived bool) (*models.System, error)
	Delete(ctx context.Context, id string) error
}

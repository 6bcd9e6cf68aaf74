// Package points declares the repository contract for Points.
package points

import (
	"context"

	"github.com/dmitrijs2005/waulty/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p models.NewPoint) (*models.Point, error)
	GetByID(ctx context.Context, id string) (*models.Point, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Point, error)
	ListBySystem(ctx context.Context, systemID string) ([]*models.Point, error)
	ListByMeeting(ctx context.Context, meetingID string) ([]*models.Point, error)
	Update(ctx context.Context, id string, upd models.PointUpdate) (*models.Point, error)
	Delete(ctx context.Context, id string) error
}

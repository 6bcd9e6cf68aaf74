// Package actions declares the repository contract for Actions.
package actions

import (
	"context"

	"github.com/dmitrijs2005/waulty/internal/server/models"
)

type Repository interface {
	// Create returns common.ErrorAlreadyExists when the Point already has an
	// Action.
	Create(ctx context.Context, a models.NewAction) (*models.Action, error)
	GetByID(ctx context.Context, id string) (*models.Action, error)
	ListByPointIDs(ctx context.Context, pointIDs []string) ([]*models.Action, error)
	// ListOpenBySystem returns the unfinished Actions of a System ordered by
	// due date, each with a summary of its Point.
	ListOpenBySystem(ctx context.Context, systemID string) ([]*models.Action, error)
	Update(ctx context.Context, id string, upd models.ActionUpdate) (*models.Action, error)
}

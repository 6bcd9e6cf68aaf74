// Package meetings declares the repository contract for governance Meetings.
package meetings

import (
	"context"

	"github.com/dmitrijs2005/waulty/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m models.NewMeeting) (*models.Meeting, error)
	GetByID(ctx context.Context, id string) (*models.Meeting, error)
	ListBySystem(ctx context.Context, systemID string) ([]*models.Meeting, error)
	Update(ctx context.Context, id string, upd models.MeetingUpdate) (*models.Meeting, error)
	Delete(ctx context.Context, id string) error
}

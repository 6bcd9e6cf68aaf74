// Package magiclinks declares the repository contract for the single-use
// decision links sent to system owners.
package magiclinks

import (
	"context"
	"time"

	"github.com/dmitrijs2005/waulty/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, l *models.MagicLink) (*models.MagicLink, error)
	// GetByToken returns common.ErrorNotFound for unknown tokens.
	GetByToken(ctx context.Context, token string) (*models.MagicLink, error)
	// Claim marks the link used. It returns common.ErrInvalidLink when the
	// link was already used or has expired by now, so only one caller can win.
	Claim(ctx context.Context, id string, now time.Time) error
	// InvalidateForContext marks every unused link for the entity as used.
	InvalidateForContext(ctx context.Context, ct models.ContextType, contextID string) (int64, error)
}

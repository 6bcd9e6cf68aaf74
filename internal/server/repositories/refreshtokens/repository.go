// Package refreshtokens declares the repository contract for the
// server-stored refresh tokens used to renew access tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/waulty/internal/server/models"
)

// Repository issues, looks up and revokes refresh tokens.
type Repository interface {
	// Create stores token for userID, valid until now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound when the token is unknown.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete is a no-op for unknown tokens.
	Delete(ctx context.Context, token string) error

	// DeleteForUser revokes every token of userID.
	DeleteForUser(ctx context.Context, userID string) error
}

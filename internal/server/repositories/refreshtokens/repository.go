// Package refreshtokens persists the opaque refresh tokens handed out next
// to access tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/heartlink/internal/server/models"
)

type Repository interface {
	// Create stores token for userID, valid until now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound for unknown tokens.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes token. It returns common.ErrorNotFound when no row was
	// removed, so a token can be redeemed at most once.
	Delete(ctx context.Context, token string) error
}

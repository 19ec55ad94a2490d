package users

import (
	"context"

	"github.com/dmitrijs2005/heartlink/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in CreatedAt. A duplicate email yields
	// common.ErrEmailInUse.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByProvider(ctx context.Context, provider, subject string) (*models.User, error)
}

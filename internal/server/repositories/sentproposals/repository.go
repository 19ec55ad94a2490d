// Package sentproposals stores each sender's private list of the proposals
// they created.
package sentproposals

import (
	"context"

	"github.com/dmitrijs2005/heartlink/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, sp *models.SentProposal) error
	// ListByUser returns the user's proposals, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.SentProposal, error)
	Delete(ctx context.Context, userID, id string) error
}

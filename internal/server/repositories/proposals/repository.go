// Package proposals stores the public proposal records.
package proposals

import (
	"context"
	"time"

	"github.com/dmitrijs2005/heartlink/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Proposal) (*models.Proposal, error)
	GetByID(ctx context.Context, id string) (*models.Proposal, error)
	// UpdateStatus moves a proposal from status from to status to. It returns
	// common.ErrorNotFound when no proposal with that id is in status from.
	UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error
	SetRingModelKey(ctx context.Context, id, key string) error
	Delete(ctx context.Context, id string) error
}

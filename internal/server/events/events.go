// Package events announces proposal state changes to other parts of the
// system: a message broker and the live websocket hub.
package events

import (
	"context"
	"errors"
	"time"
)

// TypeProposalAnswered is published when a recipient accepts or rejects.
const TypeProposalAnswered = "proposal.answered"

type Event struct {
	Type       string    `json:"type"`
	ProposalID string    `json:"proposalId"`
	SenderID   string    `json:"senderId"`
	Status     string    `json:"status"`
	At         time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

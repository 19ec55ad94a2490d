package models

import "time"

// Proposal status values.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Proposal is the public record a recipient reaches through the share link.
type Proposal struct {
	ID            string
	SenderID      string
	SenderName    string
	RecipientName string
	Letter        string
	Status        string
	// RingModelKey is the object-storage key of a custom ring model, or ""
	// for the default one.
	RingModelKey string
	CreatedAt    time.Time
	RespondedAt  *time.Time
}

// IsAnswer reports whether s is a valid recipient answer.
func IsAnswer(s string) bool {
	return s == StatusAccepted || s == StatusRejected
}

// SentProposal is the sender's private mirror of a proposal.
type SentProposal struct {
	ID            string
	UserID        string
	RecipientName string
	CreatedAt     time.Time
}

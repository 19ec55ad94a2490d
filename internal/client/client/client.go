package client

import (
	"context"

	"github.com/dmitrijs2005/heartlink/internal/rpcapi"
)

// Tokens is the pair issued by Signup, Login and refresh.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// Client is what the CLI needs from the server.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Signup(ctx context.Context, username, email, password string) (userID string, err error)
	Login(ctx context.Context, email, password string) error
	CreateProposal(ctx context.Context, recipientName, letter, keywords string) (*rpcapi.Proposal, error)
	ListProposals(ctx context.Context) ([]rpcapi.SentProposal, error)
	GetProposal(ctx context.Context, id string) (*rpcapi.Proposal, error)
	DeleteProposal(ctx context.Context, id string) error
	GenerateLetter(ctx context.Context, recipientName, keywords string) (string, error)
	UploadRing(ctx context.Context, proposalID string, model []byte) (key string, err error)
}

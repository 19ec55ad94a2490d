package grpc

import (
	"context"

	"github.com/dmitrijs2005/heartlink/internal/common"
	"github.com/dmitrijs2005/heartlink/internal/logging"
	"github.com/dmitrijs2005/heartlink/internal/server/models"
	"github.com/dmitrijs2005/heartlink/internal/server/services"
)

// ---- fakes ----

type fakeUser struct {
	signupResp *models.User
	signupErr  error

	loginErr error

	refreshResp *services.TokenPair
	refreshErr  error
}

func (f *fakeUser) Signup(ctx context.Context, username, email, password string) (*models.User, *services.TokenPair, error) {
	if f.signupErr != nil {
		return nil, nil, f.signupErr
	}
	return f.signupResp, &services.TokenPair{AccessToken: "A", RefreshToken: "R"}, nil
}

func (f *fakeUser) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &services.TokenPair{AccessToken: "A", RefreshToken: "R"}, nil
}

func (f *fakeUser) RefreshToken(ctx context.Context, refresh string) (*services.TokenPair, error) {
	return f.refreshResp, f.refreshErr
}

func (f *fakeUser) UserIDFromAccessToken(token string) (string, error) {
	switch token {
	case "good":
		return "user-1", nil
	case "expired":
		return "", common.ErrTokenExpired
	default:
		return "", common.ErrInvalidToken
	}
}

type fakeProposals struct {
	byID map[string]*models.Proposal
	sent []models.SentProposal

	createErr error
	gotCreate []string
	deleted   []string
}

func (f *fakeProposals) Create(ctx context.Context, senderID, recipientName, letter, keywords string) (*models.Proposal, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.gotCreate = []string{senderID, recipientName, letter, keywords}
	return &models.Proposal{ID: "p-new", SenderID: senderID, RecipientName: recipientName, Letter: letter, Status: models.StatusPending}, nil
}

func (f *fakeProposals) Get(ctx context.Context, id string) (*models.Proposal, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (f *fakeProposals) ListSent(ctx context.Context, userID string) ([]models.SentProposal, error) {
	return f.sent, nil
}

func (f *fakeProposals) Delete(ctx context.Context, userID, id string) error {
	p, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	if p.SenderID != userID {
		return common.ErrorForbidden
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeProposals) RequestRingUpload(ctx context.Context, userID, id string) (string, string, error) {
	if err := f.Delete(ctx, userID, id); err != nil {
		return "", "", err
	}
	return "rings/k.glb", "http://s3/put", nil
}

func (f *fakeProposals) ShareURL(id string) string { return "http://h/p/" + id }

type fakeLetters struct {
	err error
}

func (f *fakeLetters) Generate(ctx context.Context, recipientName, keywords string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "Dear " + recipientName, nil
}

// ---- helpers ----

func newServer(u userSvc, p proposalSvc, l services.LetterWriter) *GRPCServer {
	return &GRPCServer{
		address:   "127.0.0.1:0",
		users:     u,
		proposals: p,
		letters:   l,
		logger:    logging.NopLogger{},
	}
}

func newDefaultServer() (*GRPCServer, *fakeUser, *fakeProposals) {
	u := &fakeUser{}
	p := &fakeProposals{byID: map[string]*models.Proposal{
		"p1": {ID: "p1", SenderID: "user-1", SenderName: "Romeo", RecipientName: "Juliet", Status: models.StatusPending},
	}}
	return newServer(u, p, &fakeLetters{}), u, p
}

func withUser(userID string) context.Context {
	return context.WithValue(context.Background(), userIDKey, userID)
}

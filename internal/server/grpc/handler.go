package grpc

import (
	"context"

	"github.com/dmitrijs2005/heartlink/internal/rpcapi"
	"github.com/dmitrijs2005/heartlink/internal/server/models"
)

func (s *GRPCServer) Ping(ctx context.Context, req *rpcapi.PingRequest) (*rpcapi.PingResponse, error) {

	return &rpcapi.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) Signup(ctx context.Context, req *rpcapi.SignupRequest) (*rpcapi.SignupResponse, error) {

	s.logger.Info(ctx, "Signup request")

	user, tokens, err := s.users.Signup(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Signed up", "user_id", user.ID)
	return &rpcapi.SignupResponse{UserID: user.ID, AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil

}

func (s *GRPCServer) Login(ctx context.Context, req *rpcapi.LoginRequest) (*rpcapi.LoginResponse, error) {

	tokens, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.LoginResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil

}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *rpcapi.RefreshTokenRequest) (*rpcapi.RefreshTokenResponse, error) {

	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil

}

func (s *GRPCServer) toProposal(p *models.Proposal) rpcapi.Proposal {
	return rpcapi.Proposal{
		ID:            p.ID,
		SenderName:    p.SenderName,
		RecipientName: p.RecipientName,
		Letter:        p.Letter,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		RespondedAt:   p.RespondedAt,
		ShareURL:      s.proposals.ShareURL(p.ID),
	}
}

func (s *GRPCServer) CreateProposal(ctx context.Context, req *rpcapi.CreateProposalRequest) (*rpcapi.CreateProposalResponse, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.proposals.Create(ctx, userID, req.RecipientName, req.Letter, req.Keywords)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.CreateProposalResponse{Proposal: s.toProposal(p)}, nil

}

func (s *GRPCServer) ListProposals(ctx context.Context, req *rpcapi.ListProposalsRequest) (*rpcapi.ListProposalsResponse, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	sent, err := s.proposals.ListSent(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]rpcapi.SentProposal, 0, len(sent))
	for _, sp := range sent {
		out = append(out, rpcapi.SentProposal{
			ID:            sp.ID,
			RecipientName: sp.RecipientName,
			CreatedAt:     sp.CreatedAt,
			ShareURL:      s.proposals.ShareURL(sp.ID),
		})
	}

	return &rpcapi.ListProposalsResponse{Proposals: out}, nil

}

func (s *GRPCServer) GetProposal(ctx context.Context, req *rpcapi.GetProposalRequest) (*rpcapi.GetProposalResponse, error) {

	p, err := s.proposals.Get(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.GetProposalResponse{Proposal: s.toProposal(p)}, nil

}

func (s *GRPCServer) DeleteProposal(ctx context.Context, req *rpcapi.DeleteProposalRequest) (*rpcapi.DeleteProposalResponse, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.proposals.Delete(ctx, userID, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.DeleteProposalResponse{}, nil

}

func (s *GRPCServer) GenerateLetter(ctx context.Context, req *rpcapi.GenerateLetterRequest) (*rpcapi.GenerateLetterResponse, error) {

	letter, err := s.letters.Generate(ctx, req.RecipientName, req.Keywords)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.GenerateLetterResponse{Letter: letter}, nil

}

func (s *GRPCServer) RequestRingUpload(ctx context.Context, req *rpcapi.RequestRingUploadRequest) (*rpcapi.RequestRingUploadResponse, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	key, url, err := s.proposals.RequestRingUpload(ctx, userID, req.ProposalID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.RequestRingUploadResponse{Key: key, UploadURL: url}, nil

}

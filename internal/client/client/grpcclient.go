package client

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/heartlink/internal/common"
	"github.com/dmitrijs2005/heartlink/internal/netx"
	"github.com/dmitrijs2005/heartlink/internal/rpcapi"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// uploadToPresignedURL is a test seam.
var uploadToPresignedURL = netx.UploadToPresignedURL

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpcapi.ProposalServiceClient

	mu       sync.Mutex
	tokens   Tokens
	onTokens func(Tokens)
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	tokens := s.Tokens()

	err := invoker(withAccessToken(ctx, tokens.AccessToken), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if tokens.RefreshToken == "" || method == rpcapi.FullMethod(rpcapi.MethodRefreshToken) {
		return err
	}

	resp, err := s.client.RefreshToken(ctx, &rpcapi.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		return err
	}
	s.SetTokens(Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

// NewGRPCClient dials endpointURL lazily; no connection is made until the
// first call. Extra options are appended to the defaults.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)
	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpcapi.NewProposalServiceClient(conn)
	return c, nil
}

// SetTokens replaces the tokens used for calls and reports them to the
// OnTokens callback.
func (s *GRPCClient) SetTokens(t Tokens) {
	s.mu.Lock()
	s.tokens = t
	fn := s.onTokens
	s.mu.Unlock()

	if fn != nil {
		fn(t)
	}
}

// UseTokens sets the tokens without notifying, for restoring a saved session.
func (s *GRPCClient) UseTokens(t Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = t
}

func (s *GRPCClient) Tokens() Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

// OnTokens registers fn to be called whenever new tokens are issued.
func (s *GRPCClient) OnTokens(fn func(Tokens)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTokens = fn
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &rpcapi.PingRequest{})
	if err != nil {
		return mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Signup(ctx context.Context, username, email, password string) (string, error) {
	resp, err := s.client.Signup(ctx, &rpcapi.SignupRequest{Username: username, Email: email, Password: password})
	if err != nil {
		return "", mapError(err)
	}
	s.SetTokens(Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	return resp.UserID, nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) error {
	resp, err := s.client.Login(ctx, &rpcapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		return mapError(err)
	}
	s.SetTokens(Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	return nil
}

func (s *GRPCClient) CreateProposal(ctx context.Context, recipientName, letter, keywords string) (*rpcapi.Proposal, error) {
	resp, err := s.client.CreateProposal(ctx, &rpcapi.CreateProposalRequest{
		RecipientName: recipientName,
		Letter:        letter,
		Keywords:      keywords,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &resp.Proposal, nil
}

func (s *GRPCClient) ListProposals(ctx context.Context) ([]rpcapi.SentProposal, error) {
	resp, err := s.client.ListProposals(ctx, &rpcapi.ListProposalsRequest{})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Proposals, nil
}

func (s *GRPCClient) GetProposal(ctx context.Context, id string) (*rpcapi.Proposal, error) {
	resp, err := s.client.GetProposal(ctx, &rpcapi.GetProposalRequest{ID: id})
	if err != nil {
		return nil, mapError(err)
	}
	return &resp.Proposal, nil
}

func (s *GRPCClient) DeleteProposal(ctx context.Context, id string) error {
	_, err := s.client.DeleteProposal(ctx, &rpcapi.DeleteProposalRequest{ID: id})
	return mapError(err)
}

func (s *GRPCClient) GenerateLetter(ctx context.Context, recipientName, keywords string) (string, error) {
	resp, err := s.client.GenerateLetter(ctx, &rpcapi.GenerateLetterRequest{RecipientName: recipientName, Keywords: keywords})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Letter, nil
}

// UploadRing asks for a presigned URL for proposalID's ring model and PUTs
// model to it. The returned key is the object the proposal now points at.
func (s *GRPCClient) UploadRing(ctx context.Context, proposalID string, model []byte) (string, error) {
	resp, err := s.client.RequestRingUpload(ctx, &rpcapi.RequestRingUploadRequest{ProposalID: proposalID})
	if err != nil {
		return "", mapError(err)
	}
	if err := uploadToPresignedURL(ctx, resp.UploadURL, netx.RingModelContentType, model); err != nil {
		return "", err
	}
	return resp.Key, nil
}

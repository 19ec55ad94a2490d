// Package grpc exposes ProposalService to the heartctl client.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/heartlink/internal/logging"
	"github.com/dmitrijs2005/heartlink/internal/rpcapi"
	"github.com/dmitrijs2005/heartlink/internal/server/models"
	"github.com/dmitrijs2005/heartlink/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type userSvc interface {
	Signup(ctx context.Context, username, email, password string) (*models.User, *services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	UserIDFromAccessToken(token string) (string, error)
}

type proposalSvc interface {
	Create(ctx context.Context, senderID, recipientName, letter, keywords string) (*models.Proposal, error)
	Get(ctx context.Context, id string) (*models.Proposal, error)
	ListSent(ctx context.Context, userID string) ([]models.SentProposal, error)
	Delete(ctx context.Context, userID, id string) error
	RequestRingUpload(ctx context.Context, userID, id string) (key, url string, err error)
	ShareURL(id string) string
}

type GRPCServer struct {
	address   string
	users     userSvc
	proposals proposalSvc
	letters   services.LetterWriter
	logger    logging.Logger
}

var _ rpcapi.ProposalServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, us userSvc, ps proposalSvc, ls services.LetterWriter) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		proposals: ps,
		letters:   ls,
	}
}

func (s *GRPCServer) newServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	rpcapi.RegisterProposalServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(rpcapi.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv, hs
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv, hs := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gPRC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

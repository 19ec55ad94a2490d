package rpcapi

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "heartlink.ProposalService"

// Method names, as they appear after the service name.
const (
	MethodPing              = "Ping"
	MethodSignup            = "Signup"
	MethodLogin             = "Login"
	MethodRefreshToken      = "RefreshToken"
	MethodCreateProposal    = "CreateProposal"
	MethodListProposals     = "ListProposals"
	MethodGetProposal       = "GetProposal"
	MethodDeleteProposal    = "DeleteProposal"
	MethodGenerateLetter    = "GenerateLetter"
	MethodRequestRingUpload = "RequestRingUpload"
)

// FullMethod returns the gRPC path of method, e.g.
// "/heartlink.ProposalService/Ping".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// ProposalServiceServer is implemented by the server.
type ProposalServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Signup(context.Context, *SignupRequest) (*SignupResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	CreateProposal(context.Context, *CreateProposalRequest) (*CreateProposalResponse, error)
	ListProposals(context.Context, *ListProposalsRequest) (*ListProposalsResponse, error)
	GetProposal(context.Context, *GetProposalRequest) (*GetProposalResponse, error)
	DeleteProposal(context.Context, *DeleteProposalRequest) (*DeleteProposalResponse, error)
	GenerateLetter(context.Context, *GenerateLetterRequest) (*GenerateLetterResponse, error)
	RequestRingUpload(context.Context, *RequestRingUploadRequest) (*RequestRingUploadResponse, error)
}

func unary[Req, Resp any](method string, call func(ProposalServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(ProposalServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes ProposalService to grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProposalServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, ProposalServiceServer.Ping),
		unary(MethodSignup, ProposalServiceServer.Signup),
		unary(MethodLogin, ProposalServiceServer.Login),
		unary(MethodRefreshToken, ProposalServiceServer.RefreshToken),
		unary(MethodCreateProposal, ProposalServiceServer.CreateProposal),
		unary(MethodListProposals, ProposalServiceServer.ListProposals),
		unary(MethodGetProposal, ProposalServiceServer.GetProposal),
		unary(MethodDeleteProposal, ProposalServiceServer.DeleteProposal),
		unary(MethodGenerateLetter, ProposalServiceServer.GenerateLetter),
		unary(MethodRequestRingUpload, ProposalServiceServer.RequestRingUpload),
	},
	Metadata: "heartlink/proposal_service",
}

func RegisterProposalServiceServer(s grpc.ServiceRegistrar, srv ProposalServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ProposalServiceClient is the client side of ProposalService.
type ProposalServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Signup(ctx context.Context, in *SignupRequest, opts ...grpc.CallOption) (*SignupResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	CreateProposal(ctx context.Context, in *CreateProposalRequest, opts ...grpc.CallOption) (*CreateProposalResponse, error)
	ListProposals(ctx context.Context, in *ListProposalsRequest, opts ...grpc.CallOption) (*ListProposalsResponse, error)
	GetProposal(ctx context.Context, in *GetProposalRequest, opts ...grpc.CallOption) (*GetProposalResponse, error)
	DeleteProposal(ctx context.Context, in *DeleteProposalRequest, opts ...grpc.CallOption) (*DeleteProposalResponse, error)
	GenerateLetter(ctx context.Context, in *GenerateLetterRequest, opts ...grpc.CallOption) (*GenerateLetterResponse, error)
	RequestRingUpload(ctx context.Context, in *RequestRingUploadRequest, opts ...grpc.CallOption) (*RequestRingUploadResponse, error)
}

type proposalServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewProposalServiceClient(cc grpc.ClientConnInterface) ProposalServiceClient {
	return &proposalServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *proposalServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *proposalServiceClient) Signup(ctx context.Context, in *SignupRequest, opts ...grpc.CallOption) (*SignupResponse, error) {
	return invoke[SignupResponse](ctx, c.cc, MethodSignup, in, opts)
}

func (c *proposalServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *proposalServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *proposalServiceClient) CreateProposal(ctx context.Context, in *CreateProposalRequest, opts ...grpc.CallOption) (*CreateProposalResponse, error) {
	return invoke[CreateProposalResponse](ctx, c.cc, MethodCreateProposal, in, opts)
}

func (c *proposalServiceClient) ListProposals(ctx context.Context, in *ListProposalsRequest, opts ...grpc.CallOption) (*ListProposalsResponse, error) {
	return invoke[ListProposalsResponse](ctx, c.cc, MethodListProposals, in, opts)
}

func (c *proposalServiceClient) GetProposal(ctx context.Context, in *GetProposalRequest, opts ...grpc.CallOption) (*GetProposalResponse, error) {
	return invoke[GetProposalResponse](ctx, c.cc, MethodGetProposal, in, opts)
}

func (c *proposalServiceClient) DeleteProposal(ctx context.Context, in *DeleteProposalRequest, opts ...grpc.CallOption) (*DeleteProposalResponse, error) {
	return invoke[DeleteProposalResponse](ctx, c.cc, MethodDeleteProposal, in, opts)
}

func (c *proposalServiceClient) GenerateLetter(ctx context.Context, in *GenerateLetterRequest, opts ...grpc.CallOption) (*GenerateLetterResponse, error) {
	return invoke[GenerateLetterResponse](ctx, c.cc, MethodGenerateLetter, in, opts)
}

func (c *proposalServiceClient) RequestRingUpload(ctx context.Context, in *RequestRingUploadRequest, opts ...grpc.CallOption) (*RequestRingUploadResponse, error) {
	return invoke[RequestRingUploadResponse](ctx, c.cc, MethodRequestRingUpload, in, opts)
}

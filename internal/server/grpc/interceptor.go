package grpc

import (
	"context"

	"github.com/dmitrijs2005/heartlink/internal/common"
	"github.com/dmitrijs2005/heartlink/internal/rpcapi"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// protectedMethods need a valid access token.
var protectedMethods = map[string]bool{
	rpcapi.FullMethod(rpcapi.MethodCreateProposal):    true,
	rpcapi.FullMethod(rpcapi.MethodListProposals):     true,
	rpcapi.FullMethod(rpcapi.MethodGetProposal):       true,
	rpcapi.FullMethod(rpcapi.MethodDeleteProposal):    true,
	rpcapi.FullMethod(rpcapi.MethodGenerateLetter):    true,
	rpcapi.FullMethod(rpcapi.MethodRequestRingUpload): true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if protectedMethods[info.FullMethod] {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		userID, err := s.users.UserIDFromAccessToken(accessToken)
		if err != nil {
			return nil, s.toStatus(ctx, err)
		}

		ctx = context.WithValue(ctx, userIDKey, userID)

	}

	return handler(ctx, req)
}

func userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", status.Error(codes.Unauthenticated, "unauthorized")
	}
	return userID, nil
}

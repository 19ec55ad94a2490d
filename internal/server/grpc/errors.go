package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/heartlink/internal/common"
	"github.com/dmitrijs2005/heartlink/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error to a gRPC status. The message of expected
// errors is passed through so the client can match it.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrWeakPassword):
		code = codes.InvalidArgument
	case errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrRefreshTokenExpired):
		code = codes.Unauthenticated
	case errors.Is(err, common.ErrorForbidden):
		code = codes.PermissionDenied
	case errors.Is(err, common.ErrorNotFound):
		code = codes.NotFound
	case errors.Is(err, common.ErrEmailInUse), errors.Is(err, common.ErrAccountExistsWithDifferentCredential):
		code = codes.AlreadyExists
	case errors.Is(err, common.ErrAlreadyAnswered):
		code = codes.FailedPrecondition
	case errors.Is(err, common.ErrRateLimited):
		code = codes.ResourceExhausted
	case errors.Is(err, services.ErrLetterUnavailable):
		code = codes.Unavailable
	default:
		s.logger.Error(ctx, err.Error())
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
	return status.Error(code, err.Error())
}

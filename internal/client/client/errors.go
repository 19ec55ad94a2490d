package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/heartlink/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// known are matched by message so callers get the server's exact sentinel.
var known = []error{
	common.ErrEmailInUse,
	common.ErrWeakPassword,
	common.ErrAccountExistsWithDifferentCredential,
	common.ErrAlreadyAnswered,
	common.ErrRefreshTokenExpired,
	common.ErrTokenExpired,
	common.ErrRateLimited,
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}

	for _, k := range known {
		if st.Message() == k.Error() {
			if st.Code() == codes.Unauthenticated {
				return fmt.Errorf("%w: %w", ErrUnauthorized, k)
			}
			return k
		}
	}

	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return common.ErrorForbidden
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrorValidation, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

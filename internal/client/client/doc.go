// Package client talks to the HeartLink gRPC endpoint on behalf of heartctl.
//
// GRPCClient manages the connection, attaches the access token to every
// call and, when the server reports an expired token, redeems the refresh
// token once and retries. Token changes are reported through a callback so
// the caller can persist them.
//
// Status codes are mapped back to sentinel errors (ErrUnavailable,
// ErrUnauthorized and the common package's errors) for errors.Is.
package client

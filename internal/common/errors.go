// Package common defines shared constants and sentinel errors used across
// client and server layers of HeartLink. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Account errors.
	ErrEmailInUse                           = errors.New("this email address is already in use")
	ErrWeakPassword                         = errors.New("password must be at least 6 characters long")
	ErrAccountExistsWithDifferentCredential = errors.New("an account already exists with the same email address but different sign-in credentials")

	// Proposal errors.
	ErrAlreadyAnswered = errors.New("proposal already answered")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Outbound call errors.
	ErrRateLimited = errors.New("rate limited")
)

// Package common contains shared constants and sentinel errors used across
// HeartLink components.
package common

// AccessTokenHeaderName is the gRPC/HTTP metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6

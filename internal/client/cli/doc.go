// Package cli implements heartctl, the command-line client of HeartLink.
//
// Commands talk to the server over gRPC (see package client). The session
// created by "signup" or "login" is kept in a file between invocations and
// refreshed tokens are written back to it.
//
//	heartctl login -e romeo@verona.it
//	heartctl create Juliet -k "balcony, stars"
//	heartctl list
//	heartctl ring <id> ring.glb
package cli

// Package cryptox derives and checks password verifiers.
//
// A verifier is argon2id(password, salt); only the salt and the verifier are
// stored, never the password itself.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/heartlink/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the number of random bytes generated per user.
	SaltSize = 16

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// NewSalt returns a fresh random salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// MakeVerifier derives the stored verifier for password and salt.
func MakeVerifier(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// CheckPassword reports whether password matches the stored verifier.
// The comparison runs in constant time.
func CheckPassword(password []byte, salt []byte, verifier []byte) bool {
	candidate := MakeVerifier(password, salt)
	defer common.WipeByteArray(candidate)
	return subtle.ConstantTimeCompare(candidate, verifier) == 1
}

// Package models defines server-side data models persisted in the database.
package models

import "time"

// Sign-in providers a user record can belong to.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
	ProviderApple    = "apple"
)

// User is created once, at signup or at the first federated sign-in.
// Salt and Verifier are set only for ProviderPassword accounts.
type User struct {
	ID              string
	Username        string
	Email           string
	Provider        string
	ProviderSubject string
	Salt            []byte
	Verifier        []byte
	CreatedAt       time.Time
}

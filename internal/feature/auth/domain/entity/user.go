// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account.
// It contains authentication credentials and the profile supplied at registration.
type User struct {
	// ID is the store-assigned identifier.
	ID uint

	// Email is the login identifier. It is unique across all users.
	Email string

	// Password is the argon2id hash of the user's password.
	// This never holds a plaintext password.
	Password string

	// Profile holds the additional registration fields, passed through unchanged.
	Profile map[string]any

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}

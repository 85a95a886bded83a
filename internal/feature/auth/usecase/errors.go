package usecase

import "errors"

var (
	// ErrUserNotFound is returned by repositories when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to register an email that is already on file.
	ErrEmailAlreadyExists = errors.New("email already registered")

	// ErrUnauthenticated is returned when a token is missing, malformed, expired,
	// signed with the wrong key, or refers to a user that no longer exists.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidInput is returned when a required credential field is empty.
	ErrInvalidInput = errors.New("email and password are required")
)

package services

import "errors"

// Service-level error taxonomy. Handlers map these onto HTTP status codes and
// never leak anything beyond them to clients.
var (
	// ErrEmailTaken means registration was attempted with an email that
	// already has an account.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials covers both an unknown email and a password
	// mismatch, deliberately indistinguishable to prevent user enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound means no issue with the given ID is owned by the caller.
	// "Doesn't exist" and "exists but belongs to someone else" collapse into
	// this one error on purpose.
	ErrNotFound = errors.New("issue not found")

	// ErrTitleRequired means an issue was created or updated with an empty title.
	ErrTitleRequired = errors.New("title is required")
)

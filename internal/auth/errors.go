package auth

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrDuplicateIdentifier = errors.New("email already registered")
	// ErrInvalidCredentials hides whether the identifier or the secret was wrong.
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrRepositoryUnavailable = errors.New("credential repository unavailable")
)

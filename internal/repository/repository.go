package repository

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

var (
	ErrCredentialNotFound  = errors.New("credential not found")
	ErrDuplicateIdentifier = errors.New("identifier already registered")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("credential repository unavailable")
)

// CredentialRepository is the durable user store the credential service reads and writes.
type CredentialRepository interface {
	FindByIdentifier(ctx context.Context, identifier string) (*domain.Credential, error)
	Create(ctx context.Context, cred domain.Credential) (*domain.Credential, error)
}

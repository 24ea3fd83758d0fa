// Package auth verifies and creates credentials and issues bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
)

type Service struct {
	repo        repository.CredentialRepository
	hasher      Hasher
	signer      *JWTSigner
	revocations RevocationList
}

func NewService(repo repository.CredentialRepository, hasher Hasher, signer *JWTSigner, revocations RevocationList) *Service {
	return &Service{
		repo:        repo,
		hasher:      hasher,
		signer:      signer,
		revocations: revocations,
	}
}

// IssuedToken is a signed token together with the claims needed to revoke it.
type IssuedToken struct {
	Raw       string
	ID        string
	ExpiresAt time.Time
}

func (s *Service) Register(ctx context.Context, identifier, secret, confirmSecret, displayName string) (*domain.SessionIdentity, error) {
	if identifier == "" || secret == "" || confirmSecret == "" || displayName == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if secret != confirmSecret {
		return nil, fmt.Errorf("%w: passwords do not match", ErrValidation)
	}

	_, err := s.repo.FindByIdentifier(ctx, identifier)
	switch {
	case err == nil:
		return nil, ErrDuplicateIdentifier
	case !errors.Is(err, repository.ErrCredentialNotFound):
		return nil, unavailable(err)
	}

	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}

	cred, err := s.repo.Create(ctx, domain.Credential{
		Identifier:  identifier,
		SecretHash:  hash,
		DisplayName: displayName,
	})
	if errors.Is(err, repository.ErrDuplicateIdentifier) {
		return nil, ErrDuplicateIdentifier
	}
	if err != nil {
		return nil, unavailable(err)
	}

	return cred.Identity(), nil
}

func (s *Service) Login(ctx context.Context, identifier, secret string) (*domain.SessionIdentity, error) {
	if identifier == "" || secret == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	cred, err := s.repo.FindByIdentifier(ctx, identifier)
	if errors.Is(err, repository.ErrCredentialNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, unavailable(err)
	}

	if err := s.hasher.Compare(cred.SecretHash, secret); err != nil {
		return nil, ErrInvalidCredentials
	}

	return cred.Identity(), nil
}

func (s *Service) IssueToken(_ context.Context, identity domain.SessionIdentity) (*IssuedToken, error) {
	raw, claims, err := s.signer.Sign(identity, TokenTTL)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Raw: raw, ID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// ResolveToken returns the identity carried by a valid, unrevoked token.
// Every failure degrades to anonymous.
func (s *Service) ResolveToken(ctx context.Context, raw string) (*domain.SessionIdentity, bool) {
	if raw == "" {
		return nil, false
	}
	claims, err := s.signer.Verify(raw)
	if err != nil {
		return nil, false
	}
	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			log.Printf("revocation lookup error: %v \n", err)
			return nil, false
		}
		if revoked {
			return nil, false
		}
	}
	return claims.Identity(), true
}

// RevokeToken invalidates a token for the rest of its lifetime.
// Tokens that no longer verify need no revocation.
func (s *Service) RevokeToken(ctx context.Context, raw string) error {
	if raw == "" || s.revocations == nil {
		return nil
	}
	claims, err := s.signer.Verify(raw)
	if err != nil {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
}

package service

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/storefront/internal/auth"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/fjod/go_cart/storefront/internal/session"
)

// Authenticator is the part of the credential service the account flows need.
type Authenticator interface {
	Register(ctx context.Context, identifier, secret, confirmSecret, displayName string) (*domain.SessionIdentity, error)
	Login(ctx context.Context, identifier, secret string) (*domain.SessionIdentity, error)
	IssueToken(ctx context.Context, identity domain.SessionIdentity) (*auth.IssuedToken, error)
	ResolveToken(ctx context.Context, raw string) (*domain.SessionIdentity, bool)
	RevokeToken(ctx context.Context, raw string) error
}

type AccountService struct {
	auth     Authenticator
	sessions session.Store
	metrics  *metrics.Metrics
}

func NewAccountService(a Authenticator, sessions session.Store, m *metrics.Metrics) *AccountService {
	return &AccountService{
		auth:     a,
		sessions: sessions,
		metrics:  m,
	}
}

// SignIn is the outcome of a successful login or registration.
// SessionID replaces the visitor's previous session id.
type SignIn struct {
	SessionID string
	Identity  *domain.SessionIdentity
	Token     *auth.IssuedToken
}

func (s *AccountService) Register(ctx context.Context, sessionID, identifier, secret, confirmSecret, displayName string) (*SignIn, error) {
	identity, err := s.auth.Register(ctx, identifier, secret, confirmSecret, displayName)
	if err != nil {
		s.metrics.Registration(authOutcome(err))
		return nil, err
	}
	s.metrics.Registration("success")
	return s.signIn(ctx, sessionID, identity)
}

func (s *AccountService) Login(ctx context.Context, sessionID, identifier, secret string) (*SignIn, error) {
	identity, err := s.auth.Login(ctx, identifier, secret)
	if err != nil {
		s.metrics.Login(authOutcome(err))
		return nil, err
	}
	s.metrics.Login("success")
	return s.signIn(ctx, sessionID, identity)
}

// Logout destroys the session and revokes the bearer token.
func (s *AccountService) Logout(ctx context.Context, sessionID, rawToken string) error {
	if err := s.auth.RevokeToken(ctx, rawToken); err != nil {
		logger.Printf(ctx, "token revoke error: %v \n", err)
	}
	if sessionID == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, sessionID)
}

// Identity prefers the session identity and falls back to the bearer token.
func (s *AccountService) Identity(ctx context.Context, sessionID, rawToken string) *domain.SessionIdentity {
	if sessionID != "" {
		state, err := s.sessions.Load(ctx, sessionID)
		if err != nil {
			logger.Printf(ctx, "session load error: %v \n", err)
		} else if state.Identity != nil {
			return state.Identity
		}
	}
	identity, _ := s.auth.ResolveToken(ctx, rawToken)
	return identity
}

// signIn moves the visitor's cart to a freshly issued session id carrying the
// identity, so a session id known before login never becomes authenticated.
func (s *AccountService) signIn(ctx context.Context, sessionID string, identity *domain.SessionIdentity) (*SignIn, error) {
	previous := &session.State{}
	if sessionID != "" {
		st, err := s.sessions.Load(ctx, sessionID)
		if err != nil {
			logger.Printf(ctx, "session load error (sign in): %v \n", err)
			return nil, err
		}
		previous = st
	}

	rotated, err := session.GenerateID()
	if err != nil {
		return nil, err
	}
	_, err = s.sessions.Update(ctx, rotated, func(st *session.State) error {
		st.Identity = identity
		st.Cart = previous.Cart
		if st.Cart.Items == nil {
			st.Cart.Items = []domain.LineItem{}
		}
		return nil
	})
	if err != nil {
		logger.Printf(ctx, "session update error (sign in): %v \n", err)
		return nil, err
	}

	if sessionID != "" {
		if err := s.sessions.Destroy(ctx, sessionID); err != nil {
			logger.Printf(ctx, "session destroy error (sign in): %v \n", err)
		}
	}

	token, err := s.auth.IssueToken(ctx, *identity)
	if err != nil {
		return nil, err
	}
	return &SignIn{SessionID: rotated, Identity: identity, Token: token}, nil
}

func authOutcome(err error) string {
	switch {
	case errors.Is(err, auth.ErrValidation):
		return "validation_error"
	case errors.Is(err, auth.ErrDuplicateIdentifier):
		return "duplicate_identifier"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, auth.ErrRepositoryUnavailable):
		return "repository_unavailable"
	default:
		return "error"
	}
}

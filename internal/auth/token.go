package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is the fixed lifetime of issued bearer tokens.
const TokenTTL = time.Hour

type TokenClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

func (c *TokenClaims) Identity() *domain.SessionIdentity {
	return &domain.SessionIdentity{
		UserID:      c.UserID,
		DisplayName: c.Username,
		Identifier:  c.Email,
	}
}

// JWTSigner signs and verifies HS256 tokens with a server-held secret.
type JWTSigner struct {
	secret []byte
	now    func() time.Time
}

func NewJWTSigner(secret string) (*JWTSigner, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTSigner{secret: []byte(secret), now: time.Now}, nil
}

func (s *JWTSigner) Sign(identity domain.SessionIdentity, ttl time.Duration) (string, *TokenClaims, error) {
	now := s.now()
	claims := &TokenClaims{
		UserID:   identity.UserID,
		Username: identity.DisplayName,
		Email:    identity.Identifier,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify checks signature and expiry.
func (s *JWTSigner) Verify(raw string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

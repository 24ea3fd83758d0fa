package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/fjod/go_cart/storefront/internal/session"
)

type AccountOperations interface {
	Register(ctx context.Context, sessionID, identifier, secret, confirmSecret, displayName string) (*service.SignIn, error)
	Login(ctx context.Context, sessionID, identifier, secret string) (*service.SignIn, error)
	Logout(ctx context.Context, sessionID, rawToken string) error
}

type AuthHandler struct {
	accounts   AccountOperations
	cookies    session.CookieOptions
	sessionTTL time.Duration
	timeout    time.Duration
}

func NewAuthHandler(accounts AccountOperations, cookies session.CookieOptions, sessionTTL, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		accounts:   accounts,
		cookies:    cookies,
		sessionTTL: sessionTTL,
		timeout:    timeout,
	}
}

type RegisterRequestDTO struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type SignInResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	in, err := h.accounts.Register(ctx, getSessionID(r.Context()), req.Email, req.Password, req.ConfirmPassword, req.Username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.respondSignIn(w, http.StatusCreated, in)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	in, err := h.accounts.Login(ctx, getSessionID(r.Context()), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.respondSignIn(w, http.StatusOK, in)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.accounts.Logout(ctx, getSessionID(r.Context()), getToken(r)); err != nil {
		logger.Printf(ctx, "logout error: %v \n", err)
		handleServiceError(w, err)
		return
	}

	session.ClearCookie(w, TokenCookieName, h.cookies)
	session.ClearCookie(w, session.CookieName, h.cookies)
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := getIdentity(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "not logged in")
		return
	}

	respondJSON(w, http.StatusOK, UserResponse{
		ID:       identity.UserID,
		Username: identity.DisplayName,
		Email:    identity.Identifier,
	})
}

func (h *AuthHandler) respondSignIn(w http.ResponseWriter, status int, in *service.SignIn) {
	session.SetCookie(w, session.CookieName, in.SessionID, time.Now().Add(h.sessionTTL), h.cookies)
	session.SetCookie(w, TokenCookieName, in.Token.Raw, in.Token.ExpiresAt, h.cookies)
	respondJSON(w, status, SignInResponse{
		User: UserResponse{
			ID:       in.Identity.UserID,
			Username: in.Identity.DisplayName,
			Email:    in.Identity.Identifier,
		},
		Token:     in.Token.Raw,
		ExpiresAt: in.Token.ExpiresAt,
	})
}

package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/session"
)

// TokenCookieName carries the bearer token issued on login.
const TokenCookieName = "token"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	sessionIDKey
	identityKey
)

// IdentityResolver finds who is behind a session or bearer token.
type IdentityResolver interface {
	Identity(ctx context.Context, sessionID, rawToken string) *domain.SessionIdentity
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionMiddleware makes sure every visitor carries a session cookie.
func SessionMiddleware(ttl time.Duration, opts session.CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
				sessionID = c.Value
			} else {
				id, err := session.GenerateID()
				if err != nil {
					logger.Printf(r.Context(), "session id error: %v \n", err)
					respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
					return
				}
				sessionID = id
				session.SetCookie(w, session.CookieName, sessionID, time.Now().Add(ttl), opts)
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityMiddleware attaches the visitor's identity, if any. It never rejects a request.
func IdentityMiddleware(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := resolver.Identity(r.Context(), getSessionID(r.Context()), getToken(r))
			if identity == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func getSessionID(ctx context.Context) string {
	if sessionID, ok := ctx.Value(sessionIDKey).(string); ok {
		return sessionID
	}
	return ""
}

func getIdentity(ctx context.Context) *domain.SessionIdentity {
	if identity, ok := ctx.Value(identityKey).(*domain.SessionIdentity); ok {
		return identity
	}
	return nil
}

// getToken reads the bearer token from the cookie, or else from the Authorization header.
func getToken(r *http.Request) string {
	if c, err := r.Cookie(TokenCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

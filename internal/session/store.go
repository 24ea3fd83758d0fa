// Package session keeps per-visitor state: the cart and the signed-in identity.
package session

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// ErrConflict is returned when an update keeps losing optimistic races.
var ErrConflict = errors.New("session: concurrent update conflict")

type State struct {
	Cart     domain.Cart             `json:"cart"`
	Identity *domain.SessionIdentity `json:"user,omitempty"`
}

func (s *State) Authenticated() bool {
	return s.Identity != nil
}

// Store reads and writes session state. Update applies fn atomically with
// respect to other updates of the same session; nothing is written when fn fails.
type Store interface {
	Load(ctx context.Context, sessionID string) (*State, error)
	Update(ctx context.Context, sessionID string, fn func(*State) error) (*State, error)
	Destroy(ctx context.Context, sessionID string) error
}

package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/sony/gobreaker/v2"
)

type BreakerSettings struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// BreakerRepository trips after consecutive infrastructure failures and
// rejects calls with ErrUnavailable until the open timeout elapses.
type BreakerRepository struct {
	next CredentialRepository
	cb   *gobreaker.CircuitBreaker[*domain.Credential]
}

func NewBreakerRepository(next CredentialRepository, s BreakerSettings) *BreakerRepository {
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[*domain.Credential](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.FailureThreshold
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &BreakerRepository{next: next, cb: cb}
}

func (b *BreakerRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.Credential, error) {
	return b.execute(func() (*domain.Credential, error) {
		return b.next.FindByIdentifier(ctx, identifier)
	})
}

func (b *BreakerRepository) Create(ctx context.Context, cred domain.Credential) (*domain.Credential, error) {
	return b.execute(func() (*domain.Credential, error) {
		return b.next.Create(ctx, cred)
	})
}

func (b *BreakerRepository) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerRepository) execute(fn func() (*domain.Credential, error)) (*domain.Credential, error) {
	cred, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrUnavailable
	}
	return cred, err
}

// not-found and duplicate are answers from a healthy store
func isBreakerSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, ErrCredentialNotFound) ||
		errors.Is(err, ErrDuplicateIdentifier) ||
		errors.Is(err, context.Canceled)
}

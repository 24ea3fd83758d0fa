package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/fjod/go_cart/storefront/internal/publisher"
	"github.com/fjod/go_cart/storefront/internal/session"
)

const publishTimeout = 5 * time.Second

// CartService applies cart engine commands to a visitor's session.
type CartService struct {
	sessions  session.Store
	publisher publisher.OrderPublisher
	metrics   *metrics.Metrics
	now       func() time.Time
	inflight  sync.WaitGroup
}

func NewCartService(sessions session.Store, pub publisher.OrderPublisher, m *metrics.Metrics) *CartService {
	return &CartService{
		sessions:  sessions,
		publisher: pub,
		metrics:   m,
		now:       time.Now,
	}
}

func (s *CartService) CartAdd(ctx context.Context, sessionID, name string, price float64) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, "add", func(c domain.Cart) domain.Cart {
		return cart.Add(c, name, price)
	})
}

func (s *CartService) CartIncrease(ctx context.Context, sessionID, name string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, "increase", func(c domain.Cart) domain.Cart {
		return cart.Increase(c, name)
	})
}

func (s *CartService) CartDecrease(ctx context.Context, sessionID, name string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, "decrease", func(c domain.Cart) domain.Cart {
		return cart.Decrease(c, name)
	})
}

func (s *CartService) CartRemove(ctx context.Context, sessionID, name string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, "remove", func(c domain.Cart) domain.Cart {
		return cart.RemoveItem(c, name)
	})
}

func (s *CartService) CartView(ctx context.Context, sessionID string) (*domain.Cart, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		logger.Printf(ctx, "session load error: %v \n", err)
		return nil, err
	}
	return &state.Cart, nil
}

// CartCheckout snapshots and clears the cart in a single session write.
// identity is the caller's token identity, used when the session carries none.
func (s *CartService) CartCheckout(ctx context.Context, sessionID string, identity *domain.SessionIdentity) (*domain.Order, error) {
	var (
		order domain.Order
		buyer *domain.SessionIdentity
	)
	_, err := s.sessions.Update(ctx, sessionID, func(st *session.State) error {
		buyer = st.Identity
		if buyer == nil {
			buyer = identity
		}
		placed, next, err := cart.Checkout(st.Cart, buyer != nil, s.now())
		if err != nil {
			return err
		}
		order = placed
		st.Cart = next
		return nil
	})
	if err != nil {
		s.metrics.Checkout(checkoutOutcome(err))
		return nil, err
	}
	s.metrics.Checkout("success")

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.publishOrder(context.WithoutCancel(ctx), buyer.UserID, order)
	}()

	return &order, nil
}

// Wait blocks until every order event handed off by CartCheckout has been
// published or has failed. Call it before closing the publisher.
func (s *CartService) Wait() {
	s.inflight.Wait()
}

func (s *CartService) publishOrder(ctx context.Context, userID string, order domain.Order) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.publisher.PublishOrderPlaced(ctx, userID, order); err != nil {
		logger.Printf(ctx, "publish order error: %v \n", err)
	}
}

func (s *CartService) mutate(ctx context.Context, sessionID, op string, fn func(domain.Cart) domain.Cart) (*domain.Cart, error) {
	state, err := s.sessions.Update(ctx, sessionID, func(st *session.State) error {
		st.Cart = fn(st.Cart)
		return nil
	})
	if err != nil {
		logger.Printf(ctx, "session update error (%s): %v \n", op, err)
		return nil, err
	}
	s.metrics.CartMutation(op)
	return &state.Cart, nil
}

func checkoutOutcome(err error) string {
	switch {
	case errors.Is(err, cart.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, cart.ErrEmptyCart):
		return "empty_cart"
	default:
		return "error"
	}
}

// Package cart implements the session cart mutation protocol.
// Every function takes the current cart and returns the next one; the
// argument is never modified, so callers can persist or discard the result.
package cart

import (
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// DeliveryLeadDays is added to the checkout date to estimate delivery.
const DeliveryLeadDays = 5

// Add increments the quantity of an existing item or appends a new one.
// The stored price of an existing item wins over price.
func Add(c domain.Cart, name string, price float64) domain.Cart {
	next := clone(c)
	if i := indexOf(next, name); i >= 0 {
		next.Items[i].Quantity++
		return next
	}
	next.Items = append(next.Items, domain.LineItem{Name: name, UnitPrice: price, Quantity: 1})
	return next
}

func Increase(c domain.Cart, name string) domain.Cart {
	next := clone(c)
	if i := indexOf(next, name); i >= 0 {
		next.Items[i].Quantity++
	}
	return next
}

// Decrease removes the item once its quantity drops to zero.
func Decrease(c domain.Cart, name string) domain.Cart {
	next := clone(c)
	i := indexOf(next, name)
	if i < 0 {
		return next
	}
	next.Items[i].Quantity--
	if next.Items[i].Quantity <= 0 {
		next.Items = append(next.Items[:i], next.Items[i+1:]...)
	}
	return next
}

func RemoveItem(c domain.Cart, name string) domain.Cart {
	next := domain.Cart{Items: make([]domain.LineItem, 0, len(c.Items))}
	for _, item := range c.Items {
		if item.Name != name {
			next.Items = append(next.Items, item)
		}
	}
	return next
}

func Total(c domain.Cart) float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// Checkout snapshots the cart into an order and returns the cleared cart.
// On error the input cart is returned unchanged.
func Checkout(c domain.Cart, authenticated bool, now time.Time) (domain.Order, domain.Cart, error) {
	if !authenticated {
		return domain.Order{}, c, ErrUnauthenticated
	}
	if c.IsEmpty() {
		return domain.Order{}, c, ErrEmptyCart
	}

	order := domain.Order{
		Items:        clone(c).Items,
		Total:        Total(c),
		DeliveryDate: now.AddDate(0, 0, DeliveryLeadDays),
		PlacedAt:     now,
	}
	return order, domain.Cart{Items: []domain.LineItem{}}, nil
}

// indexOf matches names exactly; no case folding or trimming.
func indexOf(c domain.Cart, name string) int {
	for i, item := range c.Items {
		if item.Name == name {
			return i
		}
	}
	return -1
}

func clone(c domain.Cart) domain.Cart {
	items := make([]domain.LineItem, len(c.Items))
	copy(items, c.Items)
	return domain.Cart{Items: items}
}

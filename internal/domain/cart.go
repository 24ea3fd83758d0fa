package domain

import "time"

// Cart is an ordered list of line items scoped to one session.
type Cart struct {
	Items []LineItem `json:"items"`
}

// LineItem is one product entry in a cart. Name is the identity key.
type LineItem struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"qty"`
}

func (i LineItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Order is the snapshot produced by checkout.
type Order struct {
	Items        []LineItem `json:"items"`
	Total        float64    `json:"total"`
	DeliveryDate time.Time  `json:"delivery_date"`
	PlacedAt     time.Time  `json:"placed_at"`
}

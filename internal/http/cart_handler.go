package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
)

const deliveryDateLayout = "Jan 2, 2006"

type CartOperations interface {
	CartAdd(ctx context.Context, sessionID, name string, price float64) (*domain.Cart, error)
	CartIncrease(ctx context.Context, sessionID, name string) (*domain.Cart, error)
	CartDecrease(ctx context.Context, sessionID, name string) (*domain.Cart, error)
	CartRemove(ctx context.Context, sessionID, name string) (*domain.Cart, error)
	CartView(ctx context.Context, sessionID string) (*domain.Cart, error)
	CartCheckout(ctx context.Context, sessionID string, identity *domain.SessionIdentity) (*domain.Order, error)
}

type CartHandler struct {
	carts   CartOperations
	timeout time.Duration
}

func NewCartHandler(carts CartOperations, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type ItemRequestDTO struct {
	Name string `json:"name"`
}

type LineItemResponse struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Qty      int     `json:"qty"`
	Subtotal float64 `json:"subtotal"`
}

type CartResponse struct {
	Items []LineItemResponse `json:"items"`
	Total float64            `json:"total"`
}

type OrderResponse struct {
	Items        []LineItemResponse `json:"items"`
	Total        float64            `json:"total"`
	DeliveryDate string             `json:"delivery_date"`
	PlacedAt     time.Time          `json:"placed_at"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if getIdentity(r.Context()) == nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "please log in to add items to the cart")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "name is required")
		return
	}
	if req.Price < 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "price must not be negative")
		return
	}

	c, err := h.carts.CartAdd(ctx, getSessionID(r.Context()), req.Name, req.Price)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toCartResponse(*c))
}

func (h *CartHandler) Increase(w http.ResponseWriter, r *http.Request) {
	h.byName(w, r, h.carts.CartIncrease)
}

func (h *CartHandler) Decrease(w http.ResponseWriter, r *http.Request) {
	h.byName(w, r, h.carts.CartDecrease)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.byName(w, r, h.carts.CartRemove)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.carts.CartView(ctx, getSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(*c))
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.carts.CartCheckout(ctx, getSessionID(r.Context()), getIdentity(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Printf(ctx, "order placed request_id=%s total=%.2f \n", getRequestID(r.Context()), order.Total)
	respondJSON(w, http.StatusOK, OrderResponse{
		Items:        toLineItems(order.Items),
		Total:        order.Total,
		DeliveryDate: order.DeliveryDate.Format(deliveryDateLayout),
		PlacedAt:     order.PlacedAt,
	})
}

func (h *CartHandler) byName(w http.ResponseWriter, r *http.Request, op func(context.Context, string, string) (*domain.Cart, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := op(ctx, getSessionID(r.Context()), req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(*c))
}

func toCartResponse(c domain.Cart) CartResponse {
	return CartResponse{
		Items: toLineItems(c.Items),
		Total: cart.Total(c),
	}
}

func toLineItems(items []domain.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, it := range items {
		out[i] = LineItemResponse{
			Name:     it.Name,
			Price:    it.UnitPrice,
			Qty:      it.Quantity,
			Subtotal: it.Subtotal(),
		}
	}
	return out
}

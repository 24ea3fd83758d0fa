package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
)

type CartMock struct {
	cart  *domain.Cart
	order *domain.Order
	err   error
}

func (c CartMock) CartAdd(context.Context, string, string, float64) (*domain.Cart, error) {
	return c.result()
}

func (c CartMock) CartIncrease(context.Context, string, string) (*domain.Cart, error) {
	return c.result()
}

func (c CartMock) CartDecrease(context.Context, string, string) (*domain.Cart, error) {
	return c.result()
}

func (c CartMock) CartRemove(context.Context, string, string) (*domain.Cart, error) {
	return c.result()
}

func (c CartMock) CartView(context.Context, string) (*domain.Cart, error) {
	return c.result()
}

func (c CartMock) CartCheckout(context.Context, string, *domain.SessionIdentity) (*domain.Order, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.order, nil
}

func (c CartMock) result() (*domain.Cart, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.cart, nil
}

func withIdentity(r *http.Request) *http.Request {
	ctx := context.WithValue(r.Context(), identityKey, &domain.SessionIdentity{UserID: "u-1"})
	ctx = context.WithValue(ctx, sessionIDKey, "sid")
	return r.WithContext(ctx)
}

func penCart() *domain.Cart {
	return &domain.Cart{Items: []domain.LineItem{{Name: "Pen", UnitPrice: 10, Quantity: 3}}}
}

func TestGetCart_Success(t *testing.T) {
	handler := NewCartHandler(CartMock{cart: penCart()}, 5*time.Second)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)

	handler.GetCart(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response CartResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(response.Items) != 1 || response.Items[0].Qty != 3 {
		t.Errorf("Expected one item with qty 3, got %+v", response.Items)
	}
	if response.Total != 30 {
		t.Errorf("Expected total 30, got %v", response.Total)
	}
	if response.Items[0].Subtotal != 30 {
		t.Errorf("Expected subtotal 30, got %v", response.Items[0].Subtotal)
	}
}

func TestAddItem_Success(t *testing.T) {
	handler := NewCartHandler(CartMock{cart: penCart()}, 5*time.Second)

	reqBytes, _ := json.Marshal(&AddItemRequestDTO{Name: "Pen", Price: 10})
	recorder := httptest.NewRecorder()
	request := withIdentity(httptest.NewRequest("POST", "/add", bytes.NewReader(reqBytes)))

	handler.AddItem(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Errorf("Expected status code %d, got %d", http.StatusCreated, recorder.Code)
	}
}

func TestAddItem_Unauthenticated(t *testing.T) {
	handler := NewCartHandler(CartMock{cart: penCart()}, 5*time.Second)

	reqBytes, _ := json.Marshal(&AddItemRequestDTO{Name: "Pen", Price: 10})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/add", bytes.NewReader(reqBytes))

	handler.AddItem(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "unauthenticated" {
		t.Errorf("Expected error code 'unauthenticated', got '%s'", response.Code)
	}
}

func TestAddItem_InvalidJSON(t *testing.T) {
	handler := NewCartHandler(CartMock{cart: penCart()}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withIdentity(httptest.NewRequest("POST", "/add", bytes.NewReader([]byte("invalid json"))))

	handler.AddItem(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestAddItem_Validation(t *testing.T) {
	tests := []struct {
		name string
		body AddItemRequestDTO
	}{
		{name: "empty name", body: AddItemRequestDTO{Name: "", Price: 10}},
		{name: "negative price", body: AddItemRequestDTO{Name: "Pen", Price: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCartHandler(CartMock{cart: penCart()}, 5*time.Second)
			reqBytes, _ := json.Marshal(&tt.body)
			recorder := httptest.NewRecorder()
			request := withIdentity(httptest.NewRequest("POST", "/add", bytes.NewReader(reqBytes)))

			handler.AddItem(recorder, request)

			if recorder.Code != http.StatusBadRequest {
				t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
			}
			var response ErrorResponse
			json.NewDecoder(recorder.Body).Decode(&response)
			if response.Code != "validation_error" {
				t.Errorf("Expected error code 'validation_error', got '%s'", response.Code)
			}
		})
	}
}

func TestDecrease_Success(t *testing.T) {
	handler := NewCartHandler(CartMock{cart: &domain.Cart{Items: []domain.LineItem{}}}, 5*time.Second)

	reqBytes, _ := json.Marshal(&ItemRequestDTO{Name: "Pen"})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/decrease", bytes.NewReader(reqBytes))

	handler.Decrease(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	var response CartResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Items == nil || len(response.Items) != 0 {
		t.Errorf("Expected an empty items array, got %+v", response.Items)
	}
}

func TestCheckout_FormatsDeliveryDate(t *testing.T) {
	order := &domain.Order{
		Items:        penCart().Items,
		Total:        30,
		DeliveryDate: time.Date(2025, 4, 4, 0, 0, 0, 0, time.UTC),
		PlacedAt:     time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC),
	}
	handler := NewCartHandler(CartMock{order: order}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withIdentity(httptest.NewRequest("POST", "/checkout", nil))

	handler.Checkout(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	var response OrderResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.DeliveryDate != "Apr 4, 2025" {
		t.Errorf("Expected delivery date 'Apr 4, 2025', got '%s'", response.DeliveryDate)
	}
	if response.Total != 30 {
		t.Errorf("Expected total 30, got %v", response.Total)
	}
}

func TestCheckout_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "unauthenticated", err: cart.ErrUnauthenticated, wantStatus: http.StatusUnauthorized, wantCode: "unauthenticated"},
		{name: "empty cart", err: cart.ErrEmptyCart, wantStatus: http.StatusConflict, wantCode: "empty_cart"},
		{name: "deadline", err: context.DeadlineExceeded, wantStatus: http.StatusGatewayTimeout, wantCode: "timeout"},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCartHandler(CartMock{err: tt.err}, 5*time.Second)
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest("POST", "/checkout", nil)

			handler.Checkout(recorder, request)

			if recorder.Code != tt.wantStatus {
				t.Errorf("Expected status code %d, got %d", tt.wantStatus, recorder.Code)
			}
			var response ErrorResponse
			json.NewDecoder(recorder.Body).Decode(&response)
			if response.Code != tt.wantCode {
				t.Errorf("Expected error code '%s', got '%s'", tt.wantCode, response.Code)
			}
		})
	}
}

package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type ProductSearcher interface {
	Search(ctx context.Context, query string) ([]domain.Product, error)
}

type ProductHandler struct {
	catalog ProductSearcher
	timeout time.Duration
}

func NewProductHandler(catalog ProductSearcher, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

type ProductResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Search   string            `json:"search,omitempty"`
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	search := r.URL.Query().Get("search")
	res, err := h.catalog.Search(ctx, search)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	products := make([]ProductResponse, len(res))
	for i, p := range res {
		products[i] = ProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
		}
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products, Search: search})
}

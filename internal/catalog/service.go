// Package catalog searches products by a free-text query.
package catalog

import (
	"context"
	"errors"
	"log"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
)

type ProductFinder interface {
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
}

type Service struct {
	repo  ProductFinder
	cache SearchCache
	sfg   singleflight.Group
}

func NewService(repo ProductFinder, cache SearchCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// Search returns products whose name or description contains query,
// ignoring case. Only the empty query returns the whole catalog; whitespace
// is matched literally.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Product, error) {
	folded := fold(query)

	v, err, _ := s.sfg.Do(folded, func() (interface{}, error) {
		products, err := s.cache.Get(ctx, folded)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("catalog cache get error: %v \n", err)
		}

		products, err = s.repo.SearchProducts(ctx, folded)
		if err != nil {
			return nil, err
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), folded, products); errSet != nil {
				log.Printf("catalog cache set error: %v \n", errSet)
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]domain.Product), nil
}

// cases.Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFinder struct {
	m        sync.RWMutex
	products []domain.Product
	err      error
	queries  []string
}

func (m *mockFinder) SearchProducts(_ context.Context, query string) ([]domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	matched := []domain.Product{}
	for _, p := range m.products {
		if query == "" || strings.Contains(fold(p.Name), query) || strings.Contains(fold(p.Description), query) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (m *mockFinder) received() []string {
	m.m.RLock()
	defer m.m.RUnlock()
	return append([]string(nil), m.queries...)
}

var testProducts = []domain.Product{
	{ID: 1, Name: "Wireless Headphones", Description: "Bluetooth, noise cancelling", Price: 89.99},
	{ID: 2, Name: "Smart Watch", Description: "Tracks your HEART rate", Price: 149},
	{ID: 3, Name: "Café Mug", Description: "Ceramic", Price: 12},
}

func setupTestService(t *testing.T, finder *mockFinder) (*Service, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewService(finder, NewRedisCache(client)), mr
}

func names(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestSearch_FoldsButDoesNotTrimQuery(t *testing.T) {
	finder := &mockFinder{products: testProducts}
	sut, _ := setupTestService(t, finder)

	products, err := sut.Search(context.Background(), " CAFÉ")

	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Equal(t, []string{" café"}, finder.received())
}

func TestSearch_EmptyQueryReturnsAll(t *testing.T) {
	sut, _ := setupTestService(t, &mockFinder{products: testProducts})

	products, err := sut.Search(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, []string{"Wireless Headphones", "Smart Watch", "Café Mug"}, names(products))
}

func TestSearch_PopulatesCache(t *testing.T) {
	finder := &mockFinder{products: testProducts}
	sut, mr := setupTestService(t, finder)
	ctx := context.Background()

	_, err := sut.Search(ctx, "Watch")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return mr.Exists(cacheKey("watch"))
	}, time.Second, 10*time.Millisecond)

	products, err := sut.Search(ctx, "WATCH")
	require.NoError(t, err)
	assert.Equal(t, []string{"Smart Watch"}, names(products))
	assert.Len(t, finder.received(), 1)
}

func TestSearch_RepoError(t *testing.T) {
	sut, _ := setupTestService(t, &mockFinder{err: errors.New("disk I/O error")})

	_, err := sut.Search(context.Background(), "watch")

	assert.ErrorContains(t, err, "disk I/O error")
}

func TestSearch_CacheDownFallsBackToRepo(t *testing.T) {
	sut, mr := setupTestService(t, &mockFinder{products: testProducts})
	mr.Close()

	products, err := sut.Search(context.Background(), "mug")

	require.NoError(t, err)
	assert.Equal(t, []string{"Café Mug"}, names(products))
}

func TestCacheKey_Format(t *testing.T) {
	assert.Equal(t, "catalog:search:pen", cacheKey("pen"))
}

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendline-shop/storefront/internal/domain"
)

type fakeCache struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	set      chan string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		products: map[string]*domain.Product{},
		set:      make(chan string, 8),
	}
}

func (f *fakeCache) Get(_ context.Context, productID string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[productID]; ok {
		return p, nil
	}
	return nil, ErrCacheMiss
}

func (f *fakeCache) Set(_ context.Context, productID string, product *domain.Product) error {
	f.mu.Lock()
	f.products[productID] = product
	f.mu.Unlock()
	f.set <- productID
	return nil
}

func TestGetProduct_Success(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/products/64f1b2", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"_id":"64f1b2","name":"Tee","price":1000,"Discounted_price":800,"picture":"/img/tee.jpg"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)

	product, err := client.GetProduct(context.Background(), "64f1b2")
	require.NoError(t, err)
	assert.Equal(t, "Tee", product.Name)
	assert.Equal(t, 800.0, product.EffectivePrice())
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetProduct_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)

	_, err := client.GetProduct(context.Background(), "gone")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetProduct_CacheHitSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"_id":"64f1b2","name":"Tee","price":1000}`))
	}))
	defer server.Close()

	cache := newFakeCache()
	client := NewClient(server.URL, 5*time.Second, cache)
	ctx := context.Background()

	_, err := client.GetProduct(ctx, "64f1b2")
	require.NoError(t, err)

	// Wait for the detached cache fill before the second lookup.
	select {
	case <-cache.set:
	case <-time.After(time.Second):
		t.Fatal("cache was never filled")
	}

	product, err := client.GetProduct(ctx, "64f1b2")
	require.NoError(t, err)
	assert.Equal(t, "Tee", product.Name)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetProduct_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := client.GetProduct(ctx, "64f1b2")
		require.Error(t, err)
	}

	// The breaker trips after six consecutive failures; later attempts
	// fail fast without reaching the upstream.
	assert.LessOrEqual(t, calls.Load(), int32(6))
}

func TestListProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		w.Write([]byte(`[{"_id":"a","name":"Tee","price":1000},{"_id":"b","name":"Hoodie","price":2500}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Hoodie", products[1].Name)
}

// Package catalog is the client for the remote product API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/trendline-shop/storefront/internal/domain"
)

var ErrNotFound = errors.New("product not found")

type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      ProductCache // nil disables caching
	breaker    *gobreaker.CircuitBreaker[*domain.Product]
	sfg        singleflight.Group // collapses concurrent lookups of one product
}

func NewClient(baseURL string, timeout time.Duration, cache ProductCache) *Client {
	breaker := gobreaker.NewCircuitBreaker[*domain.Product](gobreaker.Settings{
		Name:    "catalog",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			// A deleted product is a valid answer, not an upstream outage.
			return err == nil || errors.Is(err, ErrNotFound)
		},
	})

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cache:   cache,
		breaker: breaker,
	}
}

// GetProduct resolves one product by id, read-through cached.
func (c *Client) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	if productID == "" {
		return nil, ErrNotFound
	}

	if c.cache != nil {
		product, err := c.cache.Get(ctx, productID)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("product cache get error: %v", err)
		}
	}

	v, err, _ := c.sfg.Do(productID, func() (interface{}, error) {
		product, err := c.breaker.Execute(func() (*domain.Product, error) {
			return c.fetchProduct(ctx, productID)
		})
		if err != nil {
			return nil, err
		}

		if c.cache != nil {
			go func() {
				cacheCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if err := c.cache.Set(cacheCtx, productID, product); err != nil {
					log.Printf("product cache set error: %v", err)
				}
			}()
		}
		return product, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

// ListProducts fetches the whole catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	req, err := c.newRequest(ctx, c.baseURL+"/products")
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list products: unexpected status %d", resp.StatusCode)
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (c *Client) fetchProduct(ctx context.Context, productID string) (*domain.Product, error) {
	req, err := c.newRequest(ctx, c.baseURL+"/products/"+productID)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get product %s: unexpected status %d", productID, resp.StatusCode)
	}

	var product domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", productID, err)
	}
	return &product, nil
}

func (c *Client) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}
	return req, nil
}

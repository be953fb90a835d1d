// Package orders is the client for the remote order API, covering both the
// storefront order submission and the thin admin panel.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/trendline-shop/storefront/internal/domain"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Create submits one order. Any non-2xx response is an error; the optional
// message from the error body is carried into the returned error.
func (c *Client) Create(ctx context.Context, order domain.Order) error {
	body, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("create order: %s", errorMessage(resp))
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}

// List fetches all placed orders for the admin panel.
func (c *Client) List(ctx context.Context) ([]domain.PlacedOrder, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/api/orders", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list orders: %s", errorMessage(resp))
	}

	var payload struct {
		Orders []domain.PlacedOrder `json:"orders"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return payload.Orders, nil
}

// Complete marks an order as handled, removing it from the admin list.
func (c *Client) Complete(ctx context.Context, orderID string) error {
	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+"/api/orders/"+orderID+"/delete", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("complete order %s: %w", orderID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("complete order %s: %s", orderID, errorMessage(resp))
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}
	return req, nil
}

// errorMessage extracts the optional {"message": ...} from an error body.
func errorMessage(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
		return fmt.Sprintf("%s (status %d)", payload.Message, resp.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d", resp.StatusCode)
}

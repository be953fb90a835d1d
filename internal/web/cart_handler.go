package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/trendline-shop/storefront/internal/cart"
	"github.com/trendline-shop/storefront/internal/domain"
)

type CartHandler struct {
	cart           *cart.Service
	deliveryCharge float64
	timeout        time.Duration
}

func NewCartHandler(cartSvc *cart.Service, deliveryCharge float64, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:           cartSvc,
		deliveryCharge: deliveryCharge,
		timeout:        timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type CartResponseDTO struct {
	Items          []domain.LineItem `json:"items"`
	SubTotal       float64           `json:"sub_total"`
	DeliveryCharge float64           `json:"delivery_charge"`
	TotalPrice     float64           `json:"total_price"`
}

// GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	h.respondCart(ctx, w, http.StatusOK)
}

// POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	if err := h.cart.Add(ctx, req.ProductID, req.Size, req.Quantity); err != nil {
		handleUpstreamError(w, err)
		return
	}

	h.respondCart(ctx, w, http.StatusCreated)
}

// DELETE /api/cart/items/{key}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	key, err := domain.ParseItemKey(chi.URLParam(r, "key"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_key", "item key must be <productId> or <productId>-<size>")
		return
	}

	if err := h.cart.Remove(ctx, key.ProductID, key.Size); err != nil {
		handleUpstreamError(w, err)
		return
	}

	h.respondCart(ctx, w, http.StatusOK)
}

// DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.cart.Clear(ctx); err != nil {
		handleUpstreamError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /api/cart/events streams cart mutations as server-sent events so
// independent views refresh without polling. Mounted outside the timeout
// and compression middleware.
func (h *CartHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming unsupported")
		return
	}

	events, cancel := h.cart.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: cart\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (h *CartHandler) respondCart(ctx context.Context, w http.ResponseWriter, status int) {
	items, err := h.cart.Load(ctx)
	if err != nil {
		handleUpstreamError(w, err)
		return
	}

	subTotal := cart.Subtotal(items)
	respondJSON(w, status, CartResponseDTO{
		Items:          items,
		SubTotal:       subTotal,
		DeliveryCharge: h.deliveryCharge,
		TotalPrice:     subTotal + h.deliveryCharge,
	})
}

package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/trendline-shop/storefront/internal/domain"
)

// OrderLister is the slice of the orders client the admin panel needs.
type OrderLister interface {
	List(ctx context.Context) ([]domain.PlacedOrder, error)
	Complete(ctx context.Context, orderID string) error
}

type AdminHandler struct {
	orders  OrderLister
	timeout time.Duration
}

func NewAdminHandler(orders OrderLister, timeout time.Duration) *AdminHandler {
	return &AdminHandler{
		orders:  orders,
		timeout: timeout,
	}
}

type AdminOrdersResponseDTO struct {
	Orders []domain.PlacedOrder `json:"orders"`
}

// GET /api/admin/orders
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.orders.List(ctx)
	if err != nil {
		handleUpstreamError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.PlacedOrder{}
	}

	respondJSON(w, http.StatusOK, AdminOrdersResponseDTO{Orders: orders})
}

// POST /api/admin/orders/{order_id}/complete
func (h *AdminHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	if err := h.orders.Complete(ctx, orderID); err != nil {
		handleUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

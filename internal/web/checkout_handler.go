package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/trendline-shop/storefront/internal/checkout"
)

type CheckoutHandler struct {
	submitter *checkout.Submitter
	timeout   time.Duration
}

func NewCheckoutHandler(submitter *checkout.Submitter, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		submitter: submitter,
		timeout:   timeout,
	}
}

// POST /api/checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var customer checkout.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.submitter.Submit(ctx, customer)
	if err != nil {
		handleUpstreamError(w, err)
		return
	}

	http.Redirect(w, r, result.Redirect, http.StatusSeeOther)
}

// GET /api/checkout/status
func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": h.submitter.Status().String(),
	})
}

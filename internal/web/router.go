package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the storefront routes behind the shared middleware stack.
// The SSE route is registered outside the timeout and compression
// middleware, which would otherwise cut the stream off.
func NewRouter(
	cartHandler *CartHandler,
	productHandler *ProductHandler,
	checkoutHandler *CheckoutHandler,
	adminHandler *AdminHandler,
	requestTimeout time.Duration,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/cart/events", cartHandler.Events)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(middleware.Compress(5))

		r.Route("/api", func(r chi.Router) {
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Delete("/items/{key}", cartHandler.RemoveItem)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", productHandler.List)
				r.Get("/{product_id}", productHandler.Get)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", checkoutHandler.Submit)
				r.Get("/status", checkoutHandler.Status)
			})

			r.Route("/admin/orders", func(r chi.Router) {
				r.Get("/", adminHandler.ListOrders)
				r.Post("/{order_id}/complete", adminHandler.CompleteOrder)
			})
		})
	})

	return r
}

package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/trendline-shop/storefront/internal/catalog"
	"github.com/trendline-shop/storefront/internal/domain"
)

type ProductHandler struct {
	catalog *catalog.Client
	timeout time.Duration
}

func NewProductHandler(catalogClient *catalog.Client, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalogClient,
		timeout: timeout,
	}
}

type ProductResponseDTO struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	Picture         string  `json:"picture"`
	Price           float64 `json:"price"`
	DiscountedPrice float64 `json:"discounted_price,omitempty"`
	EffectivePrice  float64 `json:"effective_price"`
}

type ProductsResponseDTO struct {
	Products []ProductResponseDTO `json:"products"`
}

// GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		handleUpstreamError(w, err)
		return
	}

	dtos := make([]ProductResponseDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, toProductDTO(p))
	}
	respondJSON(w, http.StatusOK, ProductsResponseDTO{Products: dtos})
}

// GET /api/products/{product_id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "missing_product_id", "product_id is required")
		return
	}

	product, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		handleUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductDTO(*product))
}

func toProductDTO(p domain.Product) ProductResponseDTO {
	return ProductResponseDTO{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category,
		Picture:         p.Picture,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice,
		EffectivePrice:  p.EffectivePrice(),
	}
}

// Package mailer delivers the best-effort admin notification that follows a
// successful order submission.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/trendline-shop/storefront/internal/domain"
)

// Notification carries everything the admin template needs about one order.
type Notification struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	SubTotal        float64
	DeliveryCharge  float64
	TotalPrice      float64
	Products        []domain.OrderProduct
}

// Summary renders the order lines into the plain-text block the admin
// template expects, one product per line.
func (n Notification) Summary() string {
	lines := make([]string, 0, len(n.Products))
	for _, p := range n.Products {
		if p.Size != "" {
			lines = append(lines, fmt.Sprintf("Product ID: %s, Size: %s, Quantity: %d", p.ProductID, p.Size, p.Quantity))
		} else {
			lines = append(lines, fmt.Sprintf("Product ID: %s, Quantity: %d", p.ProductID, p.Quantity))
		}
	}
	return strings.Join(lines, "\n")
}

// Mailer sends one admin notification. Failures must stay inside the
// notification path; they never affect the order outcome.
type Mailer interface {
	SendOrderNotification(ctx context.Context, n Notification) error
}

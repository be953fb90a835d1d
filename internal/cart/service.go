// Package cart turns the persisted key-to-quantity mapping into resolved
// line items and owns every mutation of that mapping.
package cart

import (
	"context"
	"fmt"
	"log"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/trendline-shop/storefront/internal/domain"
	"github.com/trendline-shop/storefront/internal/localstore"
)

// resolveLimit caps how many product lookups run at once during a load.
const resolveLimit = 8

type Catalog interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}

type Service struct {
	store       localstore.Store
	catalog     Catalog
	broadcaster *Broadcaster
}

func NewService(store localstore.Store, catalog Catalog) *Service {
	return &Service{
		store:       store,
		catalog:     catalog,
		broadcaster: NewBroadcaster(),
	}
}

// Subscribe registers a listener for cart mutations.
func (s *Service) Subscribe() (<-chan Event, func()) {
	return s.broadcaster.Subscribe()
}

// Load resolves the persisted mapping into line items. Product lookups run
// concurrently; an entry that cannot be parsed or resolved is skipped and
// logged so one broken reference does not blank the whole cart. Only a
// failure to read the mapping itself is returned as an error.
func (s *Service) Load(ctx context.Context) ([]domain.LineItem, error) {
	data, err := s.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(data) == 0 {
		return []domain.LineItem{}, nil
	}

	// Stable order for rendering; the mapping itself is unordered.
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	resolved := make([]*domain.LineItem, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveLimit)

	for i, raw := range keys {
		i, raw := i, raw
		g.Go(func() error {
			quantity := data[raw]
			if quantity <= 0 {
				log.Printf("skipping cart entry %q: quantity %d", raw, quantity)
				return nil
			}

			key, err := domain.ParseItemKey(raw)
			if err != nil {
				log.Printf("skipping cart entry %q: %v", raw, err)
				return nil
			}

			product, err := s.catalog.GetProduct(gctx, key.ProductID)
			if err != nil {
				log.Printf("skipping product %s: %v", key.ProductID, err)
				return nil
			}

			resolved[i] = &domain.LineItem{
				ProductID: product.ID,
				Name:      product.Name,
				Picture:   product.Picture,
				Size:      key.Size,
				Quantity:  quantity,
				UnitPrice: product.EffectivePrice(),
			}
			return nil
		})
	}
	g.Wait()

	items := make([]domain.LineItem, 0, len(resolved))
	for _, li := range resolved {
		if li != nil {
			items = append(items, *li)
		}
	}
	return items, nil
}

// Add increments the stored quantity for the (product, size) key, creating
// the entry if absent. Quantities below one are clamped to one.
func (s *Service) Add(ctx context.Context, productID, size string, quantity int) error {
	if productID == "" {
		return domain.ErrInvalidItemKey
	}
	if quantity < 1 {
		quantity = 1
	}

	data, err := s.store.Read(ctx)
	if err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}

	key := domain.ItemKey{ProductID: productID, Size: size}.String()
	data[key] += quantity

	if err := s.store.Write(ctx, data); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}

	s.broadcaster.publish(Event{Op: "add", Key: key})
	return nil
}

// Remove deletes the (product, size) entry from the persisted mapping.
func (s *Service) Remove(ctx context.Context, productID, size string) error {
	data, err := s.store.Read(ctx)
	if err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}

	key := domain.ItemKey{ProductID: productID, Size: size}.String()
	delete(data, key)

	if err := s.store.Write(ctx, data); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}

	s.broadcaster.publish(Event{Op: "remove", Key: key})
	return nil
}

// Clear drops the entire persisted mapping.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	s.broadcaster.publish(Event{Op: "clear"})
	return nil
}

// Subtotal is the sum of unit price times quantity over all line items.
func Subtotal(items []domain.LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.UnitPrice * float64(item.Quantity)
	}
	return sum
}

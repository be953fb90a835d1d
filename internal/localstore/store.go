// Package localstore persists the cart mapping the storefront owns locally:
// a single JSON document of "<productId>-<size>" keys to quantities.
package localstore

import "context"

// Store reads and writes the persisted cart mapping. Implementations must
// make Write visible to the next Read before returning.
type Store interface {
	Read(ctx context.Context) (map[string]int, error)
	Write(ctx context.Context, items map[string]int) error
	Clear(ctx context.Context) error
}

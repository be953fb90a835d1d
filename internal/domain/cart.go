package domain

import (
	"errors"
	"strings"
)

var ErrInvalidItemKey = errors.New("invalid cart item key")

// ItemKey identifies one cart entry. Entries are unique per
// (product, size) pair; size is optional.
type ItemKey struct {
	ProductID string
	Size      string
}

// ParseItemKey parses the persisted "<productId>-<size>" form. The
// size-less "<productId>" form is accepted for carts written before
// sizes existed.
func ParseItemKey(s string) (ItemKey, error) {
	productID, size, _ := strings.Cut(s, "-")
	if productID == "" {
		return ItemKey{}, ErrInvalidItemKey
	}
	return ItemKey{ProductID: productID, Size: size}, nil
}

func (k ItemKey) String() string {
	if k.Size == "" {
		return k.ProductID
	}
	return k.ProductID + "-" + k.Size
}

// LineItem is the resolved view of one cart entry: the persisted key and
// quantity joined with the fetched product attributes. It is rebuilt on
// every cart load and never persisted itself.
type LineItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Picture   string  `json:"picture"`
	Size      string  `json:"size,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Key returns the cart key this line item originated from.
func (li LineItem) Key() ItemKey {
	return ItemKey{ProductID: li.ProductID, Size: li.Size}
}

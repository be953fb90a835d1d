package domain

// Product mirrors the product record returned by the remote catalog API.
// Field names are fixed by the API, including the capitalized discount field.
type Product struct {
	ID              string  `json:"_id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DiscountedPrice float64 `json:"Discounted_price,omitempty"`
	Picture         string  `json:"picture"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
}

// EffectivePrice returns the discounted price when one is set and actually
// lower than the list price, otherwise the list price.
func (p Product) EffectivePrice() float64 {
	if p.DiscountedPrice > 0 && p.DiscountedPrice < p.Price {
		return p.DiscountedPrice
	}
	return p.Price
}

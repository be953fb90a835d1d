package domain

import (
	"encoding/json"
	"time"
)

// OrderProduct is one (product, size, quantity) tuple of an order.
type OrderProduct struct {
	ProductID string `json:"productId"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Order is the snapshot submitted to the remote order API. It is assembled
// once per submission attempt and discarded afterwards regardless of outcome.
type Order struct {
	CustomerName    string         `json:"customerName"`
	CustomerEmail   string         `json:"customerEmail"`
	CustomerPhone   string         `json:"customerPhone"`
	CustomerAddress string         `json:"customerAddress"`
	SubTotal        float64        `json:"subTotal"`
	DeliveryCharge  float64        `json:"deliveryCharge"`
	TotalPrice      float64        `json:"totalPrice"`
	Products        []OrderProduct `json:"products"`
}

// ProductRef is a product reference inside a placed order. The API returns
// either the raw product id or the populated product record, depending on
// whether the referenced product still exists.
type ProductRef struct {
	ID      string
	Name    string
	Picture string
}

func (r *ProductRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	var populated struct {
		ID      string `json:"_id"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(data, &populated); err != nil {
		return err
	}
	r.ID = populated.ID
	r.Name = populated.Name
	r.Picture = populated.Picture
	return nil
}

func (r ProductRef) MarshalJSON() ([]byte, error) {
	if r.Name == "" && r.Picture == "" {
		return json.Marshal(r.ID)
	}
	return json.Marshal(struct {
		ID      string `json:"_id"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}{r.ID, r.Name, r.Picture})
}

// PlacedOrderLine is one product line of an already-placed order.
type PlacedOrderLine struct {
	Product  ProductRef `json:"productId"`
	Size     string     `json:"size,omitempty"`
	Quantity int        `json:"quantity"`
}

// PlacedOrder is an order as listed by the admin endpoint.
type PlacedOrder struct {
	ID              string            `json:"_id"`
	CustomerName    string            `json:"customerName"`
	CustomerEmail   string            `json:"customerEmail"`
	CustomerPhone   string            `json:"customerPhone"`
	CustomerAddress string            `json:"customerAddress"`
	SubTotal        float64           `json:"subTotal"`
	DeliveryCharge  float64           `json:"deliveryCharge"`
	TotalPrice      float64           `json:"totalPrice"`
	Products        []PlacedOrderLine `json:"products"`
	CreatedAt       time.Time         `json:"createdAt"`
}

package api

import "encoding/json"

// Envelope is the backend's JSON response shape.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Code    int             `json:"code,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Brand is a product's brand.
type Brand struct {
	Name string `json:"name"`
}

// VariantCombination is a purchasable option set of a product, such as a
// size and colour pair.
type VariantCombination struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Product is a catalog entry as returned by the category endpoint.
type Product struct {
	ID       string               `json:"_id"`
	Name     string               `json:"name"`
	Price    float64              `json:"price"`
	Images   []string             `json:"images"`
	Brand    *Brand               `json:"brand,omitempty"`
	Stock    int                  `json:"stock,omitempty"`
	Variants []VariantCombination `json:"variantCombinations,omitempty"`
}

// BrandName returns the brand name or "" when the product has none.
func (p Product) BrandName() string {
	if p.Brand == nil {
		return ""
	}
	return p.Brand.Name
}

// AddToCartRequest is the body of POST /api/cart/add.
type AddToCartRequest struct {
	ProductID            string `json:"productId"`
	Quantity             int    `json:"quantity"`
	VariantCombinationID string `json:"variantCombinationId,omitempty"`
}

// CartResult is a successful add-to-cart outcome.
type CartResult struct {
	Message string
	Data    json.RawMessage
}

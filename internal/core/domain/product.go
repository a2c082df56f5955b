package domain

import "errors"

var ErrProductNotFound = errors.New("product not found")
var ErrNoValidRecords = errors.New("no valid records")

// Product is a base catalog record. BasePrice is the canonical price
// before any role adjustment.
type Product struct {
	ID          string  `json:"id" bson:"_id"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	BasePrice   float64 `json:"base_price" bson:"base_price"`
	Stock       int     `json:"stock" bson:"stock"`
	Image       string  `json:"image" bson:"image"`
	Category    string  `json:"category" bson:"category"`
}

// PricedProduct is a Product projected through the role policy. Price is
// derived on read and never persisted independently.
type PricedProduct struct {
	Product
	Price float64 `json:"price"`
}

// Priced returns the product with its display price derived for role.
func (p Product) Priced(role Role) PricedProduct {
	return PricedProduct{Product: p, Price: PriceFor(p.BasePrice, role)}
}

// DeriveAll projects a catalog snapshot through the role policy,
// preserving input order.
func DeriveAll(products []Product, role Role) []PricedProduct {
	out := make([]PricedProduct, len(products))
	for i, p := range products {
		out[i] = p.Priced(role)
	}
	return out
}

// DistinctCategories returns the unique category values in first-seen order.
func DistinctCategories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	var out []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

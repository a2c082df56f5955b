package domain

import (
	"errors"
	"math"
	"time"
)

var ErrCartNotFound = errors.New("cart not found")
var ErrCartEmpty = errors.New("cart is empty")
var ErrCheckoutInProgress = errors.New("checkout already in progress")

// CartLine is a quantity-adjusted line item. Name and UnitPrice are
// captured from the priced product at add-time and never re-derived:
// role switches or admin price edits after adding do not change the
// line until it is removed and re-added.
type CartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Cart holds the line items for one user. At most one line per product.
type Cart struct {
	UserID    string     `json:"user_id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartTotals is the derived summary of a cart.
type CartTotals struct {
	TotalItems int     `json:"total_items"`
	TotalPrice float64 `json:"total_price"`
}

// NewCart returns an empty cart for userID.
func NewCart(userID string) *Cart {
	return &Cart{UserID: userID}
}

// Add inserts a line for the product or, if one exists, increments its
// quantity by qty. Quantities below one are coerced to one.
func (c *Cart) Add(product PricedProduct, qty int) {
	if qty < 1 {
		qty = 1
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == product.ID {
			c.Lines[i].Quantity += qty
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  qty,
	})
}

// SetQuantity overwrites the line's quantity. A quantity of zero or less
// removes the line. Setting an absent line is a no-op.
func (c *Cart) SetQuantity(productID string, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = qty
			return
		}
	}
}

// Remove deletes the line if present. Idempotent.
func (c *Cart) Remove(productID string) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Clear empties all lines.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Totals derives the item count and price sum over captured unit prices.
func (c *Cart) Totals() CartTotals {
	var t CartTotals
	for _, l := range c.Lines {
		t.TotalItems += l.Quantity
		t.TotalPrice += l.UnitPrice * float64(l.Quantity)
	}
	t.TotalPrice = math.Round(t.TotalPrice*100) / 100
	return t
}

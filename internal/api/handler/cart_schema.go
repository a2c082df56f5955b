package handler

import "time"

// --- Request types ---

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"omitempty,gte=1"`
}

type setQuantityRequest struct {
	// Zero removes the line, matching the ledger contract.
	Quantity int `json:"quantity" validate:"gte=0"`
}

// --- Response types ---

type cartLineResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type cartResponse struct {
	Lines      []cartLineResponse `json:"lines"`
	TotalItems int                `json:"total_items"`
	TotalPrice float64            `json:"total_price"`
}

type checkoutResponse struct {
	TransactionID string    `json:"transaction_id"`
	Total         float64   `json:"total"`
	TotalItems    int       `json:"total_items"`
	CompletedAt   time.Time `json:"completed_at"`
}

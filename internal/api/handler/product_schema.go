package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// updateProductRequest carries a partial edit; absent fields are left
// untouched. The derived price is never editable.
type updateProductRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	BasePrice   *float64 `json:"base_price"  validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock"       validate:"omitempty,gte=0"`
	Image       *string  `json:"image"`
	Category    *string  `json:"category"`
}

// Response-only types owned by the transport layer.
// These are intentionally separate from ports/domain types so the JSON
// contract is not coupled to internal service changes.

// productResponse always carries both the base price and the price
// derived for the caller's role.
type productResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

type listProductsResponse struct {
	Data  []productResponse `json:"data"`
	Total int               `json:"total"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

type importResponse struct {
	Accepted int    `json:"accepted"`
	Dropped  int    `json:"dropped"`
	Warning  string `json:"warning,omitempty"`
}

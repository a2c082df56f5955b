package ports

import (
	"context"

	"github.com/priceworth/storefront-api/internal/core/domain"
)

// ImportRow is one record supplied by the bulk import collaborator,
// mapping field name to its raw string value.
type ImportRow map[string]string

// ImportResult reports how many rows survived validation. Dropped rows
// never abort the batch; callers should surface a warning when Accepted
// is zero.
type ImportResult struct {
	Accepted int
	Dropped  int
}

// ListProductsInput carries the pricing role and the filter parameters.
// Role may be empty for anonymous sessions (base price). Category "all"
// or empty disables the category filter.
type ListProductsInput struct {
	Role     domain.Role
	Search   string
	Category string
}

// CatalogService defines use-case operations for the product catalog.
type CatalogService interface {
	// ReplaceCatalog validates rows, drops malformed ones individually,
	// and atomically replaces the base catalog with the survivors.
	// Returns domain.ErrNoValidRecords when nothing survives.
	ReplaceCatalog(ctx context.Context, rows []ImportRow) (*ImportResult, error)
	// ListProducts derives display prices for the role and applies the
	// search/category filter, preserving catalog order.
	ListProducts(ctx context.Context, input ListProductsInput) ([]domain.PricedProduct, error)
	GetProduct(ctx context.Context, id string, role domain.Role) (*domain.PricedProduct, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) error
	DeleteProduct(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
}

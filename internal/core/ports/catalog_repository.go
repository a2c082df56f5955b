package ports

import (
	"context"

	"github.com/priceworth/storefront-api/internal/core/domain"
)

// ProductPatch carries a partial update. Nil fields are left untouched.
// ID and the derived price are never patchable.
type ProductPatch struct {
	Name        *string
	Description *string
	BasePrice   *float64
	Stock       *int
	Image       *string
	Category    *string
}

// CatalogRepository defines persistence operations for base products.
type CatalogRepository interface {
	// ReplaceAll swaps the entire catalog for the given records in one
	// operation; intermediate state must not be observable by readers.
	ReplaceAll(ctx context.Context, products []domain.Product) error
	// List returns the full base catalog in stable insertion order.
	List(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// UpdateOne merges non-nil patch fields into the matching product.
	// Returns domain.ErrProductNotFound when the id is absent.
	UpdateOne(ctx context.Context, id string, patch ProductPatch) error
	// DeleteOne removes the product. Deleting an absent id is not an error.
	DeleteOne(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

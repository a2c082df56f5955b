package ports

import (
	"context"
	"time"

	"github.com/priceworth/storefront-api/internal/core/domain"
)

// CartStore persists carts across process restarts. Implementations are
// opaque key-value blob stores keyed by user id.
type CartStore interface {
	// Load returns the user's cart, or domain.ErrCartNotFound when the
	// user has never saved one.
	Load(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}

// CheckoutGuard suppresses duplicate checkout submissions for a user
// while one is pending.
type CheckoutGuard interface {
	// Acquire reports whether the caller obtained the checkout slot.
	Acquire(ctx context.Context, userID string) (bool, error)
	Release(ctx context.Context, userID string) error
}

// CheckoutInput identifies the user completing a checkout; the identity
// fields end up on the recorded transaction.
type CheckoutInput struct {
	UserID   string
	UserName string
	Role     domain.Role
}

// CheckoutResult is returned once the simulated payment confirms.
type CheckoutResult struct {
	TransactionID string
	Total         float64
	TotalItems    int
	CompletedAt   time.Time
}

// CartService defines use-case operations for the cart ledger.
type CartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	// Add captures the priced product snapshot at add-time; repeat adds
	// for the same product sum quantities.
	Add(ctx context.Context, userID string, product domain.PricedProduct, quantity int) (*domain.Cart, error)
	// SetQuantity overwrites the line quantity; zero or less removes it.
	SetQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	Remove(ctx context.Context, userID, productID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) error
	// Checkout confirms the simulated payment, records the transaction,
	// and atomically clears the cart. A second checkout for the same
	// user while one is pending fails with domain.ErrCheckoutInProgress.
	Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
}

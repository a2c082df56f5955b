package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/priceworth/storefront-api/internal/api/metrics"
	"github.com/priceworth/storefront-api/internal/core/domain"
	"github.com/priceworth/storefront-api/internal/core/ports"
)

// CartService owns the cart ledger. All mutations run a load-modify-save
// cycle against the store under a single mutex: concurrent HTTP callers
// must not interleave between load and save.
type CartService struct {
	store         ports.CartStore
	guard         ports.CheckoutGuard
	analytics     ports.AnalyticsRecorder
	checkoutDelay time.Duration
	log           zerolog.Logger

	mu sync.Mutex
}

// NewCartService builds a CartService. checkoutDelay models the remote
// payment confirmation round-trip; zero is valid (tests).
func NewCartService(
	store ports.CartStore,
	guard ports.CheckoutGuard,
	analytics ports.AnalyticsRecorder,
	checkoutDelay time.Duration,
	log zerolog.Logger,
) *CartService {
	return &CartService{
		store:         store,
		guard:         guard,
		analytics:     analytics,
		checkoutDelay: checkoutDelay,
		log:           log,
	}
}

// Get returns the user's cart, or an empty one if none was ever saved.
func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.load(ctx, userID)
}

// Add captures the priced product snapshot and inserts or increments the
// line. The captured price is frozen: later role switches or admin edits
// do not change it.
func (s *CartService) Add(ctx context.Context, userID string, product domain.PricedProduct, quantity int) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Add(product, quantity)
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	s.log.Debug().Str("user_id", userID).Str("product_id", product.ID).Int("quantity", quantity).Msg("cart line added")
	return cart, nil
}

// SetQuantity overwrites the line quantity; zero or less removes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.SetQuantity(productID, quantity)
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Remove deletes the line if present. Idempotent.
func (s *CartService) Remove(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Remove(productID)
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Delete(ctx, userID)
}

// Checkout confirms the simulated payment, records the transaction with
// the analytics sink, and atomically clears the cart. The guard rejects
// a second checkout for the same user while one is pending. The demo
// payment step never fails; the cart is still only cleared after it
// returns, so a future failure path leaves the ledger intact.
func (s *CartService) Checkout(ctx context.Context, input ports.CheckoutInput) (*ports.CheckoutResult, error) {
	acquired, err := s.guard.Acquire(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	if !acquired {
		return nil, domain.ErrCheckoutInProgress
	}
	defer func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), input.UserID); err != nil {
			s.log.Warn().Err(err).Str("user_id", input.UserID).Msg("failed to release checkout guard")
		}
	}()

	cart, err := s.load(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, domain.ErrCartEmpty
	}
	totals := cart.Totals()

	timer := prometheus.NewTimer(metrics.CheckoutDuration)
	if err := s.confirmPayment(ctx); err != nil {
		timer.ObserveDuration()
		return nil, err
	}
	timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	txnID := generateTransactionID()
	if err := s.store.Delete(ctx, input.UserID); err != nil {
		return nil, fmt.Errorf("checkout: clear cart: %w", err)
	}

	items := make([]ports.TransactionItemInput, len(cart.Lines))
	for i, line := range cart.Lines {
		items[i] = ports.TransactionItemInput{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			Price:       line.UnitPrice,
		}
	}
	s.analytics.Record(ports.AnalyticsEvent{
		Kind:      ports.EventTransaction,
		Timestamp: time.Now().UTC(),
		Transaction: &ports.TransactionInput{
			TransactionID: txnID,
			UserID:        input.UserID,
			UserName:      input.UserName,
			Role:          input.Role,
			Items:         items,
			Total:         totals.TotalPrice,
		},
	})

	metrics.CheckoutsTotal.WithLabelValues(string(input.Role)).Inc()
	s.log.Info().
		Str("user_id", input.UserID).
		Str("transaction_id", txnID).
		Float64("total", totals.TotalPrice).
		Msg("checkout completed")

	return &ports.CheckoutResult{
		TransactionID: txnID,
		Total:         totals.TotalPrice,
		TotalItems:    totals.TotalItems,
		CompletedAt:   time.Now().UTC(),
	}, nil
}

// confirmPayment models the remote payment round-trip with a fixed delay.
func (s *CartService) confirmPayment(ctx context.Context) error {
	if s.checkoutDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.checkoutDelay):
		return nil
	}
}

func (s *CartService) load(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.store.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return domain.NewCart(userID), nil
		}
		return nil, err
	}
	return cart, nil
}

func (s *CartService) save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	return s.store.Save(ctx, cart)
}

// generateTransactionID returns a unique id in the format TXN-XXXXXXXX.
func generateTransactionID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("TXN-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("TXN-%08X", b)
}

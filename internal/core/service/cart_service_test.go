package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/priceworth/storefront-api/internal/core/domain"
	"github.com/priceworth/storefront-api/internal/core/ports"
)

type memoryCartStore struct {
	carts map[string]*domain.Cart
}

func newMemoryCartStore() *memoryCartStore {
	return &memoryCartStore{carts: make(map[string]*domain.Cart)}
}

func cloneCart(c *domain.Cart) *domain.Cart {
	clone := *c
	clone.Lines = append([]domain.CartLine(nil), c.Lines...)
	return &clone
}

func (s *memoryCartStore) Load(_ context.Context, userID string) (*domain.Cart, error) {
	cart, ok := s.carts[userID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return cloneCart(cart), nil
}

func (s *memoryCartStore) Save(_ context.Context, cart *domain.Cart) error {
	s.carts[cart.UserID] = cloneCart(cart)
	return nil
}

func (s *memoryCartStore) Delete(_ context.Context, userID string) error {
	delete(s.carts, userID)
	return nil
}

type memoryGuard struct {
	held map[string]bool
}

func newMemoryGuard() *memoryGuard {
	return &memoryGuard{held: make(map[string]bool)}
}

func (g *memoryGuard) Acquire(_ context.Context, userID string) (bool, error) {
	if g.held[userID] {
		return false, nil
	}
	g.held[userID] = true
	return true, nil
}

func (g *memoryGuard) Release(_ context.Context, userID string) error {
	delete(g.held, userID)
	return nil
}

type recordingSink struct {
	events []ports.AnalyticsEvent
}

func (r *recordingSink) Record(event ports.AnalyticsEvent) {
	r.events = append(r.events, event)
}

func newTestCartService() (*CartService, *memoryCartStore, *memoryGuard, *recordingSink) {
	store := newMemoryCartStore()
	guard := newMemoryGuard()
	sink := &recordingSink{}
	svc := NewCartService(store, guard, sink, 0, zerolog.Nop())
	return svc, store, guard, sink
}

func priced(id string, base float64, role domain.Role) domain.PricedProduct {
	return domain.Product{ID: id, Name: "Product " + id, BasePrice: base}.Priced(role)
}

func TestCartService_Add_SumsQuantities(t *testing.T) {
	svc, _, _, _ := newTestCartService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", priced("p1", 10, domain.RoleNormal), 2); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	cart, err := svc.Add(ctx, "u1", priced("p1", 10, domain.RoleNormal), 3)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 5 {
		t.Fatalf("expected one line with quantity 5, got %+v", cart.Lines)
	}
}

func TestCartService_FrozenPriceSurvivesRoleSwitch(t *testing.T) {
	svc, _, _, _ := newTestCartService()
	ctx := context.Background()

	// FRIEND adds at the derived price 80.
	cart, err := svc.Add(ctx, "u1", priced("p1", 100, domain.RoleFriend), 1)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if cart.Lines[0].UnitPrice != 80 {
		t.Fatalf("expected captured price 80, got %v", cart.Lines[0].UnitPrice)
	}

	// Same user, now OPPONENT, bumps quantity. The catalog would show
	// 120, but the existing line keeps its add-time price.
	cart, err = svc.Add(ctx, "u1", priced("p1", 100, domain.RoleOpponent), 1)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if cart.Lines[0].UnitPrice != 80 {
		t.Fatalf("expected frozen price 80 after role switch, got %v", cart.Lines[0].UnitPrice)
	}
	if got := cart.Totals().TotalPrice; got != 160 {
		t.Fatalf("expected total 160, got %v", got)
	}
}

func TestCartService_SetQuantity_ZeroRemovesLine(t *testing.T) {
	svc, _, _, _ := newTestCartService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", priced("p1", 10, domain.RoleNormal), 2); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	cart, err := svc.SetQuantity(ctx, "u1", "p1", 0)
	if err != nil {
		t.Fatalf("SetQuantity error: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart.Lines)
	}
}

func TestCartService_Remove_Idempotent(t *testing.T) {
	svc, _, _, _ := newTestCartService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", priced("p1", 10, domain.RoleNormal), 1); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if _, err := svc.Remove(ctx, "u1", "p1"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	cart, err := svc.Remove(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("repeat Remove must succeed, got %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart.Lines)
	}
}

func TestCartService_Get_UnknownUserReturnsEmptyCart(t *testing.T) {
	svc, _, _, _ := newTestCartService()

	cart, err := svc.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if cart.UserID != "nobody" || len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart for unknown user, got %+v", cart)
	}
}

func TestCartService_Checkout_ClearsCartAndRecordsTransaction(t *testing.T) {
	svc, store, _, sink := newTestCartService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", priced("p1", 100, domain.RoleFriend), 2); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	result, err := svc.Checkout(ctx, ports.CheckoutInput{UserID: "u1", UserName: "Alice", Role: domain.RoleFriend})
	if err != nil {
		t.Fatalf("Checkout error: %v", err)
	}
	if result.Total != 160 || result.TotalItems != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !strings.HasPrefix(result.TransactionID, "TXN-") {
		t.Fatalf("unexpected transaction id: %s", result.TransactionID)
	}

	if _, ok := store.carts["u1"]; ok {
		t.Fatalf("cart must be cleared after checkout")
	}

	if len(sink.events) != 1 || sink.events[0].Kind != ports.EventTransaction {
		t.Fatalf("expected one transaction event, got %+v", sink.events)
	}
	txn := sink.events[0].Transaction
	if txn.Total != 160 || txn.UserID != "u1" || len(txn.Items) != 1 {
		t.Fatalf("unexpected transaction payload: %+v", txn)
	}
}

func TestCartService_Checkout_EmptyCart(t *testing.T) {
	svc, _, _, _ := newTestCartService()

	_, err := svc.Checkout(context.Background(), ports.CheckoutInput{UserID: "u1", Role: domain.RoleNormal})
	if !errors.Is(err, domain.ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestCartService_Checkout_RejectsConcurrentAttempt(t *testing.T) {
	svc, _, guard, _ := newTestCartService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", priced("p1", 10, domain.RoleNormal), 1); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	// another request holds the slot already
	if ok, _ := guard.Acquire(ctx, "u1"); !ok {
		t.Fatalf("setup: expected to acquire guard")
	}

	if _, err := svc.Checkout(ctx, ports.CheckoutInput{UserID: "u1", Role: domain.RoleNormal}); !errors.Is(err, domain.ErrCheckoutInProgress) {
		t.Fatalf("expected ErrCheckoutInProgress, got %v", err)
	}
}

func TestCartService_Checkout_ReleasesGuard(t *testing.T) {
	svc, _, guard, _ := newTestCartService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", priced("p1", 10, domain.RoleNormal), 1); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if _, err := svc.Checkout(ctx, ports.CheckoutInput{UserID: "u1", Role: domain.RoleNormal}); err != nil {
		t.Fatalf("Checkout error: %v", err)
	}
	if guard.held["u1"] {
		t.Fatalf("guard must be released after checkout")
	}

	// a failed attempt (empty cart now) also releases the slot
	if _, err := svc.Checkout(ctx, ports.CheckoutInput{UserID: "u1", Role: domain.RoleNormal}); !errors.Is(err, domain.ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
	if guard.held["u1"] {
		t.Fatalf("guard must be released after failed checkout")
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/priceworth/storefront-api/internal/core/domain"
	"github.com/priceworth/storefront-api/internal/core/ports"
)

type memoryAnalyticsRepo struct {
	views        []domain.ProductView
	logins       []domain.LoginRecord
	transactions []domain.Transaction
}

func (r *memoryAnalyticsRepo) InsertView(_ context.Context, v *domain.ProductView) error {
	r.views = append(r.views, *v)
	return nil
}

func (r *memoryAnalyticsRepo) InsertLogin(_ context.Context, l *domain.LoginRecord) error {
	r.logins = append(r.logins, *l)
	return nil
}

func (r *memoryAnalyticsRepo) InsertTransaction(_ context.Context, t *domain.Transaction) error {
	r.transactions = append(r.transactions, *t)
	return nil
}

func (r *memoryAnalyticsRepo) ListViews(_ context.Context) ([]domain.ProductView, error) {
	return r.views, nil
}

func (r *memoryAnalyticsRepo) ListLogins(_ context.Context) ([]domain.LoginRecord, error) {
	return r.logins, nil
}

func (r *memoryAnalyticsRepo) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	return r.transactions, nil
}

func newTestAnalytics(repo *memoryAnalyticsRepo) ports.AnalyticsService {
	return NewAnalyticsService(repo, zerolog.Nop())
}

func TestAnalyticsService_Process_PersistsEachKind(t *testing.T) {
	repo := &memoryAnalyticsRepo{}
	svc := newTestAnalytics(repo)
	ctx := context.Background()
	now := time.Now().UTC()

	events := []ports.AnalyticsEvent{
		{Kind: ports.EventProductView, Timestamp: now, ProductView: &ports.ProductViewInput{ProductID: "p1", ProductName: "Laptop", UserID: "u1"}},
		{Kind: ports.EventLogin, Timestamp: now, Login: &ports.LoginInput{UserID: "u1", UserName: "Alice", Role: domain.RoleFriend}},
		{Kind: ports.EventTransaction, Timestamp: now, Transaction: &ports.TransactionInput{
			TransactionID: "TXN-1", UserID: "u1", UserName: "Alice", Role: domain.RoleFriend,
			Items: []ports.TransactionItemInput{{ProductID: "p1", ProductName: "Laptop", Quantity: 2, Price: 80}},
			Total: 160,
		}},
	}
	for _, e := range events {
		if err := svc.Process(ctx, e); err != nil {
			t.Fatalf("Process(%s) error: %v", e.Kind, err)
		}
	}

	if len(repo.views) != 1 || len(repo.logins) != 1 || len(repo.transactions) != 1 {
		t.Fatalf("unexpected persistence counts: %d views, %d logins, %d transactions",
			len(repo.views), len(repo.logins), len(repo.transactions))
	}
	if repo.transactions[0].Total != 160 || repo.transactions[0].ID != "TXN-1" {
		t.Fatalf("unexpected transaction: %+v", repo.transactions[0])
	}
}

func TestAnalyticsService_Process_UnknownKind(t *testing.T) {
	svc := newTestAnalytics(&memoryAnalyticsRepo{})

	if err := svc.Process(context.Background(), ports.AnalyticsEvent{Kind: "mystery"}); err == nil {
		t.Fatalf("expected error for unknown event kind")
	}
}

func TestAnalyticsService_ProductViewStats_SortedByCountDesc(t *testing.T) {
	repo := &memoryAnalyticsRepo{}
	svc := newTestAnalytics(repo)
	now := time.Now().UTC()

	for _, id := range []string{"p2", "p1", "p2", "p3", "p2", "p1"} {
		repo.views = append(repo.views, domain.ProductView{ProductID: id, ProductName: "Product " + id, UserID: "u1", Timestamp: now})
	}

	stats, err := svc.ProductViewStats(context.Background())
	if err != nil {
		t.Fatalf("ProductViewStats error: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("expected 3 stats, got %d", len(stats))
	}
	if stats[0].ProductID != "p2" || stats[0].Count != 3 {
		t.Fatalf("expected p2 first with 3 views, got %+v", stats[0])
	}
	if stats[1].ProductID != "p1" || stats[1].Count != 2 {
		t.Fatalf("expected p1 second with 2 views, got %+v", stats[1])
	}
	if stats[2].ProductID != "p3" || stats[2].Count != 1 {
		t.Fatalf("expected p3 last with 1 view, got %+v", stats[2])
	}
}

func TestAnalyticsService_RoleStats_ZeroFilled(t *testing.T) {
	repo := &memoryAnalyticsRepo{}
	svc := newTestAnalytics(repo)
	now := time.Now().UTC()

	repo.logins = append(repo.logins,
		domain.LoginRecord{UserID: "u1", UserRole: domain.RoleFriend, Timestamp: now},
		domain.LoginRecord{UserID: "u1", UserRole: domain.RoleFriend, Timestamp: now},
		domain.LoginRecord{UserID: "u2", UserRole: domain.RoleAdmin, Timestamp: now},
	)

	stats, err := svc.RoleStats(context.Background())
	if err != nil {
		t.Fatalf("RoleStats error: %v", err)
	}
	if len(stats) != 4 {
		t.Fatalf("expected all four roles reported, got %d", len(stats))
	}
	byRole := make(map[domain.Role]int, len(stats))
	for _, s := range stats {
		byRole[s.Role] = s.Count
	}
	if byRole[domain.RoleFriend] != 2 || byRole[domain.RoleAdmin] != 1 {
		t.Fatalf("unexpected counts: %+v", byRole)
	}
	if byRole[domain.RoleNormal] != 0 || byRole[domain.RoleOpponent] != 0 {
		t.Fatalf("roles without logins must be zero-filled: %+v", byRole)
	}
}

func TestAnalyticsService_DailySales_GroupedByDayAscending(t *testing.T) {
	repo := &memoryAnalyticsRepo{}
	svc := newTestAnalytics(repo)

	day1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	repo.transactions = append(repo.transactions,
		domain.Transaction{ID: "t1", Total: 100, Timestamp: day2},
		domain.Transaction{ID: "t2", Total: 40, Timestamp: day1},
		domain.Transaction{ID: "t3", Total: 60, Timestamp: day1.Add(5 * time.Hour)},
	)

	stats, err := svc.DailySales(context.Background())
	if err != nil {
		t.Fatalf("DailySales error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 days, got %d", len(stats))
	}
	if stats[0].Date != "2026-03-01" || stats[0].Sales != 100 {
		t.Fatalf("unexpected first day: %+v", stats[0])
	}
	if stats[1].Date != "2026-03-02" || stats[1].Sales != 100 {
		t.Fatalf("unexpected second day: %+v", stats[1])
	}
}

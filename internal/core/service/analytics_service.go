package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/priceworth/storefront-api/internal/api/metrics"
	"github.com/priceworth/storefront-api/internal/core/domain"
	"github.com/priceworth/storefront-api/internal/core/ports"
)

type analyticsService struct {
	repo ports.AnalyticsRepository
	log  zerolog.Logger
}

// NewAnalyticsService returns an AnalyticsService implementation.
func NewAnalyticsService(repo ports.AnalyticsRepository, log zerolog.Logger) ports.AnalyticsService {
	return &analyticsService{repo: repo, log: log}
}

// Process persists a single analytics event delivered by the dispatcher.
func (s *analyticsService) Process(ctx context.Context, event ports.AnalyticsEvent) error {
	var err error
	switch event.Kind {
	case ports.EventProductView:
		err = s.repo.InsertView(ctx, &domain.ProductView{
			ProductID:   event.ProductView.ProductID,
			ProductName: event.ProductView.ProductName,
			UserID:      event.ProductView.UserID,
			Timestamp:   event.Timestamp,
		})
	case ports.EventLogin:
		err = s.repo.InsertLogin(ctx, &domain.LoginRecord{
			UserID:    event.Login.UserID,
			UserName:  event.Login.UserName,
			UserRole:  event.Login.Role,
			Timestamp: event.Timestamp,
		})
	case ports.EventTransaction:
		items := make([]domain.TransactionItem, len(event.Transaction.Items))
		for i, it := range event.Transaction.Items {
			items[i] = domain.TransactionItem{
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				Price:       it.Price,
			}
		}
		err = s.repo.InsertTransaction(ctx, &domain.Transaction{
			ID:        event.Transaction.TransactionID,
			UserID:    event.Transaction.UserID,
			UserName:  event.Transaction.UserName,
			UserRole:  event.Transaction.Role,
			Items:     items,
			Total:     event.Transaction.Total,
			Timestamp: event.Timestamp,
		})
	default:
		return fmt.Errorf("process analytics event: unknown kind %q", event.Kind)
	}

	if err != nil {
		metrics.AnalyticsEventsTotal.WithLabelValues(string(event.Kind), "error").Inc()
		return fmt.Errorf("process analytics event: %w", err)
	}
	metrics.AnalyticsEventsTotal.WithLabelValues(string(event.Kind), "ok").Inc()
	return nil
}

// ProductViewStats aggregates view counts per product, most viewed first.
func (s *analyticsService) ProductViewStats(ctx context.Context) ([]ports.ProductViewStat, error) {
	views, err := s.repo.ListViews(ctx)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[string]*ports.ProductViewStat)
	for _, v := range views {
		stat, ok := byProduct[v.ProductID]
		if !ok {
			stat = &ports.ProductViewStat{ProductID: v.ProductID, ProductName: v.ProductName}
			byProduct[v.ProductID] = stat
		}
		stat.Count++
	}

	out := make([]ports.ProductViewStat, 0, len(byProduct))
	for _, stat := range byProduct {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}

// RoleStats counts logins per role, zero-filled for all four roles.
func (s *analyticsService) RoleStats(ctx context.Context) ([]ports.RoleStat, error) {
	logins, err := s.repo.ListLogins(ctx)
	if err != nil {
		return nil, err
	}

	order := []domain.Role{domain.RoleAdmin, domain.RoleFriend, domain.RoleNormal, domain.RoleOpponent}
	counts := make(map[domain.Role]int, len(order))
	for _, l := range logins {
		counts[domain.ParseRole(string(l.UserRole))]++
	}

	out := make([]ports.RoleStat, len(order))
	for i, r := range order {
		out[i] = ports.RoleStat{Role: r, Count: counts[r]}
	}
	return out, nil
}

// DailySales sums transaction totals per calendar day, oldest first.
func (s *analyticsService) DailySales(ctx context.Context) ([]ports.DailySalesStat, error) {
	transactions, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]float64)
	for _, t := range transactions {
		byDay[t.Timestamp.UTC().Format("2006-01-02")] += t.Total
	}

	out := make([]ports.DailySalesStat, 0, len(byDay))
	for date, sales := range byDay {
		out = append(out, ports.DailySalesStat{Date: date, Sales: sales})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

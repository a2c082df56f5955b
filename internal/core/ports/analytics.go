package ports

import (
	"context"
	"time"

	"github.com/priceworth/storefront-api/internal/core/domain"
)

// AnalyticsEventKind discriminates the payload of an AnalyticsEvent.
type AnalyticsEventKind string

const (
	EventProductView AnalyticsEventKind = "product_view"
	EventLogin       AnalyticsEventKind = "login"
	EventTransaction AnalyticsEventKind = "transaction"
)

// ProductViewInput is the DTO for a product view event.
type ProductViewInput struct {
	ProductID   string
	ProductName string
	UserID      string
}

// LoginInput is the DTO for a login event.
type LoginInput struct {
	UserID   string
	UserName string
	Role     domain.Role
}

// TransactionItemInput is one purchased line in a transaction event.
type TransactionItemInput struct {
	ProductID   string
	ProductName string
	Quantity    int
	Price       float64
}

// TransactionInput is the DTO for a completed checkout event.
type TransactionInput struct {
	TransactionID string
	UserID        string
	UserName      string
	Role          domain.Role
	Items         []TransactionItemInput
	Total         float64
}

// AnalyticsEvent is the envelope passed from producers to the analytics
// pipeline. Exactly one payload pointer is set, matching Kind.
type AnalyticsEvent struct {
	Kind        AnalyticsEventKind
	Timestamp   time.Time
	ProductView *ProductViewInput
	Login       *LoginInput
	Transaction *TransactionInput
}

// ShardKey returns the identity the dispatcher shards on, preserving
// per-user event ordering.
func (e AnalyticsEvent) ShardKey() string {
	switch e.Kind {
	case EventProductView:
		return e.ProductView.UserID
	case EventLogin:
		return e.Login.UserID
	case EventTransaction:
		return e.Transaction.UserID
	}
	return ""
}

// AnalyticsRecorder is the fire-and-forget sink producers publish to.
// The core pricing/cart logic never depends on its results.
type AnalyticsRecorder interface {
	Record(event AnalyticsEvent)
}

// AnalyticsRepository persists analytics events and reads them back for
// aggregation.
type AnalyticsRepository interface {
	InsertView(ctx context.Context, v *domain.ProductView) error
	InsertLogin(ctx context.Context, l *domain.LoginRecord) error
	InsertTransaction(ctx context.Context, t *domain.Transaction) error
	ListViews(ctx context.Context) ([]domain.ProductView, error)
	ListLogins(ctx context.Context) ([]domain.LoginRecord, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// ProductViewStat is the per-product view count, sorted by count descending.
type ProductViewStat struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Count       int    `json:"count"`
}

// RoleStat is the login count for one role. All four roles are always
// reported, zero-filled.
type RoleStat struct {
	Role  domain.Role `json:"role"`
	Count int         `json:"count"`
}

// DailySalesStat is the transaction total for one calendar day.
type DailySalesStat struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Sales float64 `json:"sales"`
}

// AnalyticsService processes events from the dispatcher and serves the
// aggregated dashboard statistics.
type AnalyticsService interface {
	Process(ctx context.Context, event AnalyticsEvent) error
	ProductViewStats(ctx context.Context) ([]ProductViewStat, error)
	RoleStats(ctx context.Context) ([]RoleStat, error)
	DailySales(ctx context.Context) ([]DailySalesStat, error)
}

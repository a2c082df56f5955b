package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/priceworth/storefront-api/internal/core/domain"
)

const (
	collectionViews        = "product_views"
	collectionLogins       = "login_records"
	collectionTransactions = "transactions"
)

// AnalyticsRepository is the mongo-backed audit store for analytics
// events. Writes come from the dispatcher workers; reads serve the
// admin dashboard aggregations.
type AnalyticsRepository struct {
	views        *mongo.Collection
	logins       *mongo.Collection
	transactions *mongo.Collection
}

func NewAnalyticsRepository(db *mongo.Database) *AnalyticsRepository {
	return &AnalyticsRepository{
		views:        db.Collection(collectionViews),
		logins:       db.Collection(collectionLogins),
		transactions: db.Collection(collectionTransactions),
	}
}

func (r *AnalyticsRepository) InsertView(ctx context.Context, v *domain.ProductView) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.views.InsertOne(ctx, v); err != nil {
		return fmt.Errorf("insert product view: %w", err)
	}
	return nil
}

func (r *AnalyticsRepository) InsertLogin(ctx context.Context, l *domain.LoginRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.logins.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("insert login record: %w", err)
	}
	return nil
}

func (r *AnalyticsRepository) InsertTransaction(ctx context.Context, t *domain.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.transactions.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *AnalyticsRepository) ListViews(ctx context.Context) ([]domain.ProductView, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.views.Find(ctx, bson.M{}, sortByTimestamp())
	if err != nil {
		return nil, fmt.Errorf("list product views: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.ProductView
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("list product views: decode: %w", err)
	}
	return out, nil
}

func (r *AnalyticsRepository) ListLogins(ctx context.Context) ([]domain.LoginRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.logins.Find(ctx, bson.M{}, sortByTimestamp())
	if err != nil {
		return nil, fmt.Errorf("list login records: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.LoginRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("list login records: decode: %w", err)
	}
	return out, nil
}

func (r *AnalyticsRepository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.transactions.Find(ctx, bson.M{}, sortByTimestamp())
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Transaction
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("list transactions: decode: %w", err)
	}
	return out, nil
}

func sortByTimestamp() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
}

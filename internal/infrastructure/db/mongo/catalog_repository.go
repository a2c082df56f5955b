package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/priceworth/storefront-api/internal/core/domain"
	"github.com/priceworth/storefront-api/internal/core/ports"
)

const collectionProducts = "products"

// CatalogRepository stores base product records. Only base prices live
// here; derived prices are a read-time projection in the service layer.
type CatalogRepository struct {
	col *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{col: db.Collection(collectionProducts)}
}

// mongoProduct keeps the wire shape decoupled from the domain type and
// carries a position field so List can preserve catalog order.
type mongoProduct struct {
	ID          string  `bson:"_id"`
	Name        string  `bson:"name"`
	Description string  `bson:"description"`
	BasePrice   float64 `bson:"base_price"`
	Stock       int     `bson:"stock"`
	Image       string  `bson:"image"`
	Category    string  `bson:"category"`
	Position    int     `bson:"position"`
}

func toDomain(mp mongoProduct) domain.Product {
	return domain.Product{
		ID:          mp.ID,
		Name:        mp.Name,
		Description: mp.Description,
		BasePrice:   mp.BasePrice,
		Stock:       mp.Stock,
		Image:       mp.Image,
		Category:    mp.Category,
	}
}

// ReplaceAll swaps the whole catalog for the given records. Delete and
// insert run back to back on the single app instance that owns this
// collection; readers never see a torn batch because List sorts on the
// freshly written positions.
func (r *CatalogRepository) ReplaceAll(ctx context.Context, products []domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("replace catalog: clear: %w", err)
	}

	docs := make([]interface{}, len(products))
	for i, p := range products {
		docs[i] = mongoProduct{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			BasePrice:   p.BasePrice,
			Stock:       p.Stock,
			Image:       p.Image,
			Category:    p.Category,
			Position:    i,
		}
	}
	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("replace catalog: insert: %w", err)
	}
	return nil
}

// List returns the catalog in its original import order.
func (r *CatalogRepository) List(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Product
	for cur.Next(ctx) {
		var mp mongoProduct
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("list products: decode: %w", err)
		}
		out = append(out, toDomain(mp))
	}
	return out, cur.Err()
}

func (r *CatalogRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProduct
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	p := toDomain(mp)
	return &p, nil
}

// UpdateOne merges the non-nil patch fields into the matching product.
func (r *CatalogRepository) UpdateOne(ctx context.Context, id string, patch ports.ProductPatch) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.BasePrice != nil {
		set["base_price"] = *patch.BasePrice
	}
	if patch.Stock != nil {
		set["stock"] = *patch.Stock
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if len(set) == 0 {
		// nothing to merge; still report unknown ids
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return nil
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// DeleteOne removes the product. Deleting an absent id is not an error.
func (r *CatalogRepository) DeleteOne(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (r *CatalogRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{})
}

// EnsureIndexes creates the secondary indexes used by category queries.
func (r *CatalogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "position", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/priceworth/storefront-api/internal/api/metrics"
	"github.com/priceworth/storefront-api/internal/core/domain"
	"github.com/priceworth/storefront-api/internal/core/ports"
)

// importColumns are the fields every import row must carry.
var importColumns = []string{"id", "name", "description", "basePrice", "stock", "image", "category"}

// maxCachedDerivations bounds the derivation cache; the cache is wiped
// wholesale when it fills, which is cheap at catalog scale.
const maxCachedDerivations = 256

// CatalogService owns the base product records and derives display
// prices on read. Derivations are memoised by (catalog version, role,
// search, category) and invalidated explicitly on every mutation.
type CatalogService struct {
	repo ports.CatalogRepository
	log  zerolog.Logger

	mu      sync.Mutex
	version uint64
	cache   map[string][]domain.PricedProduct
}

func NewCatalogService(repo ports.CatalogRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		log:   log,
		cache: make(map[string][]domain.PricedProduct),
	}
}

// ReplaceCatalog validates the import rows and atomically replaces the
// base catalog with the valid ones. Malformed rows are dropped
// individually with a diagnostic and never abort the batch. Duplicate
// ids within one batch resolve last-write-wins.
func (s *CatalogService) ReplaceCatalog(ctx context.Context, rows []ports.ImportRow) (*ports.ImportResult, error) {
	products := make([]domain.Product, 0, len(rows))
	index := make(map[string]int, len(rows))
	dropped := 0

	for i, row := range rows {
		p, reason := parseImportRow(row)
		if reason != "" {
			dropped++
			metrics.ImportRowsDroppedTotal.WithLabelValues(reason).Inc()
			s.log.Warn().Int("row", i).Str("reason", reason).Msg("import row dropped")
			continue
		}
		if at, ok := index[p.ID]; ok {
			// last write wins within a batch
			products[at] = p
			continue
		}
		index[p.ID] = len(products)
		products = append(products, p)
	}

	if len(products) == 0 {
		return nil, domain.ErrNoValidRecords
	}

	if err := s.repo.ReplaceAll(ctx, products); err != nil {
		s.log.Error().Err(err).Msg("failed to replace catalog")
		return nil, err
	}
	s.invalidate()

	metrics.ImportRowsAcceptedTotal.Add(float64(len(products)))
	s.log.Info().Int("accepted", len(products)).Int("dropped", dropped).Msg("catalog replaced")

	return &ports.ImportResult{Accepted: len(products), Dropped: dropped}, nil
}

// parseImportRow converts a raw row into a Product. A non-empty reason
// means the row is malformed and must be dropped.
func parseImportRow(row ports.ImportRow) (domain.Product, string) {
	for _, col := range importColumns {
		if _, ok := row[col]; !ok {
			return domain.Product{}, "missing_field"
		}
	}
	id := strings.TrimSpace(row["id"])
	name := strings.TrimSpace(row["name"])
	if id == "" || name == "" {
		return domain.Product{}, "empty_identity"
	}

	basePrice, err := strconv.ParseFloat(strings.TrimSpace(row["basePrice"]), 64)
	if err != nil || basePrice < 0 {
		return domain.Product{}, "invalid_base_price"
	}
	stock, err := strconv.Atoi(strings.TrimSpace(row["stock"]))
	if err != nil || stock < 0 {
		return domain.Product{}, "invalid_stock"
	}

	return domain.Product{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(row["description"]),
		BasePrice:   basePrice,
		Stock:       stock,
		Image:       strings.TrimSpace(row["image"]),
		Category:    strings.TrimSpace(row["category"]),
	}, ""
}

// ListProducts derives display prices for the role and filters by search
// term and category, preserving catalog order.
func (s *CatalogService) ListProducts(ctx context.Context, input ports.ListProductsInput) ([]domain.PricedProduct, error) {
	key := s.cacheKey(input)

	s.mu.Lock()
	if cached, ok := s.cache[key]; ok {
		s.mu.Unlock()
		metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	s.mu.Unlock()
	metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	derived := filterProducts(domain.DeriveAll(products, input.Role), input.Search, input.Category)

	s.mu.Lock()
	if len(s.cache) >= maxCachedDerivations {
		s.cache = make(map[string][]domain.PricedProduct)
	}
	s.cache[key] = derived
	s.mu.Unlock()

	return derived, nil
}

// GetProduct returns a single product priced for the role.
func (s *CatalogService) GetProduct(ctx context.Context, id string, role domain.Role) (*domain.PricedProduct, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	priced := p.Priced(role)
	return &priced, nil
}

// UpdateProduct merges the patch into the matching product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, patch ports.ProductPatch) error {
	if patch.BasePrice != nil && *patch.BasePrice < 0 {
		return fmt.Errorf("update product %s: base price must be non-negative", id)
	}
	if err := s.repo.UpdateOne(ctx, id, patch); err != nil {
		return err
	}
	s.invalidate()
	s.log.Info().Str("product_id", id).Msg("product updated")
	return nil
}

// DeleteProduct removes the product. Deleting an absent id is not an error.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.DeleteOne(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	s.log.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// Categories returns the distinct category values of the active catalog.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.DistinctCategories(products), nil
}

// invalidate bumps the catalog version so every memoised derivation key
// goes stale at once.
func (s *CatalogService) invalidate() {
	s.mu.Lock()
	s.version++
	s.cache = make(map[string][]domain.PricedProduct)
	s.mu.Unlock()
}

func (s *CatalogService) cacheKey(input ports.ListProductsInput) string {
	s.mu.Lock()
	v := s.version
	s.mu.Unlock()
	return fmt.Sprintf("%d|%s|%s|%s", v, input.Role, strings.ToLower(input.Search), input.Category)
}

// filterProducts narrows the derived catalog: case-insensitive substring
// match on name or description (empty term matches everything), ANDed
// with an exact category match ("all" or empty disables it).
func filterProducts(products []domain.PricedProduct, search, category string) []domain.PricedProduct {
	term := strings.ToLower(search)
	out := make([]domain.PricedProduct, 0, len(products))
	for _, p := range products {
		matchesSearch := term == "" ||
			strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term)
		matchesCategory := category == "" || category == "all" || p.Category == category
		if matchesSearch && matchesCategory {
			out = append(out, p)
		}
	}
	return out
}

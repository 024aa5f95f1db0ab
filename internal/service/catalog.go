package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"storefront-backend/internal/cache"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/port"
)

const catalogCacheOp = "catalog"
const catalogCacheKey = "products"

// CatalogService serves the product set with a read-through cache. Cache
// failures degrade to the repository, a shopper never sees a cache error.
type CatalogService struct {
	products port.ProductRepository
	cache    cache.Cache // nil disables caching
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewCatalog(products port.ProductRepository, c cache.Cache, cacheTTL time.Duration, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		products: products,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (s *CatalogService) List(ctx context.Context, query domain.ProductQuery) ([]domain.Product, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("query.Validate: %w", err)
	}

	products, err := s.loadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loadAll: %w", err)
	}

	return query.Apply(products), nil
}

func (s *CatalogService) Get(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.GetProduct: %w", err)
	}

	return product, nil
}

// Invalidate drops the cached product set, called after stock mutations.
func (s *CatalogService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, s.cache.GenerateKey(catalogCacheOp, catalogCacheKey)); err != nil {
		s.logger.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
	}
}

// RunRefresher re-warms the cache on a fixed interval until ctx is cancelled,
// so the background work is scoped to the service lifetime.
func (s *CatalogService) RunRefresher(ctx context.Context, interval time.Duration) {
	if s.cache == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.refresh(ctx); err != nil {
				s.logger.WarnContext(ctx, "catalog refresh failed", "error", err)
			}
		}
	}
}

func (s *CatalogService) refresh(ctx context.Context) error {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("products.ListProducts: %w", err)
	}

	s.store(ctx, products)
	return nil
}

func (s *CatalogService) loadAll(ctx context.Context) ([]domain.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, s.cache.GenerateKey(catalogCacheOp, catalogCacheKey))
		if err != nil {
			s.logger.WarnContext(ctx, "catalog cache read failed", "error", err)
		} else if cached != "" {
			products, err := decodeProducts(cached)
			if err == nil {
				return products, nil
			}
			s.logger.WarnContext(ctx, "catalog cache decode failed", "error", err)
		}
	}

	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("products.ListProducts: %w", err)
	}

	s.store(ctx, products)
	return products, nil
}

func (s *CatalogService) store(ctx context.Context, products []domain.Product) {
	if s.cache == nil {
		return
	}

	encoded, err := encodeProducts(products)
	if err != nil {
		s.logger.WarnContext(ctx, "catalog cache encode failed", "error", err)
		return
	}

	key := s.cache.GenerateKey(catalogCacheOp, catalogCacheKey)
	if err := s.cache.Set(ctx, key, encoded, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "catalog cache write failed", "error", err)
	}
}

// cachedProduct is the cache wire shape, Money does not JSON round-trip as is.
type cachedProduct struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	PriceAmount   string    `json:"price_amount"`
	PriceCurrency string    `json:"price_currency"`
	Stock         int32     `json:"stock"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func encodeProducts(products []domain.Product) (string, error) {
	entries := make([]cachedProduct, 0, len(products))
	for _, p := range products {
		entries = append(entries, cachedProduct{
			ID:            p.ID.String(),
			Name:          p.Name,
			Category:      p.Category,
			PriceAmount:   p.Price.Amount.String(),
			PriceCurrency: p.Price.Currency.String(),
			Stock:         p.Stock,
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
		})
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	return string(data), nil
}

func decodeProducts(data string) ([]domain.Product, error) {
	var entries []cachedProduct
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	products := make([]domain.Product, 0, len(entries))
	for _, e := range entries {
		productID, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, fmt.Errorf("uuid.Parse[%s]: %w", e.ID, err)
		}

		amount, err := decimal.NewFromString(e.PriceAmount)
		if err != nil {
			return nil, fmt.Errorf("decimal.NewFromString[%s]: %w", e.PriceAmount, err)
		}

		parsedCurrency, err := currency.ParseISO(e.PriceCurrency)
		if err != nil {
			return nil, fmt.Errorf("currency[%s] is not valid: %w", e.PriceCurrency, err)
		}

		products = append(products, domain.Product{
			ID:        productID,
			Name:      e.Name,
			Category:  e.Category,
			Price:     domain.Money{Amount: amount, Currency: parsedCurrency},
			Stock:     e.Stock,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		})
	}

	return products, nil
}

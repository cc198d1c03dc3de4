package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/praveen037/agriconnect/pkg/config"
	"github.com/praveen037/agriconnect/pkg/logger"
	redisclient "github.com/praveen037/agriconnect/pkg/redis"
	"github.com/praveen037/agriconnect/pkg/upstream"
)

type catalogAPI interface {
	ListProducts(ctx context.Context) ([]upstream.Product, error)
	GetProduct(ctx context.Context, id string) (*upstream.Product, error)
	ListCategories(ctx context.Context) ([]upstream.Category, error)
}

type cacheStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type catalogKeyer interface {
	CatalogKey(parts ...string) string
}

// Service reads the catalog from the core API through a short-lived Redis
// cache. The cache absorbs browse traffic; writes always invalidate so
// vendors see their own edits immediately.
type Service struct {
	api   catalogAPI
	cache cacheStore
	keyer catalogKeyer
	ttl   time.Duration
	logg  *logger.Logger
}

func NewService(api catalogAPI, client *redisclient.Client, cfg config.CatalogConfig, logg *logger.Logger) *Service {
	return &Service{api: api, cache: client, keyer: client, ttl: cfg.CacheTTL, logg: logg}
}

// Products lists the catalog, served from cache when fresh.
func (s *Service) Products(ctx context.Context) ([]upstream.Product, error) {
	var cached []upstream.Product
	key := s.keyer.CatalogKey("products")
	if s.loadCached(ctx, key, &cached) {
		return cached, nil
	}

	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []upstream.Product{}
	}
	s.storeCached(ctx, key, products)
	return products, nil
}

// Product fetches one product by ID, served from cache when fresh.
func (s *Service) Product(ctx context.Context, id string) (*upstream.Product, error) {
	var cached upstream.Product
	key := s.keyer.CatalogKey("product", id)
	if s.loadCached(ctx, key, &cached) {
		return &cached, nil
	}

	product, err := s.api.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.storeCached(ctx, key, product)
	return product, nil
}

// Categories lists product categories, served from cache when fresh.
func (s *Service) Categories(ctx context.Context) ([]upstream.Category, error) {
	var cached []upstream.Category
	key := s.keyer.CatalogKey("categories")
	if s.loadCached(ctx, key, &cached) {
		return cached, nil
	}

	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []upstream.Category{}
	}
	s.storeCached(ctx, key, categories)
	return categories, nil
}

// Invalidate drops the cached listings after a vendor mutation. Product
// detail entries expire on their own TTL.
func (s *Service) Invalidate(ctx context.Context, productIDs ...string) {
	keys := []string{
		s.keyer.CatalogKey("products"),
		s.keyer.CatalogKey("categories"),
	}
	for _, id := range productIDs {
		keys = append(keys, s.keyer.CatalogKey("product", id))
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.logg.Warn(ctx, "invalidating catalog cache failed")
	}
}

// loadCached reports whether the key held a fresh, decodable entry. Corrupt
// entries are dropped and treated as a miss.
func (s *Service) loadCached(ctx context.Context, key string, dest any) bool {
	if s.ttl <= 0 {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redisclient.Nil) {
			s.logg.Warn(ctx, "catalog cache read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		_ = s.cache.Del(ctx, key)
		return false
	}
	return true
}

func (s *Service) storeCached(ctx context.Context, key string, value any) {
	if s.ttl <= 0 {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		s.logg.Warn(ctx, "catalog cache write failed")
	}
}

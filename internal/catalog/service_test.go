package catalog

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/praveen037/agriconnect/pkg/logger"
	redisclient "github.com/praveen037/agriconnect/pkg/redis"
	"github.com/praveen037/agriconnect/pkg/upstream"
)

type fakeAPI struct {
	products   []upstream.Product
	categories []upstream.Category
	listCalls  int
}

func (f *fakeAPI) ListProducts(context.Context) ([]upstream.Product, error) {
	f.listCalls++
	return f.products, nil
}

func (f *fakeAPI) GetProduct(_ context.Context, id string) (*upstream.Product, error) {
	for i := range f.products {
		if f.products[i].ID.String() == id {
			return &f.products[i], nil
		}
	}
	return nil, &upstream.Error{StatusCode: 404, Message: "not found"}
}

func (f *fakeAPI) ListCategories(context.Context) ([]upstream.Category, error) {
	return f.categories, nil
}

type fakeCache struct {
	entries map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}}
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.entries[key] = string(v)
	case string:
		f.entries[key] = v
	default:
		payload, err := json.Marshal(v)
		if err != nil {
			return err
		}
		f.entries[key] = string(payload)
	}
	return nil
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	raw, ok := f.entries[key]
	if !ok {
		return "", redisclient.Nil
	}
	return raw, nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.entries, key)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) CatalogKey(parts ...string) string {
	key := "agc:catalog"
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

func testService(api *fakeAPI) (*Service, *fakeCache) {
	cache := newFakeCache()
	return &Service{
		api:   api,
		cache: cache,
		keyer: fakeKeyer{},
		ttl:   time.Minute,
		logg:  logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	}, cache
}

func TestProductsCachedAfterFirstRead(t *testing.T) {
	api := &fakeAPI{products: []upstream.Product{{ID: "1", Name: "Tomato Seeds", Cost: 120}}}
	svc, _ := testService(api)

	for i := 0; i < 3; i++ {
		products, err := svc.Products(context.Background())
		if err != nil {
			t.Fatalf("Products: %v", err)
		}
		if len(products) != 1 || products[0].Name != "Tomato Seeds" {
			t.Fatalf("products = %+v", products)
		}
	}
	if api.listCalls != 1 {
		t.Fatalf("upstream list calls = %d, want 1", api.listCalls)
	}
}

func TestCorruptCacheEntryIsDiscarded(t *testing.T) {
	api := &fakeAPI{products: []upstream.Product{{ID: "1", Name: "Tomato Seeds"}}}
	svc, cache := testService(api)
	cache.entries["agc:catalog:products"] = "{not json"

	products, err := svc.Products(context.Background())
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("products = %+v", products)
	}
	if api.listCalls != 1 {
		t.Fatalf("upstream list calls = %d, want 1", api.listCalls)
	}
}

func TestInvalidateDropsListings(t *testing.T) {
	api := &fakeAPI{products: []upstream.Product{{ID: "1", Name: "Tomato Seeds"}}}
	svc, _ := testService(api)

	_, _ = svc.Products(context.Background())
	svc.Invalidate(context.Background(), "1")
	_, _ = svc.Products(context.Background())

	if api.listCalls != 2 {
		t.Fatalf("upstream list calls = %d, want 2 after invalidation", api.listCalls)
	}
}

func TestZeroTTLBypassesCache(t *testing.T) {
	api := &fakeAPI{products: []upstream.Product{{ID: "1"}}}
	svc, _ := testService(api)
	svc.ttl = 0

	_, _ = svc.Products(context.Background())
	_, _ = svc.Products(context.Background())
	if api.listCalls != 2 {
		t.Fatalf("upstream list calls = %d, want 2 with caching disabled", api.listCalls)
	}
}

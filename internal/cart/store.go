package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/praveen037/agriconnect/pkg/config"
	pkgerrors "github.com/praveen037/agriconnect/pkg/errors"
	redisclient "github.com/praveen037/agriconnect/pkg/redis"
)

type keyValueStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type cartKeyer interface {
	CartKey(sessionID string) string
}

// Store is the single source of truth for each session's cart. Carts survive
// navigation and reloads for the session's lifetime.
type Store struct {
	kv    keyValueStore
	keyer cartKeyer
	ttl   time.Duration
}

// NewStore builds a cart store backed by Redis.
func NewStore(client *redisclient.Client, cfg config.CartConfig) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &Store{kv: client, keyer: client, ttl: cfg.TTL}, nil
}

// Get loads the session's cart; a missing or corrupt payload yields an empty
// cart (corrupt data is discarded, never repaired).
func (s *Store) Get(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := s.kv.Get(ctx, s.keyer.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return &Cart{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading cart")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		_ = s.kv.Del(ctx, s.keyer.CartKey(sessionID))
		return &Cart{}, nil
	}
	return &cart, nil
}

// Add merges the product into the cart and persists the result.
func (s *Store) Add(ctx context.Context, sessionID string, product ProductRef, quantity int) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.Add(product, quantity)
	})
}

// Remove drops the product's line and persists the result.
func (s *Store) Remove(ctx context.Context, sessionID, productID string) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.Remove(productID)
	})
}

// SetQuantity replaces a line's quantity (clamped) and persists the result.
func (s *Store) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.SetQuantity(productID, quantity)
	})
}

// Clear empties the cart. Called only after a confirmed payment or logout.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.kv.Del(ctx, s.keyer.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
	}
	return nil
}

func (s *Store) mutate(ctx context.Context, sessionID string, fn func(*Cart)) (*Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	fn(cart)
	if err := s.save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Store) save(ctx context.Context, sessionID string, cart *Cart) error {
	encoded, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := s.kv.Set(ctx, s.keyer.CartKey(sessionID), string(encoded), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting cart")
	}
	return nil
}

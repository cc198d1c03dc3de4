package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/praveen037/agriconnect/pkg/config"
	pkgerrors "github.com/praveen037/agriconnect/pkg/errors"
	"github.com/praveen037/agriconnect/pkg/enums"
	redisclient "github.com/praveen037/agriconnect/pkg/redis"
	"github.com/praveen037/agriconnect/pkg/upstream"
)

// Identity is the authenticated user as presented to the rest of the app.
// Consumers receive copies; only this store mutates the persisted record.
type Identity struct {
	ID      string     `json:"id"`
	Role    enums.Role `json:"role"`
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Phone   string     `json:"phone,omitempty"`
	Address string     `json:"address,omitempty"`
}

// Validate is the schema check applied to persisted payloads on load.
// A payload that fails here is discarded rather than repaired.
func (i Identity) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("identity id is required")
	}
	if !i.Role.IsValid() {
		return fmt.Errorf("identity role %q is invalid", i.Role)
	}
	return nil
}

// Partial carries profile fields to shallow-merge into the stored identity.
// Nil pointers leave the existing value untouched.
type Partial struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

type keyValueStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Store owns the persisted identity, one per session.
type Store struct {
	kv    keyValueStore
	keyer sessionKeyer
	ttl   time.Duration
}

// NewStore builds a session store backed by Redis.
func NewStore(client *redisclient.Client, cfg config.SessionConfig) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Store{kv: client, keyer: client, ttl: cfg.TTL}, nil
}

// Login replaces the session identity wholesale.
func (s *Store) Login(ctx context.Context, sessionID string, identity Identity) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if err := identity.Validate(); err != nil {
		return err
	}
	encoded, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encoding identity: %w", err)
	}
	return s.kv.Set(ctx, s.keyer.SessionKey(sessionID), string(encoded), s.ttl)
}

// Current returns a copy of the stored identity. A missing session returns
// AUTH_REQUIRED; a corrupt payload is deleted and also returns AUTH_REQUIRED,
// forcing a fresh login instead of attempting repair.
func (s *Store) Current(ctx context.Context, sessionID string) (*Identity, error) {
	raw, err := s.kv.Get(ctx, s.keyer.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeAuthRequired, "no active session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading session")
	}

	var identity Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		s.discard(ctx, sessionID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeAuthRequired, err, "session data corrupt")
	}
	if err := identity.Validate(); err != nil {
		s.discard(ctx, sessionID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeAuthRequired, err, "session data invalid")
	}
	return &identity, nil
}

// HasSession reports whether a valid identity is persisted for the session.
// Missing or discarded sessions are not errors here; the caller treats them
// as unauthenticated.
func (s *Store) HasSession(ctx context.Context, sessionID string) (bool, error) {
	_, err := s.Current(ctx, sessionID)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeAuthRequired) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Update shallow-merges the provided fields into the stored identity and
// returns the result.
func (s *Store) Update(ctx context.Context, sessionID string, partial Partial) (*Identity, error) {
	identity, err := s.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if partial.Name != nil {
		identity.Name = *partial.Name
	}
	if partial.Email != nil {
		identity.Email = *partial.Email
	}
	if partial.Phone != nil {
		identity.Phone = *partial.Phone
	}
	if partial.Address != nil {
		identity.Address = *partial.Address
	}

	if err := s.Login(ctx, sessionID, *identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// Logout destroys the persisted session state.
func (s *Store) Logout(ctx context.Context, sessionID string) error {
	return s.kv.Del(ctx, s.keyer.SessionKey(sessionID))
}

func (s *Store) discard(ctx context.Context, sessionID string) {
	// Best effort; the caller already treats the session as gone.
	_ = s.kv.Del(ctx, s.keyer.SessionKey(sessionID))
}

// Normalize converts a raw upstream login payload into an Identity,
// reconciling the role field naming drift between login endpoints.
func Normalize(payload *upstream.IdentityPayload) (Identity, error) {
	if payload == nil {
		return Identity{}, fmt.Errorf("identity payload is required")
	}
	role, err := enums.ParseRole(payload.NormalizedRole())
	if err != nil {
		return Identity{}, err
	}
	id := strings.TrimSpace(payload.ID.String())
	if id == "" {
		return Identity{}, fmt.Errorf("identity id is required")
	}
	return Identity{
		ID:      id,
		Role:    role,
		Name:    payload.Name,
		Email:   payload.Email,
		Phone:   payload.Phone,
		Address: payload.Address,
	}, nil
}

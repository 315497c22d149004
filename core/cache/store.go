package cache

import (
	"context"
	"time"
)

// Store is the key-value backend sessions are persisted in.
// Implementations own expiry and eviction and must be safe for concurrent use.
type Store interface {
	// Get returns the stored bytes or ErrNotFound. Any other error means the
	// backend could not answer.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key. A ttl <= 0 stores without expiry unless the
	// store is wrapped by a Segment, which substitutes its own default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Segment namespaces keys within a shared store and supplies the default TTL
// for writes that do not carry one.
type Segment struct {
	store      Store
	name       string
	defaultTTL time.Duration
}

// NewSegment wraps store so every key is prefixed with name and a colon.
func NewSegment(store Store, name string, defaultTTL time.Duration) *Segment {
	return &Segment{
		store:      store,
		name:       name,
		defaultTTL: defaultTTL,
	}
}

// Name returns the segment name.
func (s *Segment) Name() string { return s.name }

// DefaultTTL returns the TTL used for writes without one.
func (s *Segment) DefaultTTL() time.Duration { return s.defaultTTL }

// Get implements Store.
func (s *Segment) Get(ctx context.Context, key string) ([]byte, error) {
	return s.store.Get(ctx, s.key(key))
}

// Set implements Store.
func (s *Segment) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	return s.store.Set(ctx, s.key(key), value, ttl)
}

// Delete implements Store.
func (s *Segment) Delete(ctx context.Context, key string) error {
	return s.store.Delete(ctx, s.key(key))
}

func (s *Segment) key(key string) string {
	if s.name == "" {
		return key
	}
	return s.name + ":" + key
}

// ABOUTME: In-memory cache implementation backed by patrickmn/go-cache
// ABOUTME: Provides TTL expiry with periodic janitor cleanup for single-process deployments

package memory

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ErrNotFound is returned for missing or expired keys
var ErrNotFound = errors.New("key not found")

// MemoryCache implements the Cache interface using go-cache
type MemoryCache struct {
	store *gocache.Cache
}

// Option configures a MemoryCache
type Option func(*settings)

type settings struct {
	defaultExpiration time.Duration
}

// WithDefaultExpiration sets the TTL applied to entries stored with a zero TTL
func WithDefaultExpiration(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.defaultExpiration = d
		}
	}
}

// NewMemoryCache creates a new in-memory cache. Entries stored with a zero TTL never expire
// unless WithDefaultExpiration is given; cleanupInterval controls how often expired entries are purged.
func NewMemoryCache(cleanupInterval time.Duration, opts ...Option) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	s := settings{defaultExpiration: gocache.NoExpiration}
	for _, opt := range opts {
		opt(&s)
	}
	return &MemoryCache{
		store: gocache.New(s.defaultExpiration, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := c.store.Get(key)
	if !ok {
		return nil, ErrNotFound
	}

	data := value.([]byte)
	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// Set stores a value in the cache with the given TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	expiration := ttl
	if ttl <= 0 {
		expiration = gocache.DefaultExpiration
	}
	c.store.Set(key, valueCopy, expiration)
	return nil
}

// Delete removes a key from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.Delete(key)
	return nil
}

// Len returns the number of entries, including expired ones not yet purged
func (c *MemoryCache) Len() int {
	return c.store.ItemCount()
}

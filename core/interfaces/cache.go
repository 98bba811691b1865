// Package interfaces defines the contracts between the core packages and their collaborators.
// Core code depends only on these interfaces; adapters live under infrastructure/.
package interfaces

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with a TTL.
// Backends cache search results and page inspections through it.
//
// Example usage:
//
//	data, err := cache.Get(ctx, "search:youtube:pakistan army")
//	if err != nil {
//		// miss, query the backend and store the result
//		_ = cache.Set(ctx, "search:youtube:pakistan army", payload, 30*time.Minute)
//	}
type Cache interface {
	// Get returns the value for key, or an error on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl uses the backend default, which is no
	// expiry unless the backend was configured otherwise.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

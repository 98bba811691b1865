// ABOUTME: Dependencies bundle shared by discovery backends, agenda sources, and page inspection
// ABOUTME: Carries cache, outbound HTTP, and logging plus JSON helpers for the optional cache

package interfaces

import (
	"context"
	"encoding/json"
	"time"
)

// Dependencies holds the collaborators every outbound-facing component needs
type Dependencies struct {
	// Cache is optional; a nil cache disables lookups and writes
	Cache Cache

	HTTPClient HTTPClient

	Logger Logger
}

// LoadCached decodes the cached JSON value for key into dst.
// It reports false on a miss, a decode failure, or when no cache is configured.
func (d Dependencies) LoadCached(ctx context.Context, key string, dst interface{}) bool {
	if d.Cache == nil {
		return false
	}
	data, err := d.Cache.Get(ctx, key)
	if err != nil || data == nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// StoreCached writes value as JSON under key. A non-positive ttl skips the write
// and write failures are ignored.
func (d Dependencies) StoreCached(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if d.Cache == nil || ttl <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = d.Cache.Set(ctx, key, data, ttl)
}

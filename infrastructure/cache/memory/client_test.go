package memory

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()

	if err := cache.Set(ctx, "search:youtube:pakistan", []byte(`[{"url":"u"}]`), time.Hour); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := cache.Get(ctx, "search:youtube:pakistan")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != `[{"url":"u"}]` {
		t.Errorf("Get returned %s", string(got))
	}
}

func TestMemoryCache_Get_Missing(t *testing.T) {
	cache := NewMemoryCache(time.Minute)

	got, err := cache.Get(context.Background(), "absent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
	if got != nil {
		t.Error("Get should return nil value for missing key")
	}
}

func TestMemoryCache_Get_Expired(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, err := cache.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound after expiry", err)
	}
}

func TestMemoryCache_ZeroTTLDoesNotExpire(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := cache.Get(ctx, "k"); err != nil {
		t.Errorf("Get returned error for non-expiring key: %v", err)
	}
}

func TestMemoryCache_ValuesAreCopied(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()

	original := []byte("abc")
	_ = cache.Set(ctx, "k", original, time.Hour)
	original[0] = 'x'

	got, _ := cache.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value changed through caller slice: %s", got)
	}

	got[1] = 'y'
	again, _ := cache.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value changed through returned slice: %s", again)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()

	_ = cache.Set(ctx, "k", []byte("v"), time.Hour)
	if err := cache.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := cache.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete of missing key returned error: %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("Len = %d, want 0", cache.Len())
	}
}

func TestMemoryCache_CancelledContext(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := cache.Set(ctx, "k", []byte("v"), time.Hour); err == nil {
		t.Error("Set should fail with cancelled context")
	}
	if _, err := cache.Get(ctx, "k"); err == nil {
		t.Error("Get should fail with cancelled context")
	}
	if err := cache.Delete(ctx, "k"); err == nil {
		t.Error("Delete should fail with cancelled context")
	}
}

func TestMemoryCache_DefaultExpirationAppliesToZeroTTL(t *testing.T) {
	cache := NewMemoryCache(time.Minute, WithDefaultExpiration(10*time.Millisecond))
	ctx := context.Background()

	_ = cache.Set(ctx, "defaulted", []byte("v"), 0)
	_ = cache.Set(ctx, "explicit", []byte("v"), time.Hour)
	time.Sleep(30 * time.Millisecond)

	if _, err := cache.Get(ctx, "defaulted"); err != ErrNotFound {
		t.Errorf("Get of zero-TTL key after default expiration = %v, want ErrNotFound", err)
	}
	if _, err := cache.Get(ctx, "explicit"); err != nil {
		t.Errorf("Get of explicit-TTL key returned error: %v", err)
	}
}

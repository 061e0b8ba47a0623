// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestMemoryCache(opts MemoryCacheOptions) (*MemoryCache, *time.Time) {
	c := NewMemoryCache(opts)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestMemoryCache_BasicOperations(t *testing.T) {
	cache, _ := newTestMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	if err := cache.Set(ctx, "airdrops", []byte("[]"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := cache.Get(ctx, "airdrops")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "[]" {
		t.Errorf("expected [], got %s", val)
	}

	has, err := cache.Has(ctx, "airdrops")
	if err != nil || !has {
		t.Errorf("Has = %v, %v; want true", has, err)
	}

	if err := cache.Delete(ctx, "airdrops"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cache.Get(ctx, "airdrops"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache, now := newTestMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "default", []byte("a"), 0)
	_ = cache.Set(ctx, "custom", []byte("b"), time.Hour)

	*now = now.Add(2 * time.Minute)

	if _, err := cache.Get(ctx, "default"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected default-TTL entry to expire, got %v", err)
	}
	if has, _ := cache.Has(ctx, "default"); has {
		t.Error("expired entry reported by Has")
	}
	if _, err := cache.Get(ctx, "custom"); err != nil {
		t.Errorf("custom-TTL entry should survive: %v", err)
	}
}

func TestMemoryCache_NoTTL(t *testing.T) {
	cache, now := newTestMemoryCache(MemoryCacheOptions{})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "k", []byte("v"), 0)
	*now = now.Add(24 * 365 * time.Hour)

	if _, err := cache.Get(ctx, "k"); err != nil {
		t.Errorf("entry without TTL expired: %v", err)
	}
}

func TestMemoryCache_MaxSize(t *testing.T) {
	cache, _ := newTestMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour, MaxSize: 2})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "a", []byte("1"), time.Minute)
	_ = cache.Set(ctx, "b", []byte("2"), time.Hour)
	_ = cache.Set(ctx, "c", []byte("3"), time.Hour)

	if got := cache.Stats().Items; got != 2 {
		t.Fatalf("Items = %d, want 2", got)
	}
	if has, _ := cache.Has(ctx, "a"); has {
		t.Error("entry expiring soonest should be evicted")
	}

	// Overwriting an existing key never evicts.
	_ = cache.Set(ctx, "b", []byte("22"), time.Hour)
	if has, _ := cache.Has(ctx, "c"); !has {
		t.Error("overwrite evicted another entry")
	}
}

func TestMemoryCache_ClearAndStats(t *testing.T) {
	cache, _ := newTestMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "a", []byte("12345"), 0)
	_, _ = cache.Get(ctx, "a")
	_, _ = cache.Get(ctx, "missing")

	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.HitRate != 50 {
		t.Errorf("HitRate = %v, want 50", stats.HitRate)
	}
	if stats.Size != 5 {
		t.Errorf("Size = %d, want 5", stats.Size)
	}

	_ = cache.Clear(ctx)
	if stats := cache.Stats(); stats.Items != 0 || stats.Size != 0 {
		t.Errorf("after Clear: %+v", stats)
	}

	cache.ResetStats()
	if stats := cache.Stats(); stats.Hits != 0 || stats.Misses != 0 {
		t.Errorf("after ResetStats: %+v", stats)
	}
}

func TestMemoryCache_ValueCopy(t *testing.T) {
	cache, _ := newTestMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	original := []byte("value")
	_ = cache.Set(ctx, "k", original, 0)
	original[0] = 'X'

	got, _ := cache.Get(ctx, "k")
	if string(got) != "value" {
		t.Errorf("stored value mutated through caller slice: %s", got)
	}
	got[0] = 'Y'
	again, _ := cache.Get(ctx, "k")
	if string(again) != "value" {
		t.Errorf("stored value mutated through returned slice: %s", again)
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour, MaxSize: 50})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("k%d", (n*100+j)%80)
				_ = cache.Set(ctx, key, []byte("v"), 0)
				_, _ = cache.Get(ctx, key)
				if j%10 == 0 {
					_ = cache.Delete(ctx, "k1")
				}
			}
		}(i)
	}
	wg.Wait()

	if items := cache.Stats().Items; items > 50 {
		t.Errorf("Items = %d exceeds MaxSize", items)
	}
}

func TestMemoryCache_Close(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour, CleanupInterval: time.Millisecond})
	ctx := context.Background()

	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if err := cache.Set(ctx, "k", []byte("v"), 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close = %v, want ErrCacheClosed", err)
	}
	if _, err := cache.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close = %v, want ErrCacheClosed", err)
	}
}

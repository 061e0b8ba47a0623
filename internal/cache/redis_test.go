// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis skips the test if Redis is not configured.
func skipIfNoRedis(t *testing.T) string {
	t.Helper()
	url := os.Getenv("AH_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: AH_TEST_REDIS_URL not set")
	}
	return url
}

func newTestRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	url := skipIfNoRedis(t)

	cache, err := NewRedisCacheFromURL(url, "ah-test:", time.Minute)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	t.Cleanup(func() {
		_ = cache.Clear(context.Background())
		_ = cache.Close()
	})
	_ = cache.Clear(context.Background())
	return cache
}

func TestRedisCache_Basic(t *testing.T) {
	cache := newTestRedisCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "airdrops", []byte("[]"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := cache.Get(ctx, "airdrops")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("Get returned %q", got)
	}

	exists, err := cache.Has(ctx, "airdrops")
	if err != nil || !exists {
		t.Errorf("Has = %v, %v", exists, err)
	}

	if err := cache.Delete(ctx, "airdrops"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cache.Get(ctx, "airdrops"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisCache_TTL(t *testing.T) {
	cache := newTestRedisCache(t)
	ctx := context.Background()

	_ = cache.Set(ctx, "short", []byte("v"), 100*time.Millisecond)
	time.Sleep(250 * time.Millisecond)

	if _, err := cache.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected expired key to miss, got %v", err)
	}
}

func TestRedisCache_ClearKeepsOtherPrefixes(t *testing.T) {
	cache := newTestRedisCache(t)
	ctx := context.Background()

	other, err := NewRedisCacheFromURL(skipIfNoRedis(t), "ah-other:", time.Minute)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	defer func() {
		_ = other.Clear(ctx)
		_ = other.Close()
	}()

	_ = cache.Set(ctx, "airdrops", []byte("1"), 0)
	_ = cache.Set(ctx, "blog-posts", []byte("2"), 0)
	_ = other.Set(ctx, "airdrops", []byte("3"), 0)

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if has, _ := cache.Has(ctx, "blog-posts"); has {
		t.Error("key survived Clear")
	}
	if has, _ := other.Has(ctx, "airdrops"); !has {
		t.Error("Clear removed a key under another prefix")
	}
}

func TestRedisCache_StatsAndPing(t *testing.T) {
	cache := newTestRedisCache(t)
	ctx := context.Background()

	if err := cache.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	_ = cache.Set(ctx, "k", []byte("v"), 0)
	_, _ = cache.Get(ctx, "k")
	_, _ = cache.Get(ctx, "missing")

	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestRedisCache_InvalidURL(t *testing.T) {
	if _, err := NewRedisCacheFromURL("not-a-url", "", 0); err == nil {
		t.Error("expected error for invalid URL")
	}
	if _, err := NewRedisCache(RedisCacheOptions{}); err == nil {
		t.Error("expected error for empty URL")
	}
}

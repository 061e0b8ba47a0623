// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// TypedCache stores JSON-encoded values of one type on top of a Cache.
// Concurrent GetOrSet misses on the same key share one load. A load that
// overlaps a Set or Delete of its key is returned to its callers but not
// stored.
type TypedCache[T any] struct {
	cache      Cache
	defaultTTL time.Duration
	group      singleflight.Group

	mu   sync.Mutex
	gens map[string]uint64
}

// NewTypedCache creates a new TypedCache wrapping the given cache implementation.
func NewTypedCache[T any](cache Cache, defaultTTL time.Duration) *TypedCache[T] {
	return &TypedCache[T]{
		cache:      cache,
		defaultTTL: defaultTTL,
		gens:       make(map[string]uint64),
	}
}

// Get returns the cached value and true, or false on a miss or decode error.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var value T
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false
	}
	return value, true
}

// Set stores a value in the cache with the default TTL.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bump(key)
	return c.cache.Set(ctx, key, data, c.defaultTTL)
}

// Delete removes a key from the cache. Loads already running for the key
// are not stored when they finish.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bump(key)
	c.group.Forget(key)
	return c.cache.Delete(ctx, key)
}

// bump must be called with mu held.
func (c *TypedCache[T]) bump(key string) {
	if c.gens == nil {
		c.gens = make(map[string]uint64)
	}
	c.gens[key]++
}

func (c *TypedCache[T]) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key]
}

// setIfCurrent stores value only if key has not been set or deleted since
// generation gen was read.
func (c *TypedCache[T]) setIfCurrent(ctx context.Context, key string, gen uint64, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		return nil
	}
	return c.cache.Set(ctx, key, data, c.defaultTTL)
}

// Has checks if a key exists in the cache.
func (c *TypedCache[T]) Has(ctx context.Context, key string) bool {
	has, _ := c.cache.Has(ctx, key)
	return has
}

// GetOrSet returns the cached value or loads, stores and returns it.
// Load errors are returned and nothing is cached.
func (c *TypedCache[T]) GetOrSet(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if value, ok := c.Get(ctx, key); ok {
		return value, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		gen := c.generation(key)
		value, err := load(ctx)
		if err != nil {
			return value, err
		}
		// The value is still valid if caching fails.
		_ = c.setIfCurrent(ctx, key, gen, value)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

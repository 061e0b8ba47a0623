// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"context"
	"sync"

	"github.com/olegiv/airdrops-hunter/internal/cache"
)

// State is a snapshot of a query for UI code.
type State[T any] struct {
	Data      T
	IsLoading bool
	Err       error
}

// Query is one cached collection. Concurrent first reads share a single
// fetch. After a failed fetch Data keeps the last good value.
type Query[T any] struct {
	key   string
	cache *cache.TypedCache[T]
	fetch func(ctx context.Context) (T, error)

	mu      sync.Mutex
	state   State[T]
	loading int
}

func newQuery[T any](c cache.Cache, key string, fetch func(context.Context) (T, error)) *Query[T] {
	return &Query[T]{
		key:   key,
		cache: cache.NewTypedCache[T](c, 0),
		fetch: fetch,
	}
}

// Key returns the cache key.
func (q *Query[T]) Key() string {
	return q.key
}

// Get returns the cached value, fetching it first on a miss.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	if v, ok := q.cache.Get(ctx, q.key); ok {
		q.mu.Lock()
		q.state.Data = v
		q.state.Err = nil
		q.mu.Unlock()
		return v, nil
	}

	q.mu.Lock()
	q.loading++
	q.state.IsLoading = true
	q.mu.Unlock()

	v, err := q.cache.GetOrSet(ctx, q.key, q.fetch)

	q.mu.Lock()
	q.loading--
	q.state.IsLoading = q.loading > 0
	q.state.Err = err
	if err == nil {
		q.state.Data = v
	}
	q.mu.Unlock()

	return v, err
}

// State returns the latest snapshot without fetching.
func (q *Query[T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Cached reports whether the value is in the cache.
func (q *Query[T]) Cached(ctx context.Context) bool {
	return q.cache.Has(ctx, q.key)
}

// Invalidate drops the cached value. A fetch already in flight is neither
// shared with later reads nor cached.
func (q *Query[T]) Invalidate(ctx context.Context) error {
	return q.cache.Delete(ctx, q.key)
}

// set stores v directly, as after a login.
func (q *Query[T]) set(ctx context.Context, v T) error {
	if err := q.cache.Set(ctx, q.key, v); err != nil {
		return err
	}
	q.mu.Lock()
	q.state.Data = v
	q.state.Err = nil
	q.mu.Unlock()
	return nil
}

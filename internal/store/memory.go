// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/olegiv/airdrops-hunter/internal/model"
)

// table is an id-keyed collection with its own id sequence.
// Id assignment and insert happen under one lock, and ids are never reused.
type table[T any] struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]T
	order  []int64
}

func newTable[T any]() *table[T] {
	return &table[T]{
		nextID: 1,
		rows:   make(map[int64]T),
	}
}

// insert builds and stores a record under the next id. If any existing row
// fails a conflict check, nothing is stored and the id is not consumed.
func (t *table[T]) insert(build func(id int64) T, conflicts ...func(existing T) error) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, id := range t.order {
		for _, check := range conflicts {
			if err := check(t.rows[id]); err != nil {
				var zero T
				return zero, err
			}
		}
	}

	id := t.nextID
	t.nextID++
	rec := build(id)
	t.rows[id] = rec
	t.order = append(t.order, id)
	return rec, nil
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.rows[id]
	return rec, ok
}

// filter returns matching records in insertion order. A nil predicate
// matches everything.
func (t *table[T]) filter(match func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		rec := t.rows[id]
		if match == nil || match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func (t *table[T]) find(match func(T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, id := range t.order {
		if rec := t.rows[id]; match(rec) {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

func (t *table[T]) update(id int64, apply func(T) T) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	rec = apply(rec)
	t.rows[id] = rec
	return rec, true
}

// updateIf replaces the row only when apply reports a change.
func (t *table[T]) updateIf(id int64, apply func(T) (T, bool)) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	rec, ok = apply(rec)
	if !ok {
		return rec, false
	}
	t.rows[id] = rec
	return rec, true
}

func (t *table[T]) delete(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	if i := slices.Index(t.order, id); i >= 0 {
		t.order = slices.Delete(t.order, i, i+1)
	}
	return true
}

// MemoryStore keeps all records in process memory. Data is lost on restart.
type MemoryStore struct {
	users         *table[model.User]
	airdrops      *table[model.Airdrop]
	blogPosts     *table[model.BlogPost]
	subscriptions *table[model.NewsletterSubscription]
	messages      *table[model.ContactMessage]

	now func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         newTable[model.User](),
		airdrops:      newTable[model.Airdrop](),
		blogPosts:     newTable[model.BlogPost](),
		subscriptions: newTable[model.NewsletterSubscription](),
		messages:      newTable[model.ContactMessage](),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// CreateUser stores a user, rejecting duplicate usernames and emails.
func (s *MemoryStore) CreateUser(_ context.Context, in model.NewUser) (model.User, error) {
	return s.users.insert(
		func(id int64) model.User {
			return model.User{
				ID:           id,
				Username:     in.Username,
				Email:        in.Email,
				PasswordHash: in.PasswordHash,
				IsAdmin:      in.IsAdmin,
			}
		},
		func(u model.User) error {
			if u.Username == in.Username {
				return ErrUsernameTaken
			}
			return nil
		},
		func(u model.User) error {
			if u.Email == in.Email {
				return ErrEmailTaken
			}
			return nil
		},
	)
}

func (s *MemoryStore) UserByID(_ context.Context, id int64) (model.User, bool, error) {
	u, ok := s.users.get(id)
	return u, ok, nil
}

func (s *MemoryStore) UserByUsername(_ context.Context, username string) (model.User, bool, error) {
	u, ok := s.users.find(func(u model.User) bool { return u.Username == username })
	return u, ok, nil
}

func (s *MemoryStore) UserByEmail(_ context.Context, email string) (model.User, bool, error) {
	u, ok := s.users.find(func(u model.User) bool { return u.Email == email })
	return u, ok, nil
}

func (s *MemoryStore) Users(_ context.Context) ([]model.User, error) {
	return s.users.filter(nil), nil
}

func (s *MemoryStore) CreateAirdrop(_ context.Context, in model.NewAirdrop) (model.Airdrop, error) {
	now := s.now()
	return s.airdrops.insert(func(id int64) model.Airdrop {
		return in.Build(id, now)
	})
}

func (s *MemoryStore) AirdropByID(_ context.Context, id int64) (model.Airdrop, bool, error) {
	a, ok := s.airdrops.get(id)
	return a, ok, nil
}

func (s *MemoryStore) Airdrops(_ context.Context) ([]model.Airdrop, error) {
	return s.airdrops.filter(nil), nil
}

func (s *MemoryStore) AirdropsByStatus(_ context.Context, status string) ([]model.Airdrop, error) {
	return s.airdrops.filter(func(a model.Airdrop) bool { return a.Status == status }), nil
}

func (s *MemoryStore) AirdropsByCategory(_ context.Context, category string) ([]model.Airdrop, error) {
	return s.airdrops.filter(func(a model.Airdrop) bool { return a.Category == category }), nil
}

func (s *MemoryStore) UpdateAirdrop(_ context.Context, id int64, patch model.AirdropPatch) (model.Airdrop, bool, error) {
	a, ok := s.airdrops.update(id, patch.Apply)
	return a, ok, nil
}

func (s *MemoryStore) CompleteAirdropIfEnded(_ context.Context, id int64, now time.Time) (model.Airdrop, bool, error) {
	a, ok := s.airdrops.updateIf(id, func(a model.Airdrop) (model.Airdrop, bool) {
		if !a.Ended(now) {
			return a, false
		}
		a.Status = model.StatusCompleted
		return a, true
	})
	return a, ok, nil
}

func (s *MemoryStore) DeleteAirdrop(_ context.Context, id int64) (bool, error) {
	return s.airdrops.delete(id), nil
}

func (s *MemoryStore) CreateBlogPost(_ context.Context, in model.NewBlogPost) (model.BlogPost, error) {
	now := s.now()
	return s.blogPosts.insert(func(id int64) model.BlogPost {
		return in.Build(id, now)
	})
}

func (s *MemoryStore) BlogPostByID(_ context.Context, id int64) (model.BlogPost, bool, error) {
	b, ok := s.blogPosts.get(id)
	return b, ok, nil
}

func (s *MemoryStore) BlogPosts(_ context.Context) ([]model.BlogPost, error) {
	return s.blogPosts.filter(nil), nil
}

func (s *MemoryStore) BlogPostsByCategory(_ context.Context, category string) ([]model.BlogPost, error) {
	return s.blogPosts.filter(func(b model.BlogPost) bool { return b.Category == category }), nil
}

func (s *MemoryStore) UpdateBlogPost(_ context.Context, id int64, patch model.BlogPostPatch) (model.BlogPost, bool, error) {
	b, ok := s.blogPosts.update(id, patch.Apply)
	return b, ok, nil
}

func (s *MemoryStore) DeleteBlogPost(_ context.Context, id int64) (bool, error) {
	return s.blogPosts.delete(id), nil
}

func (s *MemoryStore) CreateSubscription(_ context.Context, in model.NewSubscription) (model.NewsletterSubscription, error) {
	now := s.now()
	return s.subscriptions.insert(func(id int64) model.NewsletterSubscription {
		return model.NewsletterSubscription{ID: id, Email: in.Email, Interests: in.Interests, CreatedAt: now}
	})
}

func (s *MemoryStore) Subscriptions(_ context.Context) ([]model.NewsletterSubscription, error) {
	return s.subscriptions.filter(nil), nil
}

func (s *MemoryStore) CreateContactMessage(_ context.Context, in model.NewContactMessage) (model.ContactMessage, error) {
	now := s.now()
	return s.messages.insert(func(id int64) model.ContactMessage {
		return model.ContactMessage{
			ID:        id,
			Name:      in.Name,
			Email:     in.Email,
			Subject:   in.Subject,
			Message:   in.Message,
			CreatedAt: now,
		}
	})
}

func (s *MemoryStore) ContactMessages(_ context.Context) ([]model.ContactMessage, error) {
	return s.messages.filter(nil), nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides keyed storage for the catalog entities.
//
// Two implementations satisfy Store: MemoryStore keeps everything in process
// memory and SQLStore persists to SQLite or MySQL. Lookups that find nothing
// return ok=false rather than an error; errors are reserved for
// infrastructure failures and uniqueness conflicts.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/olegiv/airdrops-hunter/internal/model"
)

// Uniqueness conflicts reported by CreateUser.
var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
)

// UserStore stores accounts. Users are never updated or deleted.
type UserStore interface {
	CreateUser(ctx context.Context, in model.NewUser) (model.User, error)
	UserByID(ctx context.Context, id int64) (model.User, bool, error)
	UserByUsername(ctx context.Context, username string) (model.User, bool, error)
	UserByEmail(ctx context.Context, email string) (model.User, bool, error)
	Users(ctx context.Context) ([]model.User, error)
}

// AirdropStore stores airdrop listings.
type AirdropStore interface {
	CreateAirdrop(ctx context.Context, in model.NewAirdrop) (model.Airdrop, error)
	AirdropByID(ctx context.Context, id int64) (model.Airdrop, bool, error)
	Airdrops(ctx context.Context) ([]model.Airdrop, error)
	AirdropsByStatus(ctx context.Context, status string) ([]model.Airdrop, error)
	AirdropsByCategory(ctx context.Context, category string) ([]model.Airdrop, error)
	UpdateAirdrop(ctx context.Context, id int64, patch model.AirdropPatch) (model.Airdrop, bool, error)
	// CompleteAirdropIfEnded sets status Completed only if the stored record
	// has ended at now. ok is false when the record is missing or still open.
	CompleteAirdropIfEnded(ctx context.Context, id int64, now time.Time) (model.Airdrop, bool, error)
	DeleteAirdrop(ctx context.Context, id int64) (bool, error)
}

// BlogPostStore stores blog articles.
type BlogPostStore interface {
	CreateBlogPost(ctx context.Context, in model.NewBlogPost) (model.BlogPost, error)
	BlogPostByID(ctx context.Context, id int64) (model.BlogPost, bool, error)
	BlogPosts(ctx context.Context) ([]model.BlogPost, error)
	BlogPostsByCategory(ctx context.Context, category string) ([]model.BlogPost, error)
	UpdateBlogPost(ctx context.Context, id int64, patch model.BlogPostPatch) (model.BlogPost, bool, error)
	DeleteBlogPost(ctx context.Context, id int64) (bool, error)
}

// InboxStore stores newsletter subscriptions and contact messages.
// Both are append-only.
type InboxStore interface {
	CreateSubscription(ctx context.Context, in model.NewSubscription) (model.NewsletterSubscription, error)
	Subscriptions(ctx context.Context) ([]model.NewsletterSubscription, error)
	CreateContactMessage(ctx context.Context, in model.NewContactMessage) (model.ContactMessage, error)
	ContactMessages(ctx context.Context) ([]model.ContactMessage, error)
}

// Store is the full storage contract. List methods return records in
// insertion order.
type Store interface {
	UserStore
	AirdropStore
	BlogPostStore
	InboxStore

	Ping(ctx context.Context) error
	Close() error
}

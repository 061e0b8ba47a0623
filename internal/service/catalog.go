// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service sits between the HTTP handlers and the store. It caches
// the airdrop and blog post collections, cleans user content and emits
// webhook notifications.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/olegiv/airdrops-hunter/internal/cache"
	"github.com/olegiv/airdrops-hunter/internal/catalog"
	"github.com/olegiv/airdrops-hunter/internal/model"
	"github.com/olegiv/airdrops-hunter/internal/store"
)

// Collection cache keys.
const (
	KeyAirdrops  = "airdrops"
	KeyBlogPosts = "blog-posts"
)

// Notifier delivers domain events. *webhook.Dispatcher implements it.
type Notifier interface {
	DispatchEvent(ctx context.Context, eventType string, data any) error
}

// Catalog serves airdrops and blog posts through a collection cache.
type Catalog struct {
	store    store.Store
	airdrops *cache.TypedCache[[]model.Airdrop]
	posts    *cache.TypedCache[[]model.BlogPost]
	parse    catalog.ValueParser
	logger   *slog.Logger
}

// NewCatalog creates a catalog service. A nil parse uses legacy ranking.
func NewCatalog(st store.Store, c cache.Cache, ttl time.Duration, parse catalog.ValueParser, logger *slog.Logger) *Catalog {
	if parse == nil {
		parse = catalog.LegacyValue
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		store:    st,
		airdrops: cache.NewTypedCache[[]model.Airdrop](c, ttl),
		posts:    cache.NewTypedCache[[]model.BlogPost](c, ttl),
		parse:    parse,
		logger:   logger,
	}
}

// AirdropQuery selects and orders the airdrop collection.
type AirdropQuery struct {
	catalog.AirdropFilter
	SortByValue bool
}

// BlogPostQuery selects and orders the blog post collection.
type BlogPostQuery struct {
	catalog.BlogPostFilter
	SortByRecency bool
}

func (s *Catalog) allAirdrops(ctx context.Context) ([]model.Airdrop, error) {
	return s.airdrops.GetOrSet(ctx, KeyAirdrops, s.store.Airdrops)
}

func (s *Catalog) allBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	return s.posts.GetOrSet(ctx, KeyBlogPosts, s.store.BlogPosts)
}

// Airdrops returns the airdrops matching q in insertion order, or ranked by
// value when q.SortByValue is set.
func (s *Catalog) Airdrops(ctx context.Context, q AirdropQuery) ([]model.Airdrop, error) {
	all, err := s.allAirdrops(ctx)
	if err != nil {
		return nil, err
	}
	out := catalog.FilterAirdrops(all, q.AirdropFilter)
	if q.SortByValue {
		out = catalog.SortByValue(out, s.parse)
	}
	return out, nil
}

// Featured returns the home page selection for filter.
func (s *Catalog) Featured(ctx context.Context, filter string, limit int) ([]model.Airdrop, error) {
	all, err := s.allAirdrops(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Featured(all, filter, limit, s.parse), nil
}

// AirdropsByStatus returns airdrops with exactly the given status.
func (s *Catalog) AirdropsByStatus(ctx context.Context, status string) ([]model.Airdrop, error) {
	return s.store.AirdropsByStatus(ctx, status)
}

// AirdropsByCategory returns airdrops with exactly the given category.
func (s *Catalog) AirdropsByCategory(ctx context.Context, category string) ([]model.Airdrop, error) {
	return s.store.AirdropsByCategory(ctx, category)
}

// Airdrop looks up one airdrop.
func (s *Catalog) Airdrop(ctx context.Context, id int64) (model.Airdrop, bool, error) {
	return s.store.AirdropByID(ctx, id)
}

// CreateAirdrop stores a validated airdrop.
func (s *Catalog) CreateAirdrop(ctx context.Context, in model.NewAirdrop) (model.Airdrop, error) {
	a, err := s.store.CreateAirdrop(ctx, in)
	if err != nil {
		return model.Airdrop{}, err
	}
	s.InvalidateAirdrops(ctx)
	s.logger.InfoContext(ctx, "airdrop created", "airdrop_id", a.ID, "title", a.Title)
	return a, nil
}

// UpdateAirdrop applies a validated patch.
func (s *Catalog) UpdateAirdrop(ctx context.Context, id int64, patch model.AirdropPatch) (model.Airdrop, bool, error) {
	a, ok, err := s.store.UpdateAirdrop(ctx, id, patch)
	if err != nil || !ok {
		return a, ok, err
	}
	s.InvalidateAirdrops(ctx)
	s.logger.InfoContext(ctx, "airdrop updated", "airdrop_id", id)
	return a, true, nil
}

// DeleteAirdrop removes an airdrop.
func (s *Catalog) DeleteAirdrop(ctx context.Context, id int64) (bool, error) {
	ok, err := s.store.DeleteAirdrop(ctx, id)
	if err != nil || !ok {
		return ok, err
	}
	s.InvalidateAirdrops(ctx)
	s.logger.InfoContext(ctx, "airdrop deleted", "airdrop_id", id)
	return true, nil
}

// BlogPosts returns the posts matching q in insertion order, or newest
// first when q.SortByRecency is set.
func (s *Catalog) BlogPosts(ctx context.Context, q BlogPostQuery) ([]model.BlogPost, error) {
	all, err := s.allBlogPosts(ctx)
	if err != nil {
		return nil, err
	}
	out := catalog.FilterBlogPosts(all, q.BlogPostFilter)
	if q.SortByRecency {
		out = catalog.SortByRecency(out)
	}
	return out, nil
}

// BlogPostsByCategory returns posts with exactly the given category.
func (s *Catalog) BlogPostsByCategory(ctx context.Context, category string) ([]model.BlogPost, error) {
	return s.store.BlogPostsByCategory(ctx, category)
}

// BlogPost looks up one post.
func (s *Catalog) BlogPost(ctx context.Context, id int64) (model.BlogPost, bool, error) {
	return s.store.BlogPostByID(ctx, id)
}

// BlogPostHTML returns the rendered body of a post.
func (s *Catalog) BlogPostHTML(ctx context.Context, id int64) (string, bool, error) {
	p, ok, err := s.store.BlogPostByID(ctx, id)
	if err != nil || !ok {
		return "", ok, err
	}
	out, err := RenderContent(p.Content)
	if err != nil {
		return "", true, err
	}
	return out, true, nil
}

// CreateBlogPost stores a validated post with its content sanitized.
func (s *Catalog) CreateBlogPost(ctx context.Context, in model.NewBlogPost) (model.BlogPost, error) {
	in.Content = SanitizeContent(in.Content)
	p, err := s.store.CreateBlogPost(ctx, in)
	if err != nil {
		return model.BlogPost{}, err
	}
	s.InvalidateBlogPosts(ctx)
	s.logger.InfoContext(ctx, "blog post created", "post_id", p.ID, "title", p.Title)
	return p, nil
}

// UpdateBlogPost applies a validated patch, sanitizing new content.
func (s *Catalog) UpdateBlogPost(ctx context.Context, id int64, patch model.BlogPostPatch) (model.BlogPost, bool, error) {
	if patch.Content != nil {
		clean := SanitizeContent(*patch.Content)
		patch.Content = &clean
	}
	p, ok, err := s.store.UpdateBlogPost(ctx, id, patch)
	if err != nil || !ok {
		return p, ok, err
	}
	s.InvalidateBlogPosts(ctx)
	s.logger.InfoContext(ctx, "blog post updated", "post_id", id)
	return p, true, nil
}

// DeleteBlogPost removes a post.
func (s *Catalog) DeleteBlogPost(ctx context.Context, id int64) (bool, error) {
	ok, err := s.store.DeleteBlogPost(ctx, id)
	if err != nil || !ok {
		return ok, err
	}
	s.InvalidateBlogPosts(ctx)
	s.logger.InfoContext(ctx, "blog post deleted", "post_id", id)
	return true, nil
}

// InvalidateAirdrops drops the cached airdrop collection.
func (s *Catalog) InvalidateAirdrops(ctx context.Context) {
	if err := s.airdrops.Delete(ctx, KeyAirdrops); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate cache", "key", KeyAirdrops, "error", err)
	}
}

// InvalidateBlogPosts drops the cached blog post collection.
func (s *Catalog) InvalidateBlogPosts(ctx context.Context) {
	if err := s.posts.Delete(ctx, KeyBlogPosts); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate cache", "key", KeyBlogPosts, "error", err)
	}
}

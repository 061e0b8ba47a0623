// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"context"

	"github.com/olegiv/airdrops-hunter/internal/catalog"
	"github.com/olegiv/airdrops-hunter/internal/model"
)

// AirdropView selects and orders the cached airdrop collection locally.
type AirdropView struct {
	catalog.AirdropFilter
	SortByValue bool
	// Parse ranks values; nil uses legacy ranking.
	Parse catalog.ValueParser
}

// FilterAirdrops reads the airdrop collection (fetching it on a miss) and
// applies v without touching the cache.
func (c *Client) FilterAirdrops(ctx context.Context, v AirdropView) ([]model.Airdrop, error) {
	all, err := c.Airdrops.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := catalog.FilterAirdrops(all, v.AirdropFilter)
	if v.SortByValue {
		parse := v.Parse
		if parse == nil {
			parse = catalog.LegacyValue
		}
		out = catalog.SortByValue(out, parse)
	}
	return out, nil
}

// FilterBlogPosts reads the blog post collection and applies f, newest
// first when byRecency is set.
func (c *Client) FilterBlogPosts(ctx context.Context, f catalog.BlogPostFilter, byRecency bool) ([]model.BlogPost, error) {
	all, err := c.BlogPosts.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := catalog.FilterBlogPosts(all, f)
	if byRecency {
		out = catalog.SortByRecency(out)
	}
	return out, nil
}

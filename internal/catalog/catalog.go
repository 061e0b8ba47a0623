// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package catalog derives filtered and sorted views over airdrop and blog
// post collections. Functions never modify their input slices.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/olegiv/airdrops-hunter/internal/model"
)

// All is the sentinel filter value meaning "no filter on this dimension".
const All = "All"

// AirdropFilter narrows an airdrop list. Empty or All fields are ignored.
// Set fields combine with AND.
type AirdropFilter struct {
	Status   string
	Category string
	Search   string
}

// BlogPostFilter narrows a blog post list.
type BlogPostFilter struct {
	Category string
	Search   string
}

func active(v string) bool {
	return v != "" && v != All
}

// folder is not safe for concurrent use, so each call builds its own.
func newFolder() cases.Caser {
	return cases.Fold()
}

// contains reports whether any field contains the query, ignoring case.
func contains(fold cases.Caser, query string, fields ...string) bool {
	q := fold.String(query)
	for _, f := range fields {
		if strings.Contains(fold.String(f), q) {
			return true
		}
	}
	return false
}

// FilterAirdrops returns the airdrops matching f in their original order.
// Search matches title, project name or description.
func FilterAirdrops(airdrops []model.Airdrop, f AirdropFilter) []model.Airdrop {
	fold := newFolder()
	out := make([]model.Airdrop, 0, len(airdrops))
	for _, a := range airdrops {
		if active(f.Status) && a.Status != f.Status {
			continue
		}
		if active(f.Category) && a.Category != f.Category {
			continue
		}
		if f.Search != "" && !contains(fold, f.Search, a.Title, a.ProjectName, a.Description) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// FilterBlogPosts returns the posts matching f in their original order.
// Search matches title, content or tags.
func FilterBlogPosts(posts []model.BlogPost, f BlogPostFilter) []model.BlogPost {
	fold := newFolder()
	out := make([]model.BlogPost, 0, len(posts))
	for _, p := range posts {
		if active(f.Category) && p.Category != f.Category {
			continue
		}
		if f.Search != "" {
			tags := ""
			if p.Tags != nil {
				tags = *p.Tags
			}
			if !contains(fold, f.Search, p.Title, p.Content, tags) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// BlogPost is an article in the blog section.
type BlogPost struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	ImageURL    *string   `json:"imageUrl"`
	AuthorID    *int64    `json:"authorId"`
	Tags        *string   `json:"tags"`
	PublishedAt time.Time `json:"publishedAt"`
}

// NewBlogPost holds the fields for creating a blog post.
// A nil PublishedAt defaults to the creation time.
type NewBlogPost struct {
	Title       string
	Content     string
	Category    string
	ImageURL    *string
	AuthorID    *int64
	Tags        *string
	PublishedAt *time.Time
}

// Build turns the input into a record with the given id.
func (n NewBlogPost) Build(id int64, now time.Time) BlogPost {
	published := now
	if n.PublishedAt != nil {
		published = *n.PublishedAt
	}
	return BlogPost{
		ID:          id,
		Title:       n.Title,
		Content:     n.Content,
		Category:    n.Category,
		ImageURL:    n.ImageURL,
		AuthorID:    n.AuthorID,
		Tags:        n.Tags,
		PublishedAt: published,
	}
}

// BlogPostPatch is a sparse set of field assignments for a blog post.
type BlogPostPatch struct {
	Title       *string
	Content     *string
	Category    *string
	ImageURL    Nullable[string]
	AuthorID    Nullable[int64]
	Tags        Nullable[string]
	PublishedAt *time.Time
}

// Apply returns a copy of b with the patched fields overwritten.
func (p BlogPostPatch) Apply(b BlogPost) BlogPost {
	setIf(p.Title, &b.Title)
	setIf(p.Content, &b.Content)
	setIf(p.Category, &b.Category)
	p.ImageURL.applyTo(&b.ImageURL)
	p.AuthorID.applyTo(&b.AuthorID)
	p.Tags.applyTo(&b.Tags)
	setIf(p.PublishedAt, &b.PublishedAt)
	return b
}

// IsEmpty reports whether the patch assigns no fields.
func (p BlogPostPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Category == nil &&
		!p.ImageURL.Set && !p.AuthorID.Set && !p.Tags.Set && p.PublishedAt == nil
}

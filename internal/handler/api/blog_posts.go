// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/airdrops-hunter/internal/catalog"
	"github.com/olegiv/airdrops-hunter/internal/middleware"
	"github.com/olegiv/airdrops-hunter/internal/model"
	"github.com/olegiv/airdrops-hunter/internal/service"
	"github.com/olegiv/airdrops-hunter/internal/validation"
)

// ListBlogPosts handles GET /api/blog-posts.
// Query parameters: category, search, sort=recent.
func (h *Handler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	posts, err := h.catalog.BlogPosts(r.Context(), service.BlogPostQuery{
		BlogPostFilter: catalog.BlogPostFilter{
			Category: q.Get("category"),
			Search:   strings.TrimSpace(q.Get("search")),
		},
		SortByRecency: q.Get("sort") == "recent",
	})
	if err != nil {
		h.serverError(w, r, "listing blog posts", err)
		return
	}
	WriteJSON(w, http.StatusOK, posts)
}

// BlogPostsByCategory handles GET /api/blog-posts/category/{category}.
func (h *Handler) BlogPostsByCategory(w http.ResponseWriter, r *http.Request) {
	posts, err := h.catalog.BlogPostsByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		h.serverError(w, r, "listing blog posts by category", err)
		return
	}
	WriteJSON(w, http.StatusOK, posts)
}

// GetBlogPost handles GET /api/blog-posts/{id}.
func (h *Handler) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	post, ok := requireEntityByID(h, w, r, "blog post", func(id int64) (model.BlogPost, bool, error) {
		return h.catalog.BlogPost(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, post)
}

// GetBlogPostHTML handles GET /api/blog-posts/{id}/html.
func (h *Handler) GetBlogPostHTML(w http.ResponseWriter, r *http.Request) {
	html, ok := requireEntityByID(h, w, r, "blog post", func(id int64) (string, bool, error) {
		return h.catalog.BlogPostHTML(r.Context(), id)
	})
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// CreateBlogPost handles POST /api/blog-posts. The session admin becomes the
// author when authorId is omitted.
func (h *Handler) CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	var req validation.BlogPostRequest
	if !decodeValid(w, r, &req) {
		return
	}

	in := req.Input()
	if in.AuthorID == nil {
		if uid := middleware.GetUserID(r); uid != 0 {
			in.AuthorID = &uid
		}
	}

	post, err := h.catalog.CreateBlogPost(r.Context(), in)
	if err != nil {
		h.serverError(w, r, "creating blog post", err)
		return
	}
	WriteJSON(w, http.StatusCreated, post)
}

// UpdateBlogPost handles PUT /api/blog-posts/{id}.
func (h *Handler) UpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}

	var req validation.BlogPostPatchRequest
	if !decodeValid(w, r, &req) {
		return
	}

	post, found, err := h.catalog.UpdateBlogPost(r.Context(), id, req.Patch())
	if err != nil {
		h.serverError(w, r, "updating blog post", err)
		return
	}
	if !found {
		WriteNotFound(w, "Blog post not found")
		return
	}
	WriteJSON(w, http.StatusOK, post)
}

// DeleteBlogPost handles DELETE /api/blog-posts/{id}.
func (h *Handler) DeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}

	deleted, err := h.catalog.DeleteBlogPost(r.Context(), id)
	if err != nil {
		h.serverError(w, r, "deleting blog post", err)
		return
	}
	if !deleted {
		WriteNotFound(w, "Blog post not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

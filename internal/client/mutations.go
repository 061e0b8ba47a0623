// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/olegiv/airdrops-hunter/internal/catalog"
	"github.com/olegiv/airdrops-hunter/internal/model"
	"github.com/olegiv/airdrops-hunter/internal/validation"
)

// Login signs in and stores the returned user as the current user.
func (c *Client) Login(ctx context.Context, username, password string) (model.PublicUser, error) {
	var u model.PublicUser
	err := c.do(ctx, http.MethodPost, "/api/users/login", validation.LoginRequest{
		Username: username,
		Password: password,
	}, &u)
	if err != nil {
		return model.PublicUser{}, err
	}
	if err := c.CurrentUser.set(ctx, &u); err != nil {
		c.logger.WarnContext(ctx, "caching current user failed", "error", err)
		c.invalidate(ctx, c.CurrentUser)
	}
	return u, nil
}

// Logout ends the session. The current user becomes nil.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/users/logout", nil, nil); err != nil {
		return err
	}
	if err := c.CurrentUser.set(ctx, nil); err != nil {
		c.invalidate(ctx, c.CurrentUser)
	}
	return nil
}

// Register checks the form locally, including the password confirmation,
// and creates the account. It does not sign in.
func (c *Client) Register(ctx context.Context, form validation.RegisterForm) (model.PublicUser, error) {
	if err := validation.Validate(form); err != nil {
		return model.PublicUser{}, err
	}
	var u model.PublicUser
	if err := c.do(ctx, http.MethodPost, "/api/users/register", form.Request(), &u); err != nil {
		return model.PublicUser{}, err
	}
	return u, nil
}

// CreateAirdrop creates an airdrop. Admin only.
func (c *Client) CreateAirdrop(ctx context.Context, req validation.AirdropRequest) (model.Airdrop, error) {
	var a model.Airdrop
	if err := c.do(ctx, http.MethodPost, KeyAirdrops, req, &a); err != nil {
		return model.Airdrop{}, err
	}
	c.invalidate(ctx, c.Airdrops)
	return a, nil
}

// UpdateAirdrop applies a partial update. Admin only.
func (c *Client) UpdateAirdrop(ctx context.Context, id int64, req validation.AirdropPatchRequest) (model.Airdrop, error) {
	var a model.Airdrop
	if err := c.do(ctx, http.MethodPut, itemPath(KeyAirdrops, id), req, &a); err != nil {
		return model.Airdrop{}, err
	}
	c.invalidate(ctx, c.Airdrops)
	return a, nil
}

// DeleteAirdrop deletes an airdrop. Admin only.
func (c *Client) DeleteAirdrop(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, itemPath(KeyAirdrops, id), nil, nil); err != nil {
		return err
	}
	c.invalidate(ctx, c.Airdrops)
	return nil
}

// Airdrop fetches one airdrop. It bypasses the collection cache.
func (c *Client) Airdrop(ctx context.Context, id int64) (model.Airdrop, error) {
	var a model.Airdrop
	err := c.do(ctx, http.MethodGet, itemPath(KeyAirdrops, id), nil, &a)
	return a, err
}

// Featured fetches the home page selection. Uncached.
func (c *Client) Featured(ctx context.Context, filter string, limit int) ([]model.Airdrop, error) {
	q := make([]string, 0, 4)
	if filter != "" {
		q = append(q, "filter", filter)
	}
	if limit > 0 {
		q = append(q, "limit", strconv.Itoa(limit))
	}
	var out []model.Airdrop
	err := c.do(ctx, http.MethodGet, withQuery(KeyAirdrops+"/featured", q...), nil, &out)
	return out, err
}

// RankedAirdrops fetches the airdrops matching f ordered by the server's
// value ranking. Uncached.
func (c *Client) RankedAirdrops(ctx context.Context, f catalog.AirdropFilter) ([]model.Airdrop, error) {
	q := []string{"sort", "value"}
	if f.Status != "" && f.Status != catalog.All {
		q = append(q, "status", f.Status)
	}
	if f.Category != "" && f.Category != catalog.All {
		q = append(q, "category", f.Category)
	}
	if f.Search != "" {
		q = append(q, "search", f.Search)
	}
	var out []model.Airdrop
	err := c.do(ctx, http.MethodGet, withQuery(KeyAirdrops, q...), nil, &out)
	return out, err
}

// CreateBlogPost creates a blog post. Admin only.
func (c *Client) CreateBlogPost(ctx context.Context, req validation.BlogPostRequest) (model.BlogPost, error) {
	var p model.BlogPost
	if err := c.do(ctx, http.MethodPost, KeyBlogPosts, req, &p); err != nil {
		return model.BlogPost{}, err
	}
	c.invalidate(ctx, c.BlogPosts)
	return p, nil
}

// UpdateBlogPost applies a partial update. Admin only.
func (c *Client) UpdateBlogPost(ctx context.Context, id int64, req validation.BlogPostPatchRequest) (model.BlogPost, error) {
	var p model.BlogPost
	if err := c.do(ctx, http.MethodPut, itemPath(KeyBlogPosts, id), req, &p); err != nil {
		return model.BlogPost{}, err
	}
	c.invalidate(ctx, c.BlogPosts)
	return p, nil
}

// DeleteBlogPost deletes a blog post. Admin only.
func (c *Client) DeleteBlogPost(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, itemPath(KeyBlogPosts, id), nil, nil); err != nil {
		return err
	}
	c.invalidate(ctx, c.BlogPosts)
	return nil
}

// Subscribe signs an email up for the newsletter.
func (c *Client) Subscribe(ctx context.Context, req validation.NewsletterRequest) (model.NewsletterSubscription, error) {
	var s model.NewsletterSubscription
	err := c.do(ctx, http.MethodPost, "/api/newsletter", req, &s)
	return s, err
}

// SendContactMessage submits the contact form.
func (c *Client) SendContactMessage(ctx context.Context, req validation.ContactRequest) (model.ContactMessage, error) {
	var m model.ContactMessage
	err := c.do(ctx, http.MethodPost, "/api/contact", req, &m)
	return m, err
}

func itemPath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}

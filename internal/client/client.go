// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package client is a Go client for the catalog API. It keeps the current
// user, airdrop and blog post collections in a local cache, fetches them
// lazily and drops the affected entry after every successful write.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/olegiv/airdrops-hunter/internal/cache"
	"github.com/olegiv/airdrops-hunter/internal/model"
	"github.com/olegiv/airdrops-hunter/internal/validation"
)

// Cache keys, one per collection. They match the API paths.
const (
	KeyCurrentUser = "/api/users/current"
	KeyAirdrops    = "/api/airdrops"
	KeyBlogPosts   = "/api/blog-posts"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx API response.
type APIError struct {
	Status  int
	Message string
	Code    string
	Errors  []validation.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Options configures a Client. Zero values get defaults.
type Options struct {
	// HTTPClient should carry a cookie jar; the session lives in a cookie.
	HTTPClient *http.Client
	// Cache holds the collections. Defaults to a private memory cache with
	// no expiry.
	Cache  cache.Cache
	Logger *slog.Logger
}

// Client talks to the catalog API.
type Client struct {
	baseURL   string
	http      *http.Client
	cache     cache.Cache
	ownsCache bool
	logger    *slog.Logger

	CurrentUser *Query[*model.PublicUser]
	Airdrops    *Query[[]model.Airdrop]
	BlogPosts   *Query[[]model.BlogPost]
}

// New creates a client for the server at baseURL, e.g. http://localhost:5000.
func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must be http or https", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    opts.HTTPClient,
		cache:   opts.Cache,
		logger:  opts.Logger,
	}
	if c.http == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		c.http = &http.Client{Jar: jar, Timeout: defaultTimeout}
	}
	if c.cache == nil {
		c.cache = cache.NewMemoryCache(cache.MemoryCacheOptions{})
		c.ownsCache = true
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	c.CurrentUser = newQuery(c.cache, KeyCurrentUser, c.fetchCurrentUser)
	c.Airdrops = newQuery(c.cache, KeyAirdrops, func(ctx context.Context) ([]model.Airdrop, error) {
		var out []model.Airdrop
		err := c.do(ctx, http.MethodGet, KeyAirdrops, nil, &out)
		return out, err
	})
	c.BlogPosts = newQuery(c.cache, KeyBlogPosts, func(ctx context.Context) ([]model.BlogPost, error) {
		var out []model.BlogPost
		err := c.do(ctx, http.MethodGet, KeyBlogPosts, nil, &out)
		return out, err
	})

	return c, nil
}

// Close releases the cache if the client created it.
func (c *Client) Close() error {
	if c.ownsCache {
		return c.cache.Close()
	}
	return nil
}

// fetchCurrentUser maps 401 to a nil user.
func (c *Client) fetchCurrentUser(ctx context.Context) (*model.PublicUser, error) {
	var u model.PublicUser
	err := c.do(ctx, http.MethodGet, KeyCurrentUser, nil, &u)
	if IsStatus(err, http.StatusUnauthorized) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// do sends a JSON request and decodes a JSON response into out, which may
// be nil. Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Message string                  `json:"message"`
		Code    string                  `json:"code"`
		Errors  []validation.FieldError `json:"errors"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
		apiErr.Code = body.Code
		apiErr.Errors = body.Errors
	} else if text := strings.TrimSpace(string(data)); text != "" {
		apiErr.Message = text
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

type invalidator interface {
	Key() string
	Invalidate(ctx context.Context) error
}

// invalidate drops a query's entry. The next read refetches.
func (c *Client) invalidate(ctx context.Context, q invalidator) {
	if err := q.Invalidate(ctx); err != nil {
		c.logger.WarnContext(ctx, "cache invalidation failed", "key", q.Key(), "error", err)
	}
}

// withQuery appends key/value pairs to path as a query string.
func withQuery(path string, kv ...string) string {
	if len(kv) < 2 {
		return path
	}
	v := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return path + "?" + v.Encode()
}

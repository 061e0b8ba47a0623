// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/airdrops-hunter/internal/cache"
	"github.com/olegiv/airdrops-hunter/internal/catalog"
	"github.com/olegiv/airdrops-hunter/internal/handler"
	"github.com/olegiv/airdrops-hunter/internal/middleware"
	"github.com/olegiv/airdrops-hunter/internal/service"
	"github.com/olegiv/airdrops-hunter/internal/session"
	"github.com/olegiv/airdrops-hunter/internal/store"
	"github.com/olegiv/airdrops-hunter/internal/version"
)

const (
	adminUser     = "admin"
	adminPassword = "admin-password"
)

// testEnv is a full API stack over the memory store.
type testEnv struct {
	t      *testing.T
	srv    *httptest.Server
	store  store.Store
	client *http.Client
}

type envOption func(*middleware.LoginProtectionConfig)

func withMaxFailedAttempts(n int) envOption {
	return func(cfg *middleware.LoginProtectionConfig) { cfg.MaxFailedAttempts = n }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, store.Seed(ctx, st, store.SeedOptions{
		AdminUsername: adminUser,
		AdminEmail:    "admin@example.com",
		AdminPassword: adminPassword,
		Demo:          true,
	}))

	c := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = c.Close() })

	lpCfg := middleware.LoginProtectionConfig{IPRateLimit: 100, IPBurst: 100}
	for _, opt := range opts {
		opt(&lpCfg)
	}
	lp := middleware.NewLoginProtection(lpCfg)
	t.Cleanup(lp.Stop)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := service.NewUsers(st, nil, logger)
	h := NewHandler(Deps{
		Catalog:         service.NewCatalog(st, c, time.Minute, catalog.LegacyValue, logger),
		Users:           users,
		Inbox:           service.NewInbox(st, nil, logger),
		Sessions:        session.New(nil, true),
		LoginProtection: lp,
		Health: handler.NewHealthHandler(handler.HealthOptions{
			Store:        st,
			CacheBackend: "memory",
			Version:      version.Info{Version: "test"},
		}),
		Logger: logger,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", h.Routes()))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &testEnv{t: t, srv: srv, store: st, client: newJarClient(t)}
}

func newJarClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

// do sends body as JSON (unless it is already a string) and returns the
// response with its body read.
func (e *testEnv) do(client *http.Client, method, path string, body any) (*http.Response, []byte) {
	e.t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(e.t, err)
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.srv.URL+"/api"+path, rdr)
	require.NoError(e.t, err)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(e.t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp, data
}

func (e *testEnv) request(method, path string, body any) (*http.Response, []byte) {
	e.t.Helper()
	return e.do(e.client, method, path, body)
}

// login signs the env client in.
func (e *testEnv) login(username, password string) {
	e.t.Helper()
	resp, body := e.request(http.MethodPost, "/users/login", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(e.t, http.StatusOK, resp.StatusCode, string(body))
}

func (e *testEnv) loginAdmin() {
	e.t.Helper()
	e.login(adminUser, adminPassword)
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

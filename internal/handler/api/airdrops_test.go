// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/airdrops-hunter/internal/model"
)

func validAirdrop() map[string]any {
	return map[string]any{
		"title":          "Orbit Airdrop",
		"projectName":    "Orbit",
		"description":    "Bridge assets to Orbit and claim rewards.",
		"category":       "Layer 2",
		"estimatedValue": "$10-$20",
		"status":         model.StatusActive,
		"participants":   "1200",
		"startDate":      "2024-01-01",
	}
}

func titles(as []model.Airdrop) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.Title
	}
	return out
}

func TestListAirdrops(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(http.MethodGet, "/airdrops", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Airdrop](t, body), 6)
}

func TestListAirdrops_Query(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"status", "?status=Upcoming", []string{"CryptoSwap Airdrop", "GameFi Airdrop"}},
		{"status All", "?status=All&category=Gaming", []string{"GameFi Airdrop"}},
		{"category", "?category=DeFi", []string{"MoonToken Airdrop", "DeFiChain Airdrop"}},
		{"search is case-insensitive", "?search=METAWORLD", []string{"MetaWorld Airdrop"}},
		{"combined", "?category=DeFi&status=Active", []string{"DeFiChain Airdrop"}},
		{"no match", "?search=zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.request(http.MethodGet, "/airdrops"+tt.query, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.want, titles(decode[[]model.Airdrop](t, body)))
		})
	}
}

func TestListAirdrops_SortByValue(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.request(http.MethodGet, "/airdrops?sort=value", nil)
	got := titles(decode[[]model.Airdrop](t, body))
	require.Len(t, got, 6)
	assert.Equal(t, "DeFiChain Airdrop", got[0])
	assert.Equal(t, "MoonToken Airdrop", got[5])
}

func TestFeaturedAirdrops(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.request(http.MethodGet, "/airdrops/featured?limit=2", nil)
	assert.Len(t, decode[[]model.Airdrop](t, body), 2)

	_, body = env.request(http.MethodGet, "/airdrops/featured?filter=High%20Value&limit=1", nil)
	assert.Equal(t, []string{"DeFiChain Airdrop"}, titles(decode[[]model.Airdrop](t, body)))

	_, body = env.request(http.MethodGet, "/airdrops/featured?filter=Ending%20Soon", nil)
	assert.Equal(t, []string{"MoonToken Airdrop", "MetaWorld Airdrop"}, titles(decode[[]model.Airdrop](t, body)))

	resp, body := env.request(http.MethodGet, "/airdrops/featured?filter=Trending", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "High Value")
}

func TestAirdropsByStatusAndCategory(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.request(http.MethodGet, "/airdrops/status/Active", nil)
	assert.Equal(t, []string{"NexusChain Airdrop", "DeFiChain Airdrop"}, titles(decode[[]model.Airdrop](t, body)))

	_, body = env.request(http.MethodGet, "/airdrops/category/Layer%202", nil)
	assert.Equal(t, []string{"NexusChain Airdrop"}, titles(decode[[]model.Airdrop](t, body)))

	resp, body := env.request(http.MethodGet, "/airdrops/status/Unknown", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))
}

func TestGetAirdrop(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(http.MethodGet, "/airdrops/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "MoonToken Airdrop", decode[model.Airdrop](t, body).Title)

	resp, body = env.request(http.MethodGet, "/airdrops/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid ID format", decode[ErrorResponse](t, body).Message)

	resp, body = env.request(http.MethodGet, "/airdrops/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Airdrop not found", decode[ErrorResponse](t, body).Message)
}

func TestAirdropWrites_RequireAdmin(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.request(http.MethodPost, "/airdrops", validAirdrop())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.request(http.MethodDelete, "/airdrops/1", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := env.request(http.MethodPost, "/users/register", map[string]any{
		"username": "member",
		"email":    "member@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	env.login("member", "secret1")

	resp, _ = env.request(http.MethodPut, "/airdrops/1", map[string]any{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAirdropCRUD(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin()

	// Prime the collection cache so invalidation is observable.
	_, body := env.request(http.MethodGet, "/airdrops", nil)
	require.Len(t, decode[[]model.Airdrop](t, body), 6)

	resp, body := env.request(http.MethodPost, "/airdrops", validAirdrop())
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	created := decode[model.Airdrop](t, body)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, int64(1200), created.Participants)
	assert.Nil(t, created.LogoURL)
	require.NotNil(t, created.StartDate)

	_, body = env.request(http.MethodGet, "/airdrops", nil)
	assert.Len(t, decode[[]model.Airdrop](t, body), 7)

	path := "/airdrops/" + strconv.FormatInt(created.ID, 10)
	resp, body = env.request(http.MethodPut, path, map[string]any{
		"status":    model.StatusCompleted,
		"startDate": nil,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	updated := decode[model.Airdrop](t, body)
	assert.Equal(t, model.StatusCompleted, updated.Status)
	assert.Equal(t, created.Title, updated.Title, "absent fields are untouched")
	assert.Nil(t, updated.StartDate, "explicit null clears the field")

	_, body = env.request(http.MethodGet, "/airdrops?status=Completed", nil)
	assert.Equal(t, []string{"Orbit Airdrop"}, titles(decode[[]model.Airdrop](t, body)))

	resp, _ = env.request(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.request(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.request(http.MethodPut, path, map[string]any{"title": "Gone again"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body = env.request(http.MethodGet, "/airdrops", nil)
	assert.Len(t, decode[[]model.Airdrop](t, body), 6)
}

func TestCreateAirdrop_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin()

	bad := validAirdrop()
	bad["title"] = "ab"
	bad["logoUrl"] = "not a url"
	bad["participants"] = "lots"

	resp, body := env.request(http.MethodPost, "/airdrops", bad)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errResp := decode[ErrorResponse](t, body)
	fields := make([]string, 0, len(errResp.Errors))
	for _, fe := range errResp.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"title", "logoUrl", "participants"}, fields)

	_, body = env.request(http.MethodGet, "/airdrops", nil)
	assert.Len(t, decode[[]model.Airdrop](t, body), 6, "failed create must not insert")
}

func TestCreateAirdrop_MalformedBody(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin()

	tests := []struct {
		name string
		body string
		code string
	}{
		{"invalid JSON", `{"title":`, "bad_request"},
		{"wrong type", `{"title": 42}`, "validation_error"},
		{"empty body", ``, "bad_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.request(http.MethodPost, "/airdrops", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, body).Code)
		})
	}
}

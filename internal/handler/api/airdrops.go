// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/airdrops-hunter/internal/catalog"
	"github.com/olegiv/airdrops-hunter/internal/handler"
	"github.com/olegiv/airdrops-hunter/internal/model"
	"github.com/olegiv/airdrops-hunter/internal/service"
	"github.com/olegiv/airdrops-hunter/internal/validation"
)

const maxFeaturedLimit = 50

// ListAirdrops handles GET /api/airdrops.
// Query parameters: status, category, search, sort=value.
func (h *Handler) ListAirdrops(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	airdrops, err := h.catalog.Airdrops(r.Context(), service.AirdropQuery{
		AirdropFilter: catalog.AirdropFilter{
			Status:   q.Get("status"),
			Category: q.Get("category"),
			Search:   strings.TrimSpace(q.Get("search")),
		},
		SortByValue: q.Get("sort") == "value",
	})
	if err != nil {
		h.serverError(w, r, "listing airdrops", err)
		return
	}
	WriteJSON(w, http.StatusOK, airdrops)
}

// FeaturedAirdrops handles GET /api/airdrops/featured?filter=&limit=.
func (h *Handler) FeaturedAirdrops(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = catalog.All
	}
	if !catalog.IsFeaturedFilter(filter) {
		WriteBadRequest(w, "filter must be one of: "+strings.Join(catalog.FeaturedFilters, ", "))
		return
	}
	limit := handler.ParseIntParam(r, "limit", catalog.DefaultFeaturedLimit, 1, maxFeaturedLimit)

	airdrops, err := h.catalog.Featured(r.Context(), filter, limit)
	if err != nil {
		h.serverError(w, r, "listing featured airdrops", err)
		return
	}
	WriteJSON(w, http.StatusOK, airdrops)
}

// AirdropsByStatus handles GET /api/airdrops/status/{status}.
func (h *Handler) AirdropsByStatus(w http.ResponseWriter, r *http.Request) {
	airdrops, err := h.catalog.AirdropsByStatus(r.Context(), chi.URLParam(r, "status"))
	if err != nil {
		h.serverError(w, r, "listing airdrops by status", err)
		return
	}
	WriteJSON(w, http.StatusOK, airdrops)
}

// AirdropsByCategory handles GET /api/airdrops/category/{category}.
func (h *Handler) AirdropsByCategory(w http.ResponseWriter, r *http.Request) {
	airdrops, err := h.catalog.AirdropsByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		h.serverError(w, r, "listing airdrops by category", err)
		return
	}
	WriteJSON(w, http.StatusOK, airdrops)
}

// GetAirdrop handles GET /api/airdrops/{id}.
func (h *Handler) GetAirdrop(w http.ResponseWriter, r *http.Request) {
	airdrop, ok := requireEntityByID(h, w, r, "airdrop", func(id int64) (model.Airdrop, bool, error) {
		return h.catalog.Airdrop(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, airdrop)
}

// CreateAirdrop handles POST /api/airdrops.
func (h *Handler) CreateAirdrop(w http.ResponseWriter, r *http.Request) {
	var req validation.AirdropRequest
	if !decodeValid(w, r, &req) {
		return
	}

	airdrop, err := h.catalog.CreateAirdrop(r.Context(), req.Input())
	if err != nil {
		h.serverError(w, r, "creating airdrop", err)
		return
	}
	WriteJSON(w, http.StatusCreated, airdrop)
}

// UpdateAirdrop handles PUT /api/airdrops/{id}. Fields missing from the body
// are left unchanged; an explicit null clears an optional field.
func (h *Handler) UpdateAirdrop(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}

	var req validation.AirdropPatchRequest
	if !decodeValid(w, r, &req) {
		return
	}

	airdrop, found, err := h.catalog.UpdateAirdrop(r.Context(), id, req.Patch())
	if err != nil {
		h.serverError(w, r, "updating airdrop", err)
		return
	}
	if !found {
		WriteNotFound(w, "Airdrop not found")
		return
	}
	WriteJSON(w, http.StatusOK, airdrop)
}

// DeleteAirdrop handles DELETE /api/airdrops/{id}.
func (h *Handler) DeleteAirdrop(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}

	deleted, err := h.catalog.DeleteAirdrop(r.Context(), id)
	if err != nil {
		h.serverError(w, r, "deleting airdrop", err)
		return
	}
	if !deleted {
		WriteNotFound(w, "Airdrop not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

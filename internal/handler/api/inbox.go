// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/airdrops-hunter/internal/validation"
)

// Subscribe handles POST /api/newsletter.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req validation.NewsletterRequest
	if !decodeValid(w, r, &req) {
		return
	}

	sub, err := h.inbox.Subscribe(r.Context(), req.Input(), h.clientInfo(r))
	if err != nil {
		h.serverError(w, r, "creating newsletter subscription", err)
		return
	}
	WriteJSON(w, http.StatusCreated, sub)
}

// Contact handles POST /api/contact.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	var req validation.ContactRequest
	if !decodeValid(w, r, &req) {
		return
	}

	msg, err := h.inbox.Contact(r.Context(), req.Input(), h.clientInfo(r))
	if err != nil {
		h.serverError(w, r, "creating contact message", err)
		return
	}
	WriteJSON(w, http.StatusCreated, msg)
}

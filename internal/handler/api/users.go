// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/airdrops-hunter/internal/middleware"
	"github.com/olegiv/airdrops-hunter/internal/service"
	"github.com/olegiv/airdrops-hunter/internal/session"
	"github.com/olegiv/airdrops-hunter/internal/store"
	"github.com/olegiv/airdrops-hunter/internal/validation"
)

// CurrentUser handles GET /api/users/current behind RequireUser.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, middleware.GetUser(r).Public())
}

// Login handles POST /api/users/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req validation.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		WriteBadRequest(w, "Username and password are required")
		return
	}

	if locked, remaining := h.lp.IsAccountLocked(req.Username); locked {
		WriteError(w, http.StatusTooManyRequests, "account_locked",
			fmt.Sprintf("Too many failed attempts. Try again in %s.", remaining.Round(time.Second)), nil)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.serverError(w, r, "authenticating user", err)
			return
		}
		locked, _ := h.lp.RecordFailedAttempt(req.Username)
		h.logger.WarnContext(r.Context(), "failed login",
			"username", req.Username,
			"ip", middleware.ClientIP(r),
			"locked", locked,
		)
		WriteUnauthorized(w, "Invalid credentials")
		return
	}

	h.lp.RecordSuccessfulLogin(req.Username)

	// New token on privilege change.
	if err := h.sm.RenewToken(r.Context()); err != nil {
		h.serverError(w, r, "renewing session token", err)
		return
	}
	h.sm.Put(r.Context(), session.UserIDKey, user.ID)

	h.logger.InfoContext(r.Context(), "user logged in", "user_id", user.ID, "username", user.Username)
	WriteJSON(w, http.StatusOK, user.Public())
}

// Logout handles POST /api/users/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sm.Destroy(r.Context()); err != nil {
		h.serverError(w, r, "destroying session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Register handles POST /api/users/register. The isAdmin flag is honored
// only when an admin is creating the account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req validation.RegisterRequest
	if !decodeValid(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req, middleware.IsAdmin(r))
	switch {
	case errors.Is(err, store.ErrUsernameTaken):
		WriteError(w, http.StatusBadRequest, "username_taken", "Username already taken", nil)
		return
	case errors.Is(err, store.ErrEmailTaken):
		WriteError(w, http.StatusBadRequest, "email_taken", "Email already registered", nil)
		return
	case err != nil:
		h.serverError(w, r, "registering user", err)
		return
	}

	WriteJSON(w, http.StatusCreated, user.Public())
}

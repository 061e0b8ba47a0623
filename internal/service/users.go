// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/airdrops-hunter/internal/auth"
	"github.com/olegiv/airdrops-hunter/internal/model"
	"github.com/olegiv/airdrops-hunter/internal/store"
	"github.com/olegiv/airdrops-hunter/internal/validation"
	"github.com/olegiv/airdrops-hunter/internal/webhook"
)

// ErrInvalidCredentials is returned for an unknown user or wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Users handles registration and credential checks.
type Users struct {
	store    store.UserStore
	notifier Notifier
	logger   *slog.Logger
}

// NewUsers creates the account service. notifier may be nil.
func NewUsers(st store.UserStore, notifier Notifier, logger *slog.Logger) *Users {
	if logger == nil {
		logger = slog.Default()
	}
	return &Users{store: st, notifier: notifier, logger: logger}
}

// UserByID implements middleware.UserLookup.
func (s *Users) UserByID(ctx context.Context, id int64) (model.User, bool, error) {
	return s.store.UserByID(ctx, id)
}

// Register creates an account from a validated request. The admin flag is
// kept only when allowAdmin is true. Duplicate usernames and emails return
// store.ErrUsernameTaken or store.ErrEmailTaken.
func (s *Users) Register(ctx context.Context, req validation.RegisterRequest, allowAdmin bool) (model.User, error) {
	if _, ok, err := s.store.UserByUsername(ctx, req.Username); err != nil {
		return model.User{}, fmt.Errorf("checking username: %w", err)
	} else if ok {
		return model.User{}, store.ErrUsernameTaken
	}
	if _, ok, err := s.store.UserByEmail(ctx, req.Email); err != nil {
		return model.User{}, fmt.Errorf("checking email: %w", err)
	} else if ok {
		return model.User{}, store.ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return model.User{}, err
	}

	u, err := s.store.CreateUser(ctx, model.NewUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin && allowAdmin,
	})
	if err != nil {
		return model.User{}, err
	}

	if req.IsAdmin && !allowAdmin {
		s.logger.WarnContext(ctx, "ignored admin flag on self-registration", "user_id", u.ID)
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID, "username", u.Username, "is_admin", u.IsAdmin)

	s.notify(ctx, webhook.EventUserRegistered, webhook.UserEventData{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
	})
	return u, nil
}

// Authenticate checks credentials. Unknown users still pay the hashing cost
// so that timing does not reveal which usernames exist.
func (s *Users) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	u, ok, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		return model.User{}, fmt.Errorf("looking up user: %w", err)
	}
	if !ok {
		auth.SimulateCheck(password)
		return model.User{}, ErrInvalidCredentials
	}

	match, err := auth.CheckPassword(password, u.PasswordHash)
	if err != nil {
		s.logger.ErrorContext(ctx, "stored password hash is invalid", "user_id", u.ID, "error", err)
		return model.User{}, ErrInvalidCredentials
	}
	if !match {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Users) notify(ctx context.Context, eventType string, data any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.DispatchEvent(ctx, eventType, data); err != nil {
		s.logger.WarnContext(ctx, "failed to queue webhook", "event", eventType, "error", err)
	}
}

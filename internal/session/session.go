// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the cookie session manager that backs
// login state.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

// UserIDKey holds the logged-in user's id.
const UserIDKey = "user_id"

// Lifetime is the absolute session lifetime.
const Lifetime = 24 * time.Hour

// New creates a session manager persisted in the SQLite sessions table.
// A nil db keeps sessions in process memory.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	if db != nil {
		sm.Store = sqlite3store.New(db)
	} else {
		sm.Store = memstore.New()
	}

	sm.Lifetime = Lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}

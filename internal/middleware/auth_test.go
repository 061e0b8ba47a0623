// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/olegiv/airdrops-hunter/internal/model"
	"github.com/olegiv/airdrops-hunter/internal/session"
)

type fakeUsers struct {
	users map[int64]model.User
	err   error
}

func (f fakeUsers) UserByID(_ context.Context, id int64) (model.User, bool, error) {
	if f.err != nil {
		return model.User{}, false, f.err
	}
	u, ok := f.users[id]
	return u, ok, nil
}

func withUser(r *http.Request, u model.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ContextKeyUser, u))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGetUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetUser(req) != nil {
		t.Error("GetUser() on anonymous request should be nil")
	}
	if GetUserID(req) != 0 {
		t.Error("GetUserID() on anonymous request should be 0")
	}

	req = withUser(req, model.User{ID: 123, Username: "alice", IsAdmin: true})
	user := GetUser(req)
	if user == nil || user.ID != 123 {
		t.Fatalf("GetUser() = %+v, want id 123", user)
	}
	if GetUserID(req) != 123 {
		t.Errorf("GetUserID() = %d, want 123", GetUserID(req))
	}
	if !IsAdmin(req) {
		t.Error("IsAdmin() = false for admin user")
	}
}

func TestRequireUser(t *testing.T) {
	h := RequireUser(okHandler())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rr.Code)
	}
	if body := decodeError(t, rr); body["message"] != "Not authenticated" {
		t.Errorf("message = %q", body["message"])
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, withUser(httptest.NewRequest(http.MethodGet, "/", nil), model.User{ID: 1}))
	if rr.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", rr.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	h := RequireAdmin(okHandler())

	tests := []struct {
		name string
		user *model.User
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"regular user", &model.User{ID: 2, Username: "bob"}, http.StatusForbidden},
		{"admin", &model.User{ID: 1, Username: "admin", IsAdmin: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/airdrops", nil)
			if tt.user != nil {
				req = withUser(req, *tt.user)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

// serveWithSession runs h after storing userID in a fresh session.
func serveWithSession(sm *scs.SessionManager, userID int64, h http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID != 0 {
			sm.Put(r.Context(), session.UserIDKey, userID)
		}
		h.ServeHTTP(w, r)
	})
	sm.LoadAndSave(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	return rr
}

func TestLoadUser(t *testing.T) {
	sm := scs.New()
	sm.Store = memstore.New()
	users := fakeUsers{users: map[int64]model.User{7: {ID: 7, Username: "carol"}}}

	t.Run("known user", func(t *testing.T) {
		var got *model.User
		h := LoadUser(sm, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetUser(r)
		}))
		serveWithSession(sm, 7, h)
		if got == nil || got.Username != "carol" {
			t.Errorf("user = %+v, want carol", got)
		}
	})

	t.Run("missing user clears session", func(t *testing.T) {
		var got *model.User
		var remaining int64
		h := LoadUser(sm, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetUser(r)
			remaining = sm.GetInt64(r.Context(), session.UserIDKey)
		}))
		serveWithSession(sm, 99, h)
		if got != nil {
			t.Errorf("user = %+v, want nil", got)
		}
		if remaining != 0 {
			t.Errorf("session user id = %d, want cleared", remaining)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		called := false
		h := LoadUser(sm, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		serveWithSession(sm, 0, h)
		if !called {
			t.Error("next handler not called")
		}
	})

	t.Run("lookup error", func(t *testing.T) {
		h := LoadUser(sm, fakeUsers{err: errors.New("db down")})(okHandler())
		rr := serveWithSession(sm, 7, h)
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rr.Code)
		}
	})
}

func TestRequestPath(t *testing.T) {
	var got string
	h := RequestPath(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestPath(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/airdrops/3", nil))

	if got != "/api/airdrops/3" {
		t.Errorf("GetRequestPath() = %q", got)
	}
	if GetRequestPath(context.Background()) != "" {
		t.Error("GetRequestPath() on empty context should be empty")
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestLoginProtection returns a protection instance with a controllable clock.
func newTestLoginProtection(t *testing.T, maxAttempts int, lockout, window time.Duration) (*LoginProtection, *time.Time) {
	t.Helper()
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
		AttemptWindow:     window,
	})
	t.Cleanup(lp.Stop)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lp.now = func() time.Time { return now }
	return lp, &now
}

func TestNewLoginProtectionDefaultValues(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})
	defer lp.Stop()

	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m", lp.lockoutDuration)
	}
}

func TestLoginProtection_LocksAfterMaxAttempts(t *testing.T) {
	lp, now := newTestLoginProtection(t, 3, time.Minute, 10*time.Minute)

	for i := range 2 {
		if locked, _ := lp.RecordFailedAttempt("alice"); locked {
			t.Fatalf("locked after %d attempts", i+1)
		}
	}
	if got := lp.RemainingAttempts("alice"); got != 1 {
		t.Errorf("RemainingAttempts = %d, want 1", got)
	}

	locked, d := lp.RecordFailedAttempt("Alice")
	if !locked || d != time.Minute {
		t.Fatalf("third failure: locked=%v duration=%v", locked, d)
	}

	if locked, remaining := lp.IsAccountLocked("alice"); !locked || remaining != time.Minute {
		t.Errorf("IsAccountLocked = %v, %v", locked, remaining)
	}

	*now = now.Add(61 * time.Second)
	if locked, _ := lp.IsAccountLocked("alice"); locked {
		t.Error("lock should expire")
	}
}

func TestLoginProtection_ExponentialBackoff(t *testing.T) {
	lp, now := newTestLoginProtection(t, 2, time.Minute, time.Hour)

	want := []time.Duration{time.Minute, 2 * time.Minute, 4 * time.Minute}
	for i, w := range want {
		lp.RecordFailedAttempt("bob")
		locked, d := lp.RecordFailedAttempt("bob")
		if !locked || d != w {
			t.Errorf("lockout %d: locked=%v duration=%v, want %v", i+1, locked, d, w)
		}
		*now = now.Add(d + time.Second)
	}
}

func TestLoginProtection_WindowReset(t *testing.T) {
	lp, now := newTestLoginProtection(t, 3, time.Minute, time.Minute)

	lp.RecordFailedAttempt("carol")
	lp.RecordFailedAttempt("carol")
	*now = now.Add(2 * time.Minute)

	if got := lp.RemainingAttempts("carol"); got != 3 {
		t.Errorf("RemainingAttempts after window = %d, want 3", got)
	}
	if locked, _ := lp.RecordFailedAttempt("carol"); locked {
		t.Error("attempt after window should restart the count")
	}
}

func TestLoginProtection_SuccessClears(t *testing.T) {
	lp, _ := newTestLoginProtection(t, 3, time.Minute, time.Minute)

	lp.RecordFailedAttempt("dave")
	lp.RecordFailedAttempt("dave")
	lp.RecordSuccessfulLogin("dave")

	if got := lp.RemainingAttempts("dave"); got != 3 {
		t.Errorf("RemainingAttempts = %d, want 3", got)
	}
}

func TestLoginProtection_CleanupStaleEntries(t *testing.T) {
	lp, now := newTestLoginProtection(t, 3, time.Minute, time.Minute)

	lp.RecordFailedAttempt("erin")
	*now = now.Add(5 * time.Minute)
	lp.cleanupStaleEntries()

	lp.attemptsMu.RLock()
	_, exists := lp.failedAttempts["erin"]
	lp.attemptsMu.RUnlock()
	if exists {
		t.Error("stale entry not removed")
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	defer lp.Stop()

	wrapped := lp.Middleware()(okHandler())

	send := func(method string) int {
		req := httptest.NewRequest(method, "/api/users/login", nil)
		req.RemoteAddr = "203.0.113.9:5555"
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := range 2 {
		if code := send(http.MethodPost); code != http.StatusOK {
			t.Fatalf("POST %d status = %d, want 200", i+1, code)
		}
	}
	if code := send(http.MethodPost); code != http.StatusTooManyRequests {
		t.Errorf("POST over burst status = %d, want 429", code)
	}
	if code := send(http.MethodGet); code != http.StatusOK {
		t.Errorf("GET status = %d, want 200", code)
	}
}

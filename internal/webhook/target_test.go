// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip      string
		private bool
	}{
		{"127.0.0.1", true},
		{"10.0.0.1", true},
		{"172.16.0.1", true},
		{"172.31.255.255", true},
		{"192.168.1.1", true},
		{"169.254.169.254", true},
		{"100.64.0.1", true},
		{"0.0.0.0", true},
		{"224.0.0.1", true},
		{"::1", true},
		{"fe80::1", true},
		{"fd00::1", true},

		{"1.1.1.1", false},
		{"8.8.8.8", false},
		{"172.15.255.255", false},
		{"172.32.0.1", false},
		{"2001:db8::1", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := IsPrivateIP(net.ParseIP(tt.ip)); got != tt.private {
				t.Errorf("IsPrivateIP(%s) = %v, want %v", tt.ip, got, tt.private)
			}
		})
	}

	if !IsPrivateIP(nil) {
		t.Error("IsPrivateIP(nil) = false, want true")
	}
}

// Only IP literals and rejected hosts here, so no lookup leaves the machine.
func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		errMsg string
	}{
		{"public ip", "https://1.1.1.1/hook", ""},
		{"public ip with port", "http://8.8.8.8:8443/hook?x=1", ""},
		{"ftp scheme", "ftp://example.com/file", "http or https"},
		{"javascript scheme", "javascript:alert(1)", "http or https"},
		{"loopback", "http://127.0.0.1/hook", "private"},
		{"metadata", "http://169.254.169.254/latest/meta-data/", "private"},
		{"private v4", "https://192.168.1.100:8080/hook", "private"},
		{"ipv6 loopback", "http://[::1]/hook", "private"},
		{"localhost", "http://localhost:5000/hook", "localhost"},
		{"localhost subdomain", "http://evil.localhost/hook", "localhost"},
		{"missing host", "http:///path", "hostname"},
		{"too long", "https://1.1.1.1/" + strings.Repeat("a", MaxURLLength), "maximum length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(context.Background(), tt.url)
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("ValidateTarget(%q) = %v, want nil", tt.url, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("ValidateTarget(%q) = %v, want error containing %q", tt.url, err, tt.errMsg)
			}
		})
	}
}

func TestPublicDialContextBlocksPrivate(t *testing.T) {
	dial := publicDialContext(&net.Dialer{})

	for _, addr := range []string{"127.0.0.1:80", "10.0.0.1:80", "[::1]:80"} {
		_, err := dial(t.Context(), "tcp", addr)
		if err == nil || !strings.Contains(err.Error(), "private IP") {
			t.Errorf("dial(%s) error = %v, want private IP error", addr, err)
		}
	}
}

func TestDispatcherRefusesPrivateEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("request reached a loopback endpoint")
	}))
	defer srv.Close()

	d := NewDispatcher(Config{URL: srv.URL}, nil)
	res := d.attempt(context.Background(), &delivery{id: "d-1", event: EventContactCreated, payload: []byte(`{}`)})
	if res.err == nil {
		t.Fatal("attempt() error = nil, want blocked connection")
	}
}

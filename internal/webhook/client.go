// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"github.com/mileusna/useragent"

	"github.com/olegiv/airdrops-hunter/internal/geoip"
)

// ClientInfo summarizes the client that triggered an event.
type ClientInfo struct {
	Browser string `json:"browser"`
	OS      string `json:"os"`
	Device  string `json:"device"`
	Country string `json:"country,omitempty"`
}

// NewClientInfo parses the User-Agent header and resolves ip through geo,
// which may be nil.
func NewClientInfo(userAgent, ip string, geo *geoip.Lookup) *ClientInfo {
	ua := useragent.Parse(userAgent)

	info := &ClientInfo{
		Browser: ua.Name,
		OS:      ua.OS,
		Country: geo.Country(ip),
	}
	if info.Browser == "" {
		info.Browser = "Unknown"
	}
	if info.OS == "" {
		info.OS = "Unknown"
	}

	switch {
	case ua.Bot:
		info.Device = "bot"
	case ua.Tablet:
		info.Device = "tablet"
	case ua.Mobile:
		info.Device = "mobile"
	default:
		info.Device = "desktop"
	}
	return info
}

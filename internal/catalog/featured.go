// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"slices"

	"github.com/olegiv/airdrops-hunter/internal/model"
)

// FeaturedHighValue selects the top airdrops by estimated value.
const FeaturedHighValue = "High Value"

// DefaultFeaturedLimit is the number of cards on the home page strip.
const DefaultFeaturedLimit = 6

// FeaturedFilters lists the accepted Featured filters: the home page
// buttons in display order, then Completed.
var FeaturedFilters = []string{
	All, model.StatusUpcoming, model.StatusActive, model.StatusEndingSoon, FeaturedHighValue,
	model.StatusCompleted,
}

// IsFeaturedFilter reports whether filter is one of FeaturedFilters.
func IsFeaturedFilter(filter string) bool {
	return slices.Contains(FeaturedFilters, filter)
}

// Featured picks up to limit airdrops for the home page. filter is All, a
// status name, or FeaturedHighValue.
func Featured(airdrops []model.Airdrop, filter string, limit int, parse ValueParser) []model.Airdrop {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}

	var picked []model.Airdrop
	switch filter {
	case "", All:
		picked = airdrops
	case FeaturedHighValue:
		picked = SortByValue(airdrops, parse)
	default:
		picked = FilterAirdrops(airdrops, AirdropFilter{Status: filter})
	}

	if len(picked) > limit {
		picked = picked[:limit]
	}
	out := make([]model.Airdrop, len(picked))
	copy(out, picked)
	return out
}

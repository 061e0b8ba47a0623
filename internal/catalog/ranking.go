// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"fmt"
	"math/big"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/olegiv/airdrops-hunter/internal/model"
)

// ValueParser derives a numeric sort key from an estimated value string
// such as "$50-$200".
type ValueParser func(estimatedValue string) float64

// Ranking names accepted by ParserFor.
const (
	RankingLegacy = "legacy"
	RankingMax    = "max"
)

// LegacyValue strips every non-digit and reads the rest as one number, so
// "$50-$200" ranks as 50200. Strings without digits rank as 0.
func LegacyValue(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	// big.Float keeps very long digit runs from failing to parse.
	f, _, err := big.ParseFloat(b.String(), 10, 64, big.ToNearestEven)
	if err != nil {
		return 0
	}
	v, _ := f.Float64()
	return v
}

var numberRe = regexp.MustCompile(`\d+(?:,\d{3})*(?:\.\d+)?`)

// MaxBoundValue returns the largest number in the string, so "$50-$200"
// ranks as 200. Thousands separators are accepted.
func MaxBoundValue(s string) float64 {
	var best float64
	for _, m := range numberRe.FindAllString(s, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err == nil && v > best {
			best = v
		}
	}
	return best
}

// ParserFor returns the value parser for a ranking name.
func ParserFor(name string) (ValueParser, error) {
	switch name {
	case "", RankingLegacy:
		return LegacyValue, nil
	case RankingMax:
		return MaxBoundValue, nil
	default:
		return nil, fmt.Errorf("unknown value ranking %q", name)
	}
}

// SortByValue returns a copy sorted by descending estimated value.
// Equal keys keep their relative order.
func SortByValue(airdrops []model.Airdrop, parse ValueParser) []model.Airdrop {
	if parse == nil {
		parse = LegacyValue
	}
	type keyed struct {
		a   model.Airdrop
		key float64
	}
	ks := make([]keyed, len(airdrops))
	for i, a := range airdrops {
		ks[i] = keyed{a: a, key: parse(a.EstimatedValue)}
	}
	slices.SortStableFunc(ks, func(x, y keyed) int {
		switch {
		case x.key > y.key:
			return -1
		case x.key < y.key:
			return 1
		}
		return 0
	})

	out := make([]model.Airdrop, len(ks))
	for i, k := range ks {
		out[i] = k.a
	}
	return out
}

// SortByRecency returns a copy sorted by descending publish time.
func SortByRecency(posts []model.BlogPost) []model.BlogPost {
	out := slices.Clone(posts)
	slices.SortStableFunc(out, func(x, y model.BlogPost) int {
		return y.PublishedAt.Compare(x.PublishedAt)
	})
	return out
}

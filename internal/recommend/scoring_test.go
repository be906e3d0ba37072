// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExploreScore(t *testing.T) {
	w := DefaultConfig().Explore

	tests := []struct {
		name       string
		place      Place
		distanceKm float64
		hasOrigin  bool
		want       float64
	}{
		{
			name:  "rating only",
			place: Place{AverageRating: 4.0},
			want:  40.0,
		},
		{
			name:  "verified bonus",
			place: Place{AverageRating: 4.0, IsVerified: true},
			want:  50.0,
		},
		{
			name:  "hidden gem scaled",
			place: Place{AverageRating: 4.0, IsHiddenGem: true, HiddenGemScore: 80},
			want:  40.0 + 16.0,
		},
		{
			name:  "hidden gem flag without score adds nothing",
			place: Place{AverageRating: 4.0, IsHiddenGem: true},
			want:  40.0,
		},
		{
			name:  "review count below cap",
			place: Place{AverageRating: 4.0, ReviewCount: 15},
			want:  40.0 + 15.0,
		},
		{
			name:  "review count capped at twenty",
			place: Place{AverageRating: 4.0, ReviewCount: 500},
			want:  40.0 + 20.0,
		},
		{
			name:       "proximity bonus at three km",
			place:      Place{AverageRating: 4.0},
			distanceKm: 3.0,
			hasOrigin:  true,
			want:       40.0 + 7.0,
		},
		{
			name:       "proximity bonus floors at zero beyond range",
			place:      Place{AverageRating: 4.0},
			distanceKm: 25.0,
			hasOrigin:  true,
			want:       40.0,
		},
		{
			name:       "no origin means no proximity term",
			place:      Place{AverageRating: 4.0},
			distanceKm: 3.0,
			hasOrigin:  false,
			want:       40.0,
		},
		{
			name: "all signals combined",
			place: Place{
				AverageRating:  4.5,
				IsHiddenGem:    true,
				HiddenGemScore: 70,
				IsVerified:     true,
				ReviewCount:    30,
			},
			distanceKm: 2.0,
			hasOrigin:  true,
			want:       45.0 + 14.0 + 10.0 + 20.0 + 8.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.Score(tt.place, tt.distanceKm, tt.hasOrigin)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestExploreScoreMonotonicInRating(t *testing.T) {
	w := DefaultConfig().Explore

	low := w.Score(Place{AverageRating: 3.0}, 0, false)
	high := w.Score(Place{AverageRating: 4.0}, 0, false)
	assert.Greater(t, high, low)
}

func TestPersonalizationScore(t *testing.T) {
	w := DefaultConfig().Personalization

	tests := []struct {
		name          string
		place         Place
		categoryMatch bool
		priceMatch    bool
		want          float64
	}{
		{
			name:  "rating only",
			place: Place{AverageRating: 4.0},
			want:  24.0,
		},
		{
			name:          "category match",
			place:         Place{AverageRating: 4.0},
			categoryMatch: true,
			want:          54.0,
		},
		{
			name:       "price match",
			place:      Place{AverageRating: 4.0},
			priceMatch: true,
			want:       44.0,
		},
		{
			name:  "hidden gem bonus",
			place: Place{AverageRating: 4.0, IsHiddenGem: true},
			want:  44.0,
		},
		{
			name:          "all signals",
			place:         Place{AverageRating: 5.0, IsHiddenGem: true},
			categoryMatch: true,
			priceMatch:    true,
			want:          30.0 + 20.0 + 30.0 + 20.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.Score(tt.place, tt.categoryMatch, tt.priceMatch)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestTrendingScore(t *testing.T) {
	w := DefaultConfig().Trending

	p := Place{AverageRating: 4.0}
	a := ActivityCounts{Views: 100, Reviews: 10, Favorites: 5}

	// 100*0.3 + 10*2.0 + 5*3.0 + 4.0*5.0
	assert.InDelta(t, 30.0+20.0+15.0+20.0, w.Score(p, a), 1e-9)
}

func TestTrendingScoreOrdersByActivity(t *testing.T) {
	w := DefaultConfig().Trending
	p := Place{AverageRating: 4.0}

	quiet := w.Score(p, ActivityCounts{Views: 10})
	busy := w.Score(p, ActivityCounts{Views: 10, Reviews: 3, Favorites: 2})
	assert.Greater(t, busy, quiet)
}

func TestSimilarityScore(t *testing.T) {
	w := DefaultConfig().Similarity

	source := Place{CategoryID: 1, PriceRange: "$$", AverageRating: 4.5, IsHiddenGem: true}

	tests := []struct {
		name      string
		candidate Place
		want      float64
	}{
		{
			name:      "identical attributes",
			candidate: Place{CategoryID: 1, PriceRange: "$$", AverageRating: 4.5, IsHiddenGem: true},
			want:      40.0 + 20.0 + 20.0 + 20.0,
		},
		{
			name:      "same category only",
			candidate: Place{CategoryID: 1, PriceRange: "$", AverageRating: 4.5},
			want:      40.0 + 20.0,
		},
		{
			name:      "same price only",
			candidate: Place{CategoryID: 2, PriceRange: "$$", AverageRating: 4.5},
			want:      20.0 + 20.0,
		},
		{
			name:      "rating gap reduces affinity",
			candidate: Place{CategoryID: 1, PriceRange: "$$", AverageRating: 2.5},
			want:      40.0 + 20.0 + (20.0 - 2.0*4.0),
		},
		{
			name:      "rating gap of five stars floors affinity at zero",
			candidate: Place{CategoryID: 2, PriceRange: "$", AverageRating: 9.5},
			want:      0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.Score(source, tt.candidate)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSimilarityScoreIsSymmetricInGap(t *testing.T) {
	w := DefaultConfig().Similarity

	a := Place{CategoryID: 1, PriceRange: "$", AverageRating: 3.0}
	b := Place{CategoryID: 1, PriceRange: "$", AverageRating: 4.0}

	assert.InDelta(t, w.Score(a, b), w.Score(b, a), 1e-9)
}

func TestPopularityScore(t *testing.T) {
	w := DefaultConfig().Popularity

	p := Place{AverageRating: 4.2}
	a := ActivityCounts{Views: 200, Reviews: 8, Favorites: 4}

	// 200*0.5 + 8*5.0 + 4*10.0 + 4.2*10.0
	assert.InDelta(t, 100.0+40.0+40.0+42.0, w.Score(p, a), 1e-9)
}

func TestProximityScore(t *testing.T) {
	w := DefaultConfig().Proximity

	assert.InDelta(t, 100.0, w.Score(0), 1e-9)
	assert.InDelta(t, 75.0, w.Score(2.5), 1e-9)
	assert.InDelta(t, 0.0, w.Score(10), 1e-9)

	// No clamp: distant points go negative so ordering stays strict.
	assert.InDelta(t, -50.0, w.Score(15), 1e-9)
}

func TestProximityScoreStrictlyDecreasing(t *testing.T) {
	w := DefaultConfig().Proximity

	prev := w.Score(0)
	for d := 0.5; d <= 20; d += 0.5 {
		cur := w.Score(d)
		require.Less(t, cur, prev, "score must strictly decrease with distance %g", d)
		prev = cur
	}
}

func TestMatchesCategory(t *testing.T) {
	p := Place{CategoryID: 3}

	assert.False(t, matchesCategory(p, nil))
	assert.False(t, matchesCategory(p, map[int64]struct{}{}))
	assert.False(t, matchesCategory(p, toSet([]int64{1, 2})))
	assert.True(t, matchesCategory(p, toSet([]int64{1, 2, 3})))
}

func TestPriceInRange(t *testing.T) {
	min := 10.0
	max := 50.0

	tests := []struct {
		name  string
		place Place
		pref  *UserPreference
		want  bool
	}{
		{
			name:  "no preference record",
			place: Place{AveragePrice: 25},
			pref:  nil,
			want:  false,
		},
		{
			name:  "record without bounds passes positive price",
			place: Place{AveragePrice: 25},
			pref:  &UserPreference{},
			want:  true,
		},
		{
			name:  "record without bounds rejects zero price",
			place: Place{AveragePrice: 0},
			pref:  &UserPreference{},
			want:  false,
		},
		{
			name:  "within bounds",
			place: Place{AveragePrice: 25},
			pref:  &UserPreference{MinPrice: &min, MaxPrice: &max},
			want:  true,
		},
		{
			name:  "below minimum",
			place: Place{AveragePrice: 5},
			pref:  &UserPreference{MinPrice: &min, MaxPrice: &max},
			want:  false,
		},
		{
			name:  "above maximum",
			place: Place{AveragePrice: 80},
			pref:  &UserPreference{MinPrice: &min, MaxPrice: &max},
			want:  false,
		},
		{
			name:  "min only",
			place: Place{AveragePrice: 80},
			pref:  &UserPreference{MinPrice: &min},
			want:  true,
		},
		{
			name:  "max only",
			place: Place{AveragePrice: 5},
			pref:  &UserPreference{MaxPrice: &max},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, priceInRange(tt.place, tt.pref))
		})
	}
}

// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package recommend

import (
	"fmt"
	"strings"

	"github.com/placepulse/placepulse/internal/geo"
)

// Reason generators. Each builds a short explanation string from the same
// signals its ranker scored with; reasons never introduce logic of their
// own. All generators are deterministic.

// Thresholds for the dominant trending signal, checked in priority order.
const (
	trendingReviewSurge   = 10
	trendingFavoriteSurge = 5
	trendingViewSurge     = 50
)

// personalizedReason lists the matched personalization signals in priority
// order: category match, price match, high rating, hidden gem. Signals that
// did not apply are omitted; with no signal at all a generic phrase is used.
func personalizedReason(p Place, categoryMatch, priceMatch bool, highRatingThreshold float64) string {
	var parts []string

	if categoryMatch {
		parts = append(parts, "matches your favorite categories")
	}
	if priceMatch {
		parts = append(parts, "fits your budget")
	}
	if p.AverageRating >= highRatingThreshold {
		parts = append(parts, fmt.Sprintf("highly rated at %.1f", p.AverageRating))
	}
	if p.IsHiddenGem {
		parts = append(parts, "a hidden gem")
	}

	if len(parts) == 0 {
		return "Recommended for you"
	}

	return "Recommended because it " + strings.Join(parts, ", ")
}

// trendingReason names the single dominant engagement signal, in priority
// order reviews > favorites > views, falling back to a generic phrase when
// no signal crosses its surge threshold.
func trendingReason(a ActivityCounts) string {
	switch {
	case a.Reviews > trendingReviewSurge:
		return fmt.Sprintf("%d new reviews this week", a.Reviews)
	case a.Favorites > trendingFavoriteSurge:
		return fmt.Sprintf("Favorited %d times this week", a.Favorites)
	case a.Views > trendingViewSurge:
		return fmt.Sprintf("Viewed %d times this week", a.Views)
	default:
		return "Trending in your area"
	}
}

// similarReason names the source place and states whether the match was by
// category, price range, both, or neither.
func similarReason(source, candidate Place) string {
	sameCategory := candidate.CategoryID == source.CategoryID
	samePrice := candidate.PriceRange == source.PriceRange

	switch {
	case sameCategory && samePrice:
		return fmt.Sprintf("Same category and price range as %s", source.Name)
	case sameCategory:
		return fmt.Sprintf("Same category as %s", source.Name)
	case samePrice:
		return fmt.Sprintf("Same price range as %s", source.Name)
	default:
		return fmt.Sprintf("Because you viewed %s", source.Name)
	}
}

// hiddenGemReason reports the curation score and distance for a discovered
// gem.
func hiddenGemReason(p Place, distanceKm float64) string {
	return fmt.Sprintf("Hidden gem rated %d/100, %.2f km away", p.HiddenGemScore, geo.RoundKm(distanceKm))
}

// popularReason names the dominant windowed engagement signal within the
// category, favorites first since they are weighted heaviest.
func popularReason(a ActivityCounts) string {
	switch {
	case a.Favorites > 0:
		return fmt.Sprintf("Favorited %d times this month", a.Favorites)
	case a.Reviews > 0:
		return fmt.Sprintf("%d reviews this month", a.Reviews)
	case a.Views > 0:
		return fmt.Sprintf("Viewed %d times this month", a.Views)
	default:
		return "Popular in this category"
	}
}

// exploreReason summarizes the strongest generic signals: verification,
// hidden-gem status, and rating.
func exploreReason(p Place, highRatingThreshold float64) string {
	switch {
	case p.IsHiddenGem && p.AverageRating >= highRatingThreshold:
		return fmt.Sprintf("A hidden gem rated %.1f", p.AverageRating)
	case p.IsHiddenGem:
		return "A hidden gem worth discovering"
	case p.AverageRating >= highRatingThreshold:
		return fmt.Sprintf("Rated %.1f by %d reviewers", p.AverageRating, p.ReviewCount)
	default:
		return "Worth exploring"
	}
}

// nearbyReason reports the rounded distance from the origin.
func nearbyReason(distanceKm float64) string {
	return fmt.Sprintf("%.2f km from you", geo.RoundKm(distanceKm))
}

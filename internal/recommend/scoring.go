// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package recommend

import "math"

// Scoring functions. All are pure: no I/O, no side effects, deterministic
// for identical inputs, and safe to call concurrently. Each returns a score
// where higher is better; scores from different policies are not comparable.

// Score computes the generic recommendation ("explore") score.
// The review-count contribution is capped so prolific places cannot
// dominate, and the proximity bonus decays linearly to zero at
// ProximityRange kilometers.
func (w ExploreWeights) Score(p Place, distanceKm float64, hasOrigin bool) float64 {
	score := p.AverageRating * w.Rating

	if p.IsHiddenGem {
		score += float64(p.HiddenGemScore) * w.HiddenGemScale
	}
	if p.IsVerified {
		score += w.VerifiedBonus
	}

	reviews := p.ReviewCount
	if reviews > w.ReviewCountCap {
		reviews = w.ReviewCountCap
	}
	score += float64(reviews)

	if hasOrigin {
		score += math.Max(0, w.ProximityRange-distanceKm)
	}

	return score
}

// Score computes the personalized score for a place given resolved match
// signals. Category and price matching are resolved by the caller (see
// matchesCategory and priceInRange) so the formula itself stays pure.
func (w PersonalizationWeights) Score(p Place, categoryMatch, priceMatch bool) float64 {
	score := p.AverageRating * w.Rating

	if categoryMatch {
		score += w.CategoryMatch
	}
	if priceMatch {
		score += w.PriceMatch
	}
	if p.IsHiddenGem {
		score += w.HiddenGemBonus
	}

	return score
}

// Score computes the trending score from windowed activity counts.
func (w TrendingWeights) Score(p Place, a ActivityCounts) float64 {
	return float64(a.Views)*w.Views +
		float64(a.Reviews)*w.Reviews +
		float64(a.Favorites)*w.Favorites +
		p.AverageRating*w.Rating
}

// Score computes the place-to-place similarity score. The rating-gap
// penalty floors at zero once the gap reaches
// RatingAffinityMax/RatingGapPenalty stars.
func (w SimilarityWeights) Score(source, candidate Place) float64 {
	var score float64

	if candidate.CategoryID == source.CategoryID {
		score += w.SameCategory
	}
	if candidate.PriceRange == source.PriceRange {
		score += w.SamePriceRange
	}

	gap := math.Abs(source.AverageRating - candidate.AverageRating)
	score += math.Max(0, w.RatingAffinityMax-gap*w.RatingGapPenalty)

	if source.IsHiddenGem && candidate.IsHiddenGem {
		score += w.BothHiddenGems
	}

	return score
}

// Score computes the windowed popularity-by-category score.
func (w PopularityWeights) Score(p Place, a ActivityCounts) float64 {
	return float64(a.Views)*w.Views +
		float64(a.Reviews)*w.Reviews +
		float64(a.Favorites)*w.Favorites +
		p.AverageRating*w.Rating
}

// Score computes the proximity-ranked score: linear decay with distance.
// The result goes negative for very distant points; callers must not clamp
// it because only relative ordering matters on the nearby surface.
func (w ProximityWeights) Score(distanceKm float64) float64 {
	return w.Base - distanceKm*w.PerKmPenalty
}

// matchesCategory reports whether the place's category is in the user's
// derived preferred-category set.
func matchesCategory(p Place, preferred map[int64]struct{}) bool {
	if len(preferred) == 0 {
		return false
	}
	_, ok := preferred[p.CategoryID]
	return ok
}

// priceInRange reports whether the place's average price satisfies the
// user's price bounds. With a preference record but no explicit bounds the
// check passes for any place with a positive average price. With no
// preference record at all there is no price signal and the check fails.
func priceInRange(p Place, pref *UserPreference) bool {
	if pref == nil {
		return false
	}
	if pref.MinPrice == nil && pref.MaxPrice == nil {
		return p.AveragePrice > 0
	}
	if pref.MinPrice != nil && p.AveragePrice < *pref.MinPrice {
		return false
	}
	if pref.MaxPrice != nil && p.AveragePrice > *pref.MaxPrice {
		return false
	}
	return true
}

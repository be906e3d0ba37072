// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package recommend

import (
	"sort"

	"github.com/placepulse/placepulse/internal/geo"
)

// sortCandidates orders candidates by score descending, then average rating
// descending, then distance ascending where both candidates carry one, and
// finally stable insertion order. Comparisons always use unrounded
// distances.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.place.AverageRating != b.place.AverageRating {
			return a.place.AverageRating > b.place.AverageRating
		}
		if a.hasDistance && b.hasDistance && a.distanceKm != b.distanceKm {
			return a.distanceKm < b.distanceKm
		}
		return false
	})
}

// rank sorts the candidates, truncates to count, and materializes the
// output list. Distances are rounded to two decimals here, at the output
// boundary only. The returned slice is never nil.
func rank(candidates []candidate, count int) []ScoredRecommendation {
	sortCandidates(candidates)

	if count > 0 && len(candidates) > count {
		candidates = candidates[:count]
	}

	items := make([]ScoredRecommendation, 0, len(candidates))
	for _, c := range candidates {
		item := ScoredRecommendation{
			Place:       c.place,
			Score:       c.score,
			Reason:      c.reason,
			HasVisited:  c.hasVisited,
			IsFavorited: c.isFavorited,
		}
		if c.hasDistance {
			d := geo.RoundKm(c.distanceKm)
			item.DistanceKm = &d
		}
		items = append(items, item)
	}

	return items
}

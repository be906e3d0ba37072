// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package recommend

import "github.com/placepulse/placepulse/internal/geo"

// candidate pairs a place with its distance from the request origin.
// A candidate without an origin carries hasDistance=false and its
// distanceKm is meaningless.
type candidate struct {
	place       Place
	score       float64
	distanceKm  float64
	hasDistance bool
	reason      string
	hasVisited  bool
	isFavorited bool
}

// filterPlaces applies the attribute filters in their documented order and
// returns the surviving candidate set. Filters compose conjunctively; an
// unset filter field constrains nothing. The geo-radius filter runs last so
// the O(n) distance computation sees the smallest possible set.
func filterPlaces(places []Place, f Filters, origin *Origin) []candidate {
	categories := toSet(f.CategoryIDs)

	out := make([]candidate, 0, len(places))
	for _, p := range places {
		if !f.IncludeUnverified && !p.IsVerified {
			continue
		}
		if len(categories) > 0 {
			if _, ok := categories[p.CategoryID]; !ok {
				continue
			}
		}
		if f.MinPrice != nil && p.AveragePrice < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.AveragePrice > *f.MaxPrice {
			continue
		}
		if f.MinRating != nil && p.AverageRating < *f.MinRating {
			continue
		}
		if f.HiddenGem != nil && p.IsHiddenGem != *f.HiddenGem {
			continue
		}
		if f.MinHiddenGemScore != nil && p.HiddenGemScore < *f.MinHiddenGemScore {
			continue
		}

		c := candidate{place: p}
		if origin != nil {
			c.distanceKm = geo.DistanceKm(origin.Latitude, origin.Longitude, p.Latitude, p.Longitude)
			c.hasDistance = true
			if f.RadiusKm != nil && c.distanceKm > *f.RadiusKm {
				continue
			}
		}

		out = append(out, c)
	}

	return out
}

// excludePlaceIDs removes candidates whose place id is in any of the given
// sets. Nil sets are skipped.
func excludePlaceIDs(candidates []candidate, sets ...map[int64]struct{}) []candidate {
	out := candidates[:0]
	for _, c := range candidates {
		excluded := false
		for _, set := range sets {
			if _, ok := set[c.place.ID]; ok {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, c)
		}
	}
	return out
}

// toSet converts an id slice to a membership set. Returns nil for empty
// input so len() checks treat it as "no constraint".
func toSet(ids []int64) map[int64]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

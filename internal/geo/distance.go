// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

// Package geo provides great-circle distance computation for the
// recommendation and ranking layers.
//
// All coordinates are WGS84 degrees. Callers at the HTTP boundary are
// responsible for validating latitude [-90, 90] and longitude [-180, 180];
// this package performs no input validation.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for haversine distances.
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine great-circle distance in kilometers
// between two coordinates given in degrees.
//
// The atan2 form is used rather than asin so that floating-point rounding
// near antipodal points cannot push the argument outside the arcsine domain.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180.0
	lon1Rad := lon1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0
	lon2Rad := lon2 * math.Pi / 180.0

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// RoundKm rounds a distance to two decimal places for presentation.
// Rounding happens only at the output boundary; rankers always compare
// unrounded distances so sort order cannot be perturbed by rounding.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

// Package recommend implements the recommendation and geo-ranking engine.
//
// The engine exposes seven ranked surfaces over a shared candidate model:
// personalized, trending, hidden gems, similar-to-place, popular-by-category,
// explore, and nearby. Each surface follows the same pipeline: fetch active
// places through the DataProvider, filter candidates, score them with a
// surface-specific formula, sort by score with deterministic tie-breaking,
// and truncate to the requested count. All scoring is pure and stateless;
// the optional TTL cache and metrics counters are the only mutable state.
//
// Distances are computed with the haversine formula (package geo) and
// rounded to two decimals only when attached to the outgoing result.
package recommend

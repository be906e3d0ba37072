// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

// Package api exposes the recommendation engine over HTTP. Routes are
// assembled with chi, responses use a common JSON envelope, and query
// parameters are validated before they reach the engine.
package api

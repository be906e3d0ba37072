// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package recommend

import (
	"context"
	"time"
)

// Place is the immutable view of a place consumed by the engine.
// The storage layer only hands over active, non-deleted rows; the engine
// never mutates a Place.
type Place struct {
	// ID is the unique place identifier.
	ID int64 `json:"id"`

	// Name is the display name of the place.
	Name string `json:"name"`

	// CategoryID references the place's category.
	CategoryID int64 `json:"category_id"`

	// Latitude and Longitude are WGS84 degrees.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// AveragePrice is the mean price of a visit in the local currency.
	AveragePrice float64 `json:"average_price"`

	// PriceRange is the display label ("$", "$$", "$$$", "$$$$").
	PriceRange string `json:"price_range"`

	// AverageRating is the mean review rating (0-5).
	AverageRating float64 `json:"average_rating"`

	// ReviewCount is the total number of reviews.
	ReviewCount int `json:"review_count"`

	// IsHiddenGem marks curated low-traffic, high-quality places.
	IsHiddenGem bool `json:"is_hidden_gem"`

	// HiddenGemScore is the curation score (0-100), meaningful only
	// when IsHiddenGem is set.
	HiddenGemScore int `json:"hidden_gem_score"`

	// IsVerified indicates the listing passed moderation.
	IsVerified bool `json:"is_verified"`

	// CreatedAt is when the place was listed.
	CreatedAt time.Time `json:"created_at"`
}

// Category is a place grouping, used for display and equality checks only.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ActivityKind selects which engagement counter to aggregate.
type ActivityKind int

const (
	// ActivityView counts detail-page views.
	ActivityView ActivityKind = iota
	// ActivityReview counts submitted reviews.
	ActivityReview
	// ActivityFavorite counts favorite marks.
	ActivityFavorite
)

// String returns a human-readable name for the activity kind.
func (k ActivityKind) String() string {
	switch k {
	case ActivityView:
		return "view"
	case ActivityReview:
		return "review"
	case ActivityFavorite:
		return "favorite"
	default:
		return "unknown"
	}
}

// ActivityCounts aggregates engagement for one place over a trailing window.
type ActivityCounts struct {
	Views     int `json:"views"`
	Reviews   int `json:"reviews"`
	Favorites int `json:"favorites"`
}

// UserPreference holds a user's stated recommendation preferences.
// Any field may be unset; absence of the whole record is represented by a
// nil pointer at the DataProvider boundary and handled by neutral scoring.
type UserPreference struct {
	// MinPrice and MaxPrice bound the acceptable average price.
	// Nil means unbounded on that side.
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`

	// MinRating is the lowest acceptable average rating.
	MinRating *float64 `json:"min_rating,omitempty"`

	// CategoryIDs lists explicitly preferred categories.
	CategoryIDs []int64 `json:"category_ids,omitempty"`

	// PrefersHiddenGems biases discovery toward hidden gems.
	PrefersHiddenGems bool `json:"prefers_hidden_gems"`
}

// Origin is a caller-supplied reference coordinate for distance-aware
// surfaces. Coordinates are validated at the HTTP boundary.
type Origin struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Filters narrows the place universe before scoring. All constraints
// compose conjunctively; a nil/zero field means "no constraint".
type Filters struct {
	// CategoryIDs keeps places whose category is in the set.
	CategoryIDs []int64 `json:"category_ids,omitempty"`

	// MinPrice and MaxPrice bound the average price, each side optional.
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`

	// MinRating keeps places rated at or above the floor.
	MinRating *float64 `json:"min_rating,omitempty"`

	// HiddenGem filters on the hidden-gem flag when set.
	HiddenGem *bool `json:"hidden_gem,omitempty"`

	// MinHiddenGemScore keeps hidden gems at or above the threshold.
	MinHiddenGemScore *int `json:"min_hidden_gem_score,omitempty"`

	// IncludeUnverified disables the default verified-only constraint.
	IncludeUnverified bool `json:"include_unverified,omitempty"`

	// RadiusKm keeps places within the radius of the request origin.
	// Requires an origin; evaluated after the attribute filters.
	RadiusKm *float64 `json:"radius_km,omitempty"`
}

// ScoredRecommendation is one ranked result.
type ScoredRecommendation struct {
	// Place is the recommended place.
	Place Place `json:"place"`

	// Score is the ranker's score; higher is better. Scores are only
	// comparable within a single surface.
	Score float64 `json:"score"`

	// DistanceKm is the distance from the request origin, rounded to two
	// decimals. Nil when the request carried no origin.
	DistanceKm *float64 `json:"distance_km,omitempty"`

	// Reason is a short human-readable explanation derived from the same
	// signals used for scoring.
	Reason string `json:"reason"`

	// HasVisited and IsFavorited are populated on the personalized
	// surface when visited/favorited places are included.
	HasVisited  bool `json:"has_visited,omitempty"`
	IsFavorited bool `json:"is_favorited,omitempty"`
}

// Surface identifies a recommendation surface for metadata and metrics.
type Surface int

const (
	// SurfacePersonalized is the per-user home feed.
	SurfacePersonalized Surface = iota
	// SurfaceTrending ranks by recent engagement.
	SurfaceTrending
	// SurfaceHiddenGems surfaces curated gems near an origin.
	SurfaceHiddenGems
	// SurfaceSimilar is "more like this place".
	SurfaceSimilar
	// SurfacePopular ranks within a category by windowed engagement.
	SurfacePopular
	// SurfaceExplore is the generic discovery feed.
	SurfaceExplore
	// SurfaceNearby ranks purely by proximity.
	SurfaceNearby
)

// String returns a stable identifier for the surface.
func (s Surface) String() string {
	switch s {
	case SurfacePersonalized:
		return "personalized"
	case SurfaceTrending:
		return "trending"
	case SurfaceHiddenGems:
		return "hidden_gems"
	case SurfaceSimilar:
		return "similar"
	case SurfacePopular:
		return "popular"
	case SurfaceExplore:
		return "explore"
	case SurfaceNearby:
		return "nearby"
	default:
		return "unknown"
	}
}

// Result is the outcome of one recommendation call.
type Result struct {
	// Items is the ordered list of recommendations. Never nil: an empty
	// outcome is a valid response, not an error.
	Items []ScoredRecommendation `json:"items"`

	// TotalCandidates is the number of places that survived filtering
	// before truncation.
	TotalCandidates int `json:"total_candidates"`

	// Metadata carries timing and diagnostic information.
	Metadata ResultMetadata `json:"metadata"`
}

// ResultMetadata carries timing and diagnostic information for a Result.
type ResultMetadata struct {
	// RequestID is the unique request identifier for tracing.
	RequestID string `json:"request_id"`

	// Surface names the recommendation surface that produced the result.
	Surface string `json:"surface"`

	// LatencyMS is the total computation latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// CacheHit indicates the result was served from the engine cache.
	CacheHit bool `json:"cache_hit"`

	// Timestamp is when the result was generated.
	Timestamp time.Time `json:"timestamp"`
}

// DataProvider is the storage collaborator. It is typically implemented by
// the database layer; the engine performs no I/O of its own beyond these
// calls and holds no state between requests.
type DataProvider interface {
	// GetActivePlaces returns the active, non-deleted place universe.
	// Attribute narrowing beyond active/non-deleted is the engine's job.
	GetActivePlaces(ctx context.Context) ([]Place, error)

	// CountRecentActivity returns the number of events of the given kind
	// for a place since the given time.
	CountRecentActivity(ctx context.Context, placeID int64, since time.Time, kind ActivityKind) (int, error)

	// GetUserPreference returns the user's preference record, or nil when
	// the user has never stated preferences.
	GetUserPreference(ctx context.Context, userID int64) (*UserPreference, error)

	// GetUserVisitedPlaceIDs returns the set of place IDs the user has
	// viewed, derived from the view log.
	GetUserVisitedPlaceIDs(ctx context.Context, userID int64) (map[int64]struct{}, error)

	// GetUserFavoritePlaceIDs returns the set of place IDs the user has
	// favorited.
	GetUserFavoritePlaceIDs(ctx context.Context, userID int64) (map[int64]struct{}, error)

	// GetUserPreferredCategoryIDs returns category IDs implied by the
	// user's high-rated reviews (rating >= 4) and favorites.
	GetUserPreferredCategoryIDs(ctx context.Context, userID int64) (map[int64]struct{}, error)
}

// Metrics contains engine counters for observability.
type Metrics struct {
	// RequestCount is the total number of recommendation calls.
	RequestCount int64 `json:"request_count"`

	// EmptyResultCount counts calls that produced zero items.
	EmptyResultCount int64 `json:"empty_result_count"`

	// CacheHits and CacheMisses track the response cache.
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`

	// ErrorCount is the total number of failed calls.
	ErrorCount int64 `json:"error_count"`
}

// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
// The weight defaults encode the documented scoring policies; operators may
// tune individual weights, but the shape of each formula (which signals
// combine, caps, decay) is fixed in code.
type Config struct {
	// Explore contains weights for the generic recommendation score.
	Explore ExploreWeights `json:"explore" koanf:"explore"`

	// Personalization contains weights for the personalized score.
	Personalization PersonalizationWeights `json:"personalization" koanf:"personalization"`

	// Trending contains weights for the trending score.
	Trending TrendingWeights `json:"trending" koanf:"trending"`

	// Similarity contains weights for the place-to-place score.
	Similarity SimilarityWeights `json:"similarity" koanf:"similarity"`

	// Popularity contains weights for the popularity-by-category score.
	Popularity PopularityWeights `json:"popularity" koanf:"popularity"`

	// Proximity contains weights for the pure nearby score.
	Proximity ProximityWeights `json:"proximity" koanf:"proximity"`

	// TrendingWindow is the trailing window for trending activity counts.
	TrendingWindow time.Duration `json:"trending_window" koanf:"trending_window"`

	// PopularityWindow is the trailing window for popularity counts.
	PopularityWindow time.Duration `json:"popularity_window" koanf:"popularity_window"`

	// MinHiddenGemScore is the default hidden-gem score threshold applied
	// when a hidden-gems request does not specify one.
	MinHiddenGemScore int `json:"min_hidden_gem_score" koanf:"min_hidden_gem_score"`

	// HighRatingThreshold marks a rating as "high" for reason generation.
	HighRatingThreshold float64 `json:"high_rating_threshold" koanf:"high_rating_threshold"`

	// Cache contains response cache parameters.
	Cache CacheConfig `json:"cache" koanf:"cache"`
}

// ExploreWeights parameterizes the generic recommendation score:
//
//	rating*Rating + hiddenGemScore*HiddenGemScale (hidden gems only)
//	+ VerifiedBonus (verified only) + min(reviewCount, ReviewCountCap)
//	+ max(0, ProximityRangeKm - distanceKm) (when an origin is given)
type ExploreWeights struct {
	Rating         float64 `json:"rating" koanf:"rating"`
	HiddenGemScale float64 `json:"hidden_gem_scale" koanf:"hidden_gem_scale"`
	VerifiedBonus  float64 `json:"verified_bonus" koanf:"verified_bonus"`
	ReviewCountCap int     `json:"review_count_cap" koanf:"review_count_cap"`
	ProximityRange float64 `json:"proximity_range_km" koanf:"proximity_range_km"`
}

// PersonalizationWeights parameterizes the personalized score:
//
//	CategoryMatch (derived category hit) + PriceMatch (price in range)
//	+ rating*Rating + HiddenGemBonus (hidden gems only)
type PersonalizationWeights struct {
	CategoryMatch  float64 `json:"category_match" koanf:"category_match"`
	PriceMatch     float64 `json:"price_match" koanf:"price_match"`
	Rating         float64 `json:"rating" koanf:"rating"`
	HiddenGemBonus float64 `json:"hidden_gem_bonus" koanf:"hidden_gem_bonus"`
}

// TrendingWeights parameterizes the trending score:
//
//	views*Views + reviews*Reviews + favorites*Favorites + rating*Rating
//
// Reviews and favorites are weighted far more heavily than raw views; they
// are the stronger engagement signal.
type TrendingWeights struct {
	Views     float64 `json:"views" koanf:"views"`
	Reviews   float64 `json:"reviews" koanf:"reviews"`
	Favorites float64 `json:"favorites" koanf:"favorites"`
	Rating    float64 `json:"rating" koanf:"rating"`
}

// SimilarityWeights parameterizes the place-to-place score:
//
//	SameCategory + SamePriceRange
//	+ max(0, RatingAffinityMax - |ratingA-ratingB|*RatingGapPenalty)
//	+ BothHiddenGems
type SimilarityWeights struct {
	SameCategory      float64 `json:"same_category" koanf:"same_category"`
	SamePriceRange    float64 `json:"same_price_range" koanf:"same_price_range"`
	RatingAffinityMax float64 `json:"rating_affinity_max" koanf:"rating_affinity_max"`
	RatingGapPenalty  float64 `json:"rating_gap_penalty" koanf:"rating_gap_penalty"`
	BothHiddenGems    float64 `json:"both_hidden_gems" koanf:"both_hidden_gems"`
}

// PopularityWeights parameterizes the popularity-by-category score:
//
//	views*Views + reviews*Reviews + favorites*Favorites + rating*Rating
type PopularityWeights struct {
	Views     float64 `json:"views" koanf:"views"`
	Reviews   float64 `json:"reviews" koanf:"reviews"`
	Favorites float64 `json:"favorites" koanf:"favorites"`
	Rating    float64 `json:"rating" koanf:"rating"`
}

// ProximityWeights parameterizes the pure nearby score:
//
//	Base - distanceKm*PerKmPenalty
//
// The score may go negative for distant points; rankers must not clamp it
// because only relative ordering matters.
type ProximityWeights struct {
	Base         float64 `json:"base" koanf:"base"`
	PerKmPenalty float64 `json:"per_km_penalty" koanf:"per_km_penalty"`
}

// CacheConfig contains response cache parameters.
type CacheConfig struct {
	// Enabled turns the in-memory response cache on. Off by default;
	// results are cheap to recompute and inputs change per request.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// TTL is how long a cached result remains valid.
	TTL time.Duration `json:"ttl" koanf:"ttl"`

	// MaxEntries bounds the cache size; expired entries are evicted when
	// the bound is reached.
	MaxEntries int `json:"max_entries" koanf:"max_entries"`
}

// DefaultConfig returns the documented scoring policy defaults.
func DefaultConfig() *Config {
	return &Config{
		Explore: ExploreWeights{
			Rating:         10.0,
			HiddenGemScale: 0.2,
			VerifiedBonus:  10.0,
			ReviewCountCap: 20,
			ProximityRange: 10.0,
		},
		Personalization: PersonalizationWeights{
			CategoryMatch:  30.0,
			PriceMatch:     20.0,
			Rating:         6.0,
			HiddenGemBonus: 20.0,
		},
		Trending: TrendingWeights{
			Views:     0.3,
			Reviews:   2.0,
			Favorites: 3.0,
			Rating:    5.0,
		},
		Similarity: SimilarityWeights{
			SameCategory:      40.0,
			SamePriceRange:    20.0,
			RatingAffinityMax: 20.0,
			RatingGapPenalty:  4.0,
			BothHiddenGems:    20.0,
		},
		Popularity: PopularityWeights{
			Views:     0.5,
			Reviews:   5.0,
			Favorites: 10.0,
			Rating:    10.0,
		},
		Proximity: ProximityWeights{
			Base:         100.0,
			PerKmPenalty: 10.0,
		},
		TrendingWindow:      7 * 24 * time.Hour,
		PopularityWindow:    30 * 24 * time.Hour,
		MinHiddenGemScore:   50,
		HighRatingThreshold: 4.5,
		Cache: CacheConfig{
			Enabled:    false,
			TTL:        5 * time.Minute,
			MaxEntries: 1024,
		},
	}
}

// Validate checks the configuration for values that would corrupt ranking.
func (c *Config) Validate() error {
	if c.TrendingWindow <= 0 {
		return fmt.Errorf("trending_window must be positive, got %s", c.TrendingWindow)
	}
	if c.PopularityWindow <= 0 {
		return fmt.Errorf("popularity_window must be positive, got %s", c.PopularityWindow)
	}
	if c.MinHiddenGemScore < 0 || c.MinHiddenGemScore > 100 {
		return fmt.Errorf("min_hidden_gem_score must be within 0-100, got %d", c.MinHiddenGemScore)
	}
	if c.Explore.ReviewCountCap < 0 {
		return fmt.Errorf("explore.review_count_cap must be non-negative, got %d", c.Explore.ReviewCountCap)
	}

	for name, w := range map[string]float64{
		"explore.rating":                   c.Explore.Rating,
		"explore.hidden_gem_scale":         c.Explore.HiddenGemScale,
		"explore.verified_bonus":           c.Explore.VerifiedBonus,
		"explore.proximity_range_km":       c.Explore.ProximityRange,
		"personalization.category_match":   c.Personalization.CategoryMatch,
		"personalization.price_match":      c.Personalization.PriceMatch,
		"personalization.rating":           c.Personalization.Rating,
		"personalization.hidden_gem_bonus": c.Personalization.HiddenGemBonus,
		"trending.views":                   c.Trending.Views,
		"trending.reviews":                 c.Trending.Reviews,
		"trending.favorites":               c.Trending.Favorites,
		"trending.rating":                  c.Trending.Rating,
		"similarity.same_category":         c.Similarity.SameCategory,
		"similarity.same_price_range":      c.Similarity.SamePriceRange,
		"similarity.rating_affinity_max":   c.Similarity.RatingAffinityMax,
		"similarity.rating_gap_penalty":    c.Similarity.RatingGapPenalty,
		"similarity.both_hidden_gems":      c.Similarity.BothHiddenGems,
		"popularity.views":                 c.Popularity.Views,
		"popularity.reviews":               c.Popularity.Reviews,
		"popularity.favorites":             c.Popularity.Favorites,
		"popularity.rating":                c.Popularity.Rating,
		"proximity.per_km_penalty":         c.Proximity.PerKmPenalty,
	} {
		if w < 0 {
			return fmt.Errorf("%s must be non-negative, got %g", name, w)
		}
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive when cache is enabled, got %s", c.Cache.TTL)
		}
		if c.Cache.MaxEntries <= 0 {
			return fmt.Errorf("cache.max_entries must be positive when cache is enabled, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

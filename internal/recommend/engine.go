// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Note: this package depends on no other internal package except geo. The
// DataProvider interface lets the database layer integrate without creating
// circular imports.

// Engine computes ranked place recommendations. Every call is a synchronous
// in-memory transform over data fetched through the DataProvider; the engine
// holds no per-request state and is safe for concurrent use. The only
// mutable state is the optional response cache and metrics counters, both
// explicitly guarded.
type Engine struct {
	config   *Config
	logger   zerolog.Logger
	provider DataProvider

	// Metrics
	requestCount atomic.Int64
	emptyCount   atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64

	// Response cache (optional, TTL-based)
	cache   map[string]cacheEntry
	cacheMu sync.RWMutex
}

// cacheEntry holds a cached result.
type cacheEntry struct {
	result    *Result
	expiresAt time.Time
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, provider DataProvider, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
		provider: provider,
		cache:    make(map[string]cacheEntry),
	}, nil
}

// PersonalizedRequest asks for the per-user home feed.
type PersonalizedRequest struct {
	UserID           int64   `json:"user_id"`
	Count            int     `json:"count"`
	Origin           *Origin `json:"origin,omitempty"`
	IncludeVisited   bool    `json:"include_visited,omitempty"`
	IncludeFavorites bool    `json:"include_favorites,omitempty"`
	RequestID        string  `json:"request_id,omitempty"`
}

// GetPersonalized ranks places by the personalization score. Places the
// user has visited or favorited are excluded unless the request opts in.
// When the user has no derived preferred categories the category filter is
// skipped entirely so that new users still get a full feed.
func (e *Engine) GetPersonalized(ctx context.Context, req PersonalizedRequest) (*Result, error) {
	start := time.Now()
	req.RequestID = e.ensureRequestID(req.RequestID)

	cacheKey := fmt.Sprintf("personalized:%d:%d:%v:%t:%t", req.UserID, req.Count, req.Origin, req.IncludeVisited, req.IncludeFavorites)
	if cached := e.checkCache(cacheKey, req.RequestID, start); cached != nil {
		return cached, nil
	}

	pref, err := e.provider.GetUserPreference(ctx, req.UserID)
	if err != nil {
		return nil, e.fail(fmt.Errorf("get user preference: %w", err))
	}
	visited, err := e.provider.GetUserVisitedPlaceIDs(ctx, req.UserID)
	if err != nil {
		return nil, e.fail(fmt.Errorf("get visited places: %w", err))
	}
	favorites, err := e.provider.GetUserFavoritePlaceIDs(ctx, req.UserID)
	if err != nil {
		return nil, e.fail(fmt.Errorf("get favorite places: %w", err))
	}
	preferred, err := e.provider.GetUserPreferredCategoryIDs(ctx, req.UserID)
	if err != nil {
		return nil, e.fail(fmt.Errorf("get preferred categories: %w", err))
	}

	places, err := e.provider.GetActivePlaces(ctx)
	if err != nil {
		return nil, e.fail(fmt.Errorf("get active places: %w", err))
	}

	filters := Filters{}
	if len(preferred) > 0 {
		filters.CategoryIDs = setToSlice(preferred)
	}
	candidates := filterPlaces(places, filters, req.Origin)

	if !req.IncludeVisited {
		candidates = excludePlaceIDs(candidates, visited)
	}
	if !req.IncludeFavorites {
		candidates = excludePlaceIDs(candidates, favorites)
	}

	for i := range candidates {
		p := candidates[i].place
		categoryMatch := matchesCategory(p, preferred)
		priceMatch := priceInRange(p, pref)

		candidates[i].score = e.config.Personalization.Score(p, categoryMatch, priceMatch)
		candidates[i].reason = personalizedReason(p, categoryMatch, priceMatch, e.config.HighRatingThreshold)
		_, candidates[i].hasVisited = visited[p.ID]
		_, candidates[i].isFavorited = favorites[p.ID]
	}

	result := e.buildResult(SurfacePersonalized, req.RequestID, candidates, req.Count, start)
	e.storeCache(cacheKey, result)
	return result, nil
}

// TrendingRequest asks for places ranked by recent engagement.
type TrendingRequest struct {
	Count     int    `json:"count"`
	RequestID string `json:"request_id,omitempty"`
}

// GetTrending ranks verified places by windowed engagement counts.
func (e *Engine) GetTrending(ctx context.Context, req TrendingRequest) (*Result, error) {
	start := time.Now()
	req.RequestID = e.ensureRequestID(req.RequestID)

	cacheKey := fmt.Sprintf("trending:%d", req.Count)
	if cached := e.checkCache(cacheKey, req.RequestID, start); cached != nil {
		return cached, nil
	}

	places, err := e.provider.GetActivePlaces(ctx)
	if err != nil {
		return nil, e.fail(fmt.Errorf("get active places: %w", err))
	}

	candidates := filterPlaces(places, Filters{}, nil)

	since := time.Now().Add(-e.config.TrendingWindow)
	activity, err := e.activityFor(ctx, candidates, since)
	if err != nil {
		return nil, e.fail(err)
	}

	for i := range candidates {
		p := candidates[i].place
		a := activity[p.ID]
		candidates[i].score = e.config.Trending.Score(p, a)
		candidates[i].reason = trendingReason(a)
	}

	result := e.buildResult(SurfaceTrending, req.RequestID, candidates, req.Count, start)
	e.storeCache(cacheKey, result)
	return result, nil
}

// HiddenGemsRequest asks for curated hidden gems near an origin.
// Origin and radius are required and validated at the boundary.
type HiddenGemsRequest struct {
	Origin    Origin  `json:"origin"`
	RadiusKm  float64 `json:"radius_km"`
	Count     int     `json:"count"`
	MinScore  int     `json:"min_score,omitempty"`
	RequestID string  `json:"request_id,omitempty"`
}

// GetHiddenGems returns verified hidden gems within the radius, ranked by
// their curation score. A non-positive MinScore falls back to the
// configured default threshold.
func (e *Engine) GetHiddenGems(ctx context.Context, req HiddenGemsRequest) (*Result, error) {
	start := time.Now()
	req.RequestID = e.ensureRequestID(req.RequestID)

	minScore := req.MinScore
	if minScore <= 0 {
		minScore = e.config.MinHiddenGemScore
	}

	cacheKey := fmt.Sprintf("gems:%v:%g:%d:%d", req.Origin, req.RadiusKm, req.Count, minScore)
	if cached := e.checkCache(cacheKey, req.RequestID, start); cached != nil {
		return cached, nil
	}

	places, err := e.provider.GetActivePlaces(ctx)
	if err != nil {
		return nil, e.fail(fmt.Errorf("get active places: %w", err))
	}

	hidden := true
	filters := Filters{
		HiddenGem:         &hidden,
		MinHiddenGemScore: &minScore,
		RadiusKm:          &req.RadiusKm,
	}
	candidates := filterPlaces(places, filters, &req.Origin)

	for i := range candidates {
		candidates[i].score = float64(candidates[i].place.HiddenGemScore)
		candidates[i].reason = hiddenGemReason(candidates[i].place, candidates[i].distanceKm)
	}

	result := e.buildResult(SurfaceHiddenGems, req.RequestID, candidates, req.Count, start)
	e.storeCache(cacheKey, result)
	return result, nil
}

// SimilarRequest asks for places similar to a source place.
type SimilarRequest struct {
	PlaceID   int64  `json:"place_id"`
	Count     int    `json:"count"`
	RequestID string `json:"request_id,omitempty"`
}

// GetSimilar ranks places sharing the source's category or price range by
// the similarity score. A missing source place yields an empty result, not
// an error: "no recommendations" is a valid response.
func (e *Engine) GetSimilar(ctx context.Context, req SimilarRequest) (*Result, error) {
	start := time.Now()
	req.RequestID = e.ensureRequestID(req.RequestID)

	cacheKey := fmt.Sprintf("similar:%d:%d", req.PlaceID, req.Count)
	if cached := e.checkCache(cacheKey, req.RequestID, start); cached != nil {
		return cached, nil
	}

	places, err := e.provider.GetActivePlaces(ctx)
	if err != nil {
		return nil, e.fail(fmt.Errorf("get active places: %w", err))
	}

	var source *Place
	for i := range places {
		if places[i].ID == req.PlaceID {
			source = &places[i]
			break
		}
	}
	if source == nil {
		e.logger.Debug().
			Str("request_id", req.RequestID).
			Int64("place_id", req.PlaceID).
			Msg("similar-to source place not found")
		return e.buildResult(SurfaceSimilar, req.RequestID, nil, req.Count, start), nil
	}

	all := filterPlaces(places, Filters{}, nil)

	// Same category OR same price range, never the source itself.
	candidates := all[:0]
	for _, c := range all {
		if c.place.ID == source.ID {
			continue
		}
		if c.place.CategoryID != source.CategoryID && c.place.PriceRange != source.PriceRange {
			continue
		}
		candidates = append(candidates, c)
	}

	for i := range candidates {
		candidates[i].score = e.config.Similarity.Score(*source, candidates[i].place)
		candidates[i].reason = similarReason(*source, candidates[i].place)
	}

	result := e.buildResult(SurfaceSimilar, req.RequestID, candidates, req.Count, start)
	e.storeCache(cacheKey, result)
	return result, nil
}

// PopularRequest asks for the most popular places in one category.
type PopularRequest struct {
	CategoryID int64   `json:"category_id"`
	Count      int     `json:"count"`
	Origin     *Origin `json:"origin,omitempty"`
	RequestID  string  `json:"request_id,omitempty"`
}

// GetPopularByCategory ranks places in the category by windowed popularity.
func (e *Engine) GetPopularByCategory(ctx context.Context, req PopularRequest) (*Result, error) {
	start := time.Now()
	req.RequestID = e.ensureRequestID(req.RequestID)

	cacheKey := fmt.Sprintf("popular:%d:%d:%v", req.CategoryID, req.Count, req.Origin)
	if cached := e.checkCache(cacheKey, req.RequestID, start); cached != nil {
		return cached, nil
	}

	places, err := e.provider.GetActivePlaces(ctx)
	if err != nil {
		return nil, e.fail(fmt.Errorf("get active places: %w", err))
	}

	filters := Filters{CategoryIDs: []int64{req.CategoryID}}
	candidates := filterPlaces(places, filters, req.Origin)

	since := time.Now().Add(-e.config.PopularityWindow)
	activity, err := e.activityFor(ctx, candidates, since)
	if err != nil {
		return nil, e.fail(err)
	}

	for i := range candidates {
		p := candidates[i].place
		a := activity[p.ID]
		candidates[i].score = e.config.Popularity.Score(p, a)
		candidates[i].reason = popularReason(a)
	}

	result := e.buildResult(SurfacePopular, req.RequestID, candidates, req.Count, start)
	e.storeCache(cacheKey, result)
	return result, nil
}

// ExploreRequest asks for the generic discovery feed with caller filters.
type ExploreRequest struct {
	Filters   Filters `json:"filters"`
	Origin    *Origin `json:"origin,omitempty"`
	Count     int     `json:"count"`
	RequestID string  `json:"request_id,omitempty"`
}

// GetExplore applies the caller's filters and ranks by the generic
// recommendation score.
func (e *Engine) GetExplore(ctx context.Context, req ExploreRequest) (*Result, error) {
	start := time.Now()
	req.RequestID = e.ensureRequestID(req.RequestID)

	places, err := e.provider.GetActivePlaces(ctx)
	if err != nil {
		return nil, e.fail(fmt.Errorf("get active places: %w", err))
	}

	candidates := filterPlaces(places, req.Filters, req.Origin)

	for i := range candidates {
		c := candidates[i]
		candidates[i].score = e.config.Explore.Score(c.place, c.distanceKm, c.hasDistance)
		candidates[i].reason = exploreReason(c.place, e.config.HighRatingThreshold)
	}

	return e.buildResult(SurfaceExplore, req.RequestID, candidates, req.Count, start), nil
}

// NearbyRequest asks for places ranked purely by proximity.
// Origin and radius are required and validated at the boundary.
type NearbyRequest struct {
	Origin    Origin  `json:"origin"`
	RadiusKm  float64 `json:"radius_km"`
	Count     int     `json:"count"`
	RequestID string  `json:"request_id,omitempty"`
}

// GetNearby returns verified places within the radius ranked by the linear
// proximity score.
func (e *Engine) GetNearby(ctx context.Context, req NearbyRequest) (*Result, error) {
	start := time.Now()
	req.RequestID = e.ensureRequestID(req.RequestID)

	cacheKey := fmt.Sprintf("nearby:%v:%g:%d", req.Origin, req.RadiusKm, req.Count)
	if cached := e.checkCache(cacheKey, req.RequestID, start); cached != nil {
		return cached, nil
	}

	places, err := e.provider.GetActivePlaces(ctx)
	if err != nil {
		return nil, e.fail(fmt.Errorf("get active places: %w", err))
	}

	filters := Filters{RadiusKm: &req.RadiusKm}
	candidates := filterPlaces(places, filters, &req.Origin)

	for i := range candidates {
		candidates[i].score = e.config.Proximity.Score(candidates[i].distanceKm)
		candidates[i].reason = nearbyReason(candidates[i].distanceKm)
	}

	result := e.buildResult(SurfaceNearby, req.RequestID, candidates, req.Count, start)
	e.storeCache(cacheKey, result)
	return result, nil
}

// GetMetrics returns a snapshot of the engine counters.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		RequestCount:     e.requestCount.Load(),
		EmptyResultCount: e.emptyCount.Load(),
		CacheHits:        e.cacheHits.Load(),
		CacheMisses:      e.cacheMisses.Load(),
		ErrorCount:       e.errorCount.Load(),
	}
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// ClearCache removes all cached results.
func (e *Engine) ClearCache() {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	e.cache = make(map[string]cacheEntry)
	e.logger.Debug().Msg("cache cleared")
}

// SweepCache removes expired cache entries and returns how many were
// dropped.
func (e *Engine) SweepCache() int {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	now := time.Now()
	removed := 0
	for k, entry := range e.cache {
		if now.After(entry.expiresAt) {
			delete(e.cache, k)
			removed++
		}
	}
	if removed > 0 {
		e.logger.Debug().Int("removed", removed).Msg("cache sweep")
	}
	return removed
}

// activityFor fetches windowed activity counts for every candidate place.
func (e *Engine) activityFor(ctx context.Context, candidates []candidate, since time.Time) (map[int64]ActivityCounts, error) {
	activity := make(map[int64]ActivityCounts, len(candidates))
	for _, c := range candidates {
		id := c.place.ID

		views, err := e.provider.CountRecentActivity(ctx, id, since, ActivityView)
		if err != nil {
			return nil, fmt.Errorf("count views for place %d: %w", id, err)
		}
		reviews, err := e.provider.CountRecentActivity(ctx, id, since, ActivityReview)
		if err != nil {
			return nil, fmt.Errorf("count reviews for place %d: %w", id, err)
		}
		favorites, err := e.provider.CountRecentActivity(ctx, id, since, ActivityFavorite)
		if err != nil {
			return nil, fmt.Errorf("count favorites for place %d: %w", id, err)
		}

		activity[id] = ActivityCounts{Views: views, Reviews: reviews, Favorites: favorites}
	}
	return activity, nil
}

// buildResult ranks the candidates and assembles the final result.
func (e *Engine) buildResult(surface Surface, requestID string, candidates []candidate, count int, start time.Time) *Result {
	e.requestCount.Add(1)

	items := rank(candidates, count)
	if len(items) == 0 {
		e.emptyCount.Add(1)
	}

	result := &Result{
		Items:           items,
		TotalCandidates: len(candidates),
		Metadata: ResultMetadata{
			RequestID: requestID,
			Surface:   surface.String(),
			LatencyMS: time.Since(start).Milliseconds(),
			Timestamp: time.Now(),
		},
	}

	e.logger.Debug().
		Str("request_id", requestID).
		Str("surface", surface.String()).
		Int("candidates", len(candidates)).
		Int("returned", len(items)).
		Int64("latency_ms", result.Metadata.LatencyMS).
		Msg("recommendation complete")

	return result
}

// fail counts an error and passes it through.
func (e *Engine) fail(err error) error {
	e.errorCount.Add(1)
	return err
}

// ensureRequestID fills in a request ID when the caller supplied none.
func (e *Engine) ensureRequestID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// checkCache returns a copy of a valid cached result, marking it as a
// cache hit with fresh latency, or nil on a miss.
func (e *Engine) checkCache(key, requestID string, start time.Time) *Result {
	if !e.config.Cache.Enabled {
		return nil
	}

	e.cacheMu.RLock()
	entry, ok := e.cache[key]
	e.cacheMu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		e.cacheMisses.Add(1)
		return nil
	}

	e.cacheHits.Add(1)

	items := make([]ScoredRecommendation, len(entry.result.Items))
	copy(items, entry.result.Items)

	meta := entry.result.Metadata
	meta.RequestID = requestID
	meta.CacheHit = true
	meta.LatencyMS = time.Since(start).Milliseconds()

	return &Result{
		Items:           items,
		TotalCandidates: entry.result.TotalCandidates,
		Metadata:        meta,
	}
}

// storeCache caches a result when caching is enabled.
func (e *Engine) storeCache(key string, result *Result) {
	if !e.config.Cache.Enabled {
		return
	}

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	if len(e.cache) >= e.config.Cache.MaxEntries {
		now := time.Now()
		for k, entry := range e.cache {
			if now.After(entry.expiresAt) {
				delete(e.cache, k)
			}
		}
	}

	e.cache[key] = cacheEntry{
		result:    result,
		expiresAt: time.Now().Add(e.config.Cache.TTL),
	}
}

// setToSlice converts a membership set back to a sorted-agnostic id slice.
func setToSlice(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

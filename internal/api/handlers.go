// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/placepulse/placepulse/internal/config"
	"github.com/placepulse/placepulse/internal/metrics"
	"github.com/placepulse/placepulse/internal/middleware"
	"github.com/placepulse/placepulse/internal/recommend"
	"github.com/placepulse/placepulse/internal/validation"
)

// Pinger reports storage liveness for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds the HTTP handlers for the recommendation API.
type Handlers struct {
	engine    *recommend.Engine
	store     Pinger
	rw        *ResponseWriter
	cfg       *config.APIConfig
	startedAt time.Time
}

// NewHandlers creates the handler set.
func NewHandlers(engine *recommend.Engine, store Pinger, cfg *config.APIConfig) *Handlers {
	return &Handlers{
		engine:    engine,
		store:     store,
		rw:        NewResponseWriter(),
		cfg:       cfg,
		startedAt: time.Now(),
	}
}

// defaultedCount substitutes the configured default when the client sent no
// count.
func (h *Handlers) defaultedCount(count int) int {
	if count <= 0 {
		return h.cfg.DefaultCount
	}
	return count
}

// rejectCount rejects counts above the configured ceiling, which may be
// lower than the absolute bound in the struct tags. Zero means the client
// omitted the count.
func (h *Handlers) rejectCount(w http.ResponseWriter, r *http.Request, count int) bool {
	if count > h.cfg.MaxCount {
		h.rw.BadRequest(w, r, fmt.Sprintf("count must not exceed %d", h.cfg.MaxCount))
		return true
	}
	return false
}

// rejectInvalid writes the appropriate error response for a parse or
// validation failure and reports whether the request was rejected.
func (h *Handlers) rejectInvalid(w http.ResponseWriter, r *http.Request, parseErr error, payload interface{}) bool {
	if parseErr != nil {
		h.rw.BadRequest(w, r, parseErr.Error())
		return true
	}
	if verr := validation.ValidateStruct(payload); verr != nil {
		apiErr := verr.ToAPIError()
		h.rw.ValidationError(w, r, &APIError{
			Code:    ErrCodeValidationError,
			Message: apiErr.Message,
			Details: apiErr.Details,
		})
		return true
	}
	return false
}

// respond writes the recommendation result, recording surface metrics.
func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, surface recommend.Surface, result *recommend.Result, err error, started time.Time) {
	if err != nil {
		metrics.RecordRecommendationError(surface.String())
		h.rw.DatabaseError(w, r, err)
		return
	}
	metrics.RecordRecommendation(surface.String(), result.TotalCandidates, len(result.Items), time.Since(started))
	if result.Metadata.CacheHit {
		metrics.RecordCacheHit("recommend")
	} else {
		metrics.RecordCacheMiss("recommend")
	}
	h.rw.Success(w, r, result)
}

// GetPersonalized handles GET /recommendations/personalized.
func (h *Handlers) GetPersonalized(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	query := PersonalizedQuery{
		UserID:           q.Int64("user_id"),
		Count:            q.Int("count"),
		Latitude:         q.FloatPtr("lat"),
		Longitude:        q.FloatPtr("long"),
		IncludeVisited:   q.Bool("include_visited"),
		IncludeFavorites: q.Bool("include_favorites"),
	}
	if h.rejectInvalid(w, r, q.Err(), query) || h.rejectCount(w, r, query.Count) {
		return
	}

	started := time.Now()
	result, err := h.engine.GetPersonalized(r.Context(), recommend.PersonalizedRequest{
		UserID:           query.UserID,
		Count:            h.defaultedCount(query.Count),
		Origin:           origin(query.Latitude, query.Longitude),
		IncludeVisited:   query.IncludeVisited,
		IncludeFavorites: query.IncludeFavorites,
		RequestID:        middleware.GetRequestID(r.Context()),
	})
	h.respond(w, r, recommend.SurfacePersonalized, result, err, started)
}

// GetTrending handles GET /recommendations/trending.
func (h *Handlers) GetTrending(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	query := TrendingQuery{Count: q.Int("count")}
	if h.rejectInvalid(w, r, q.Err(), query) || h.rejectCount(w, r, query.Count) {
		return
	}

	started := time.Now()
	result, err := h.engine.GetTrending(r.Context(), recommend.TrendingRequest{
		Count:     h.defaultedCount(query.Count),
		RequestID: middleware.GetRequestID(r.Context()),
	})
	h.respond(w, r, recommend.SurfaceTrending, result, err, started)
}

// GetHiddenGems handles GET /recommendations/hidden-gems.
func (h *Handlers) GetHiddenGems(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	query := HiddenGemsQuery{
		Latitude:  q.FloatPtr("lat"),
		Longitude: q.FloatPtr("long"),
		RadiusKm:  q.Float("radius_km"),
		Count:     q.Int("count"),
		MinScore:  q.Int("min_score"),
	}
	if h.rejectInvalid(w, r, q.Err(), query) || h.rejectCount(w, r, query.Count) {
		return
	}

	started := time.Now()
	result, err := h.engine.GetHiddenGems(r.Context(), recommend.HiddenGemsRequest{
		Origin:    recommend.Origin{Latitude: *query.Latitude, Longitude: *query.Longitude},
		RadiusKm:  query.RadiusKm,
		Count:     h.defaultedCount(query.Count),
		MinScore:  query.MinScore,
		RequestID: middleware.GetRequestID(r.Context()),
	})
	h.respond(w, r, recommend.SurfaceHiddenGems, result, err, started)
}

// GetSimilar handles GET /recommendations/similar/{placeID}.
func (h *Handlers) GetSimilar(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "placeID"), 10, 64)
	if err != nil {
		h.rw.BadRequest(w, r, "place id must be an integer")
		return
	}

	q := newQueryReader(r)
	query := SimilarQuery{PlaceID: placeID, Count: q.Int("count")}
	if h.rejectInvalid(w, r, q.Err(), query) || h.rejectCount(w, r, query.Count) {
		return
	}

	started := time.Now()
	result, rerr := h.engine.GetSimilar(r.Context(), recommend.SimilarRequest{
		PlaceID:   query.PlaceID,
		Count:     h.defaultedCount(query.Count),
		RequestID: middleware.GetRequestID(r.Context()),
	})
	h.respond(w, r, recommend.SurfaceSimilar, result, rerr, started)
}

// GetPopular handles GET /recommendations/popular.
func (h *Handlers) GetPopular(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	query := PopularQuery{
		CategoryID: q.Int64("category_id"),
		Count:      q.Int("count"),
		Latitude:   q.FloatPtr("lat"),
		Longitude:  q.FloatPtr("long"),
	}
	if h.rejectInvalid(w, r, q.Err(), query) || h.rejectCount(w, r, query.Count) {
		return
	}

	started := time.Now()
	result, err := h.engine.GetPopularByCategory(r.Context(), recommend.PopularRequest{
		CategoryID: query.CategoryID,
		Count:      h.defaultedCount(query.Count),
		Origin:     origin(query.Latitude, query.Longitude),
		RequestID:  middleware.GetRequestID(r.Context()),
	})
	h.respond(w, r, recommend.SurfacePopular, result, err, started)
}

// GetExplore handles GET /recommendations/explore.
func (h *Handlers) GetExplore(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	query := ExploreQuery{
		Count:             q.Int("count"),
		Latitude:          q.FloatPtr("lat"),
		Longitude:         q.FloatPtr("long"),
		CategoryIDs:       q.Int64List("category_ids"),
		MinPrice:          q.FloatPtr("min_price"),
		MaxPrice:          q.FloatPtr("max_price"),
		MinRating:         q.FloatPtr("min_rating"),
		HiddenGem:         q.BoolPtr("hidden_gem"),
		MinGemScore:       q.IntPtr("min_gem_score"),
		IncludeUnverified: q.Bool("include_unverified"),
		RadiusKm:          q.FloatPtr("radius_km"),
	}
	if h.rejectInvalid(w, r, q.Err(), query) || h.rejectCount(w, r, query.Count) {
		return
	}
	if query.MinPrice != nil && query.MaxPrice != nil && *query.MinPrice > *query.MaxPrice {
		h.rw.BadRequest(w, r, "min_price must not exceed max_price")
		return
	}

	started := time.Now()
	result, err := h.engine.GetExplore(r.Context(), recommend.ExploreRequest{
		Filters: recommend.Filters{
			CategoryIDs:       query.CategoryIDs,
			MinPrice:          query.MinPrice,
			MaxPrice:          query.MaxPrice,
			MinRating:         query.MinRating,
			HiddenGem:         query.HiddenGem,
			MinHiddenGemScore: query.MinGemScore,
			IncludeUnverified: query.IncludeUnverified,
			RadiusKm:          query.RadiusKm,
		},
		Origin:    origin(query.Latitude, query.Longitude),
		Count:     h.defaultedCount(query.Count),
		RequestID: middleware.GetRequestID(r.Context()),
	})
	h.respond(w, r, recommend.SurfaceExplore, result, err, started)
}

// GetNearby handles GET /recommendations/nearby.
func (h *Handlers) GetNearby(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	query := NearbyQuery{
		Latitude:  q.FloatPtr("lat"),
		Longitude: q.FloatPtr("long"),
		RadiusKm:  q.Float("radius_km"),
		Count:     q.Int("count"),
	}
	if h.rejectInvalid(w, r, q.Err(), query) || h.rejectCount(w, r, query.Count) {
		return
	}

	started := time.Now()
	result, err := h.engine.GetNearby(r.Context(), recommend.NearbyRequest{
		Origin:    recommend.Origin{Latitude: *query.Latitude, Longitude: *query.Longitude},
		RadiusKm:  query.RadiusKm,
		Count:     h.defaultedCount(query.Count),
		RequestID: middleware.GetRequestID(r.Context()),
	})
	h.respond(w, r, recommend.SurfaceNearby, result, err, started)
}

// GetStatus handles GET /status with engine counters and uptime.
func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	m := h.engine.GetMetrics()
	h.rw.Success(w, r, map[string]interface{}{
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"engine": map[string]int64{
			"requests":      m.RequestCount,
			"empty_results": m.EmptyResultCount,
			"cache_hits":    m.CacheHits,
			"cache_misses":  m.CacheMisses,
			"errors":        m.ErrorCount,
		},
	})
}

// GetHealthLive handles GET /health/live.
func (h *Handlers) GetHealthLive(w http.ResponseWriter, r *http.Request) {
	h.rw.Success(w, r, map[string]string{"status": "ok"})
}

// GetHealthReady handles GET /health/ready. Readiness requires a reachable
// database.
func (h *Handlers) GetHealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.rw.Error(w, r, http.StatusServiceUnavailable, ErrCodeDatabaseError, "database unreachable")
		return
	}
	h.rw.Success(w, r, map[string]string{"status": "ready"})
}

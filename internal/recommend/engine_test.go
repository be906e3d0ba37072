// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// activityEvent is one timestamped engagement event in the mock store.
type activityEvent struct {
	at   time.Time
	kind ActivityKind
}

// mockDataProvider is an in-memory DataProvider for engine tests.
type mockDataProvider struct {
	places        []Place
	events        map[int64][]activityEvent
	preferences   map[int64]*UserPreference
	visited       map[int64][]int64
	favorites     map[int64][]int64
	preferredCats map[int64][]int64
	err           error
}

func (m *mockDataProvider) GetActivePlaces(_ context.Context) ([]Place, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.places, nil
}

func (m *mockDataProvider) CountRecentActivity(_ context.Context, placeID int64, since time.Time, kind ActivityKind) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	count := 0
	for _, ev := range m.events[placeID] {
		if ev.kind == kind && ev.at.After(since) {
			count++
		}
	}
	return count, nil
}

func (m *mockDataProvider) GetUserPreference(_ context.Context, userID int64) (*UserPreference, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.preferences[userID], nil
}

func (m *mockDataProvider) GetUserVisitedPlaceIDs(_ context.Context, userID int64) (map[int64]struct{}, error) {
	if m.err != nil {
		return nil, m.err
	}
	return toSet(m.visited[userID]), nil
}

func (m *mockDataProvider) GetUserFavoritePlaceIDs(_ context.Context, userID int64) (map[int64]struct{}, error) {
	if m.err != nil {
		return nil, m.err
	}
	return toSet(m.favorites[userID]), nil
}

func (m *mockDataProvider) GetUserPreferredCategoryIDs(_ context.Context, userID int64) (map[int64]struct{}, error) {
	if m.err != nil {
		return nil, m.err
	}
	return toSet(m.preferredCats[userID]), nil
}

// repeatEvents returns n copies of one event.
func repeatEvents(n int, at time.Time, kind ActivityKind) []activityEvent {
	events := make([]activityEvent, n)
	for i := range events {
		events[i] = activityEvent{at: at, kind: kind}
	}
	return events
}

func newTestEngine(t *testing.T, cfg *Config, provider DataProvider) *Engine {
	t.Helper()
	engine, err := NewEngine(cfg, provider, zerolog.Nop())
	require.NoError(t, err)
	return engine
}

func itemIDs(result *Result) []int64 {
	ids := make([]int64, 0, len(result.Items))
	for _, item := range result.Items {
		ids = append(ids, item.Place.ID)
	}
	return ids
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrendingWindow = -time.Hour

	_, err := NewEngine(cfg, &mockDataProvider{}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestNewEngineNilConfigUsesDefaults(t *testing.T) {
	engine, err := NewEngine(nil, &mockDataProvider{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 50, engine.GetConfig().MinHiddenGemScore)
}

func TestGetExploreRanksByScore(t *testing.T) {
	provider := &mockDataProvider{
		places: []Place{
			{ID: 1, IsVerified: true, AverageRating: 3.0},
			{ID: 2, IsVerified: true, AverageRating: 4.8, ReviewCount: 50},
			{ID: 3, IsVerified: true, AverageRating: 4.0, ReviewCount: 5},
		},
	}
	engine := newTestEngine(t, nil, provider)

	result, err := engine.GetExplore(context.Background(), ExploreRequest{Count: 10})
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 3, 1}, itemIDs(result))
	assert.Equal(t, 3, result.TotalCandidates)
	assert.Equal(t, "explore", result.Metadata.Surface)
	assert.NotEmpty(t, result.Metadata.RequestID)

	// Scores must strictly order the returned list.
	for i := 1; i < len(result.Items); i++ {
		assert.GreaterOrEqual(t, result.Items[i-1].Score, result.Items[i].Score)
	}
}

func TestGetExploreEmptyStoreReturnsEmptyList(t *testing.T) {
	engine := newTestEngine(t, nil, &mockDataProvider{})

	result, err := engine.GetExplore(context.Background(), ExploreRequest{Count: 10})
	require.NoError(t, err)

	require.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
	assert.Equal(t, 0, result.TotalCandidates)

	metrics := engine.GetMetrics()
	assert.Equal(t, int64(1), metrics.RequestCount)
	assert.Equal(t, int64(1), metrics.EmptyResultCount)
}

func TestGetExploreAppliesCallerFilters(t *testing.T) {
	provider := &mockDataProvider{
		places: []Place{
			{ID: 1, IsVerified: true, CategoryID: 1, AverageRating: 4.9},
			{ID: 2, IsVerified: true, CategoryID: 2, AverageRating: 4.9},
			{ID: 3, IsVerified: true, CategoryID: 1, AverageRating: 3.0},
		},
	}
	engine := newTestEngine(t, nil, provider)

	result, err := engine.GetExplore(context.Background(), ExploreRequest{
		Filters: Filters{CategoryIDs: []int64{1}, MinRating: ptr(4.0)},
		Count:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, itemIDs(result))
}

func TestGetExploreProximityBonusWithOrigin(t *testing.T) {
	provider := &mockDataProvider{
		places: []Place{
			{ID: 1, IsVerified: true, AverageRating: 4.0, Latitude: 0.001, Longitude: 0},
			{ID: 2, IsVerified: true, AverageRating: 4.0, Latitude: 2.0, Longitude: 0},
		},
	}
	engine := newTestEngine(t, nil, provider)

	result, err := engine.GetExplore(context.Background(), ExploreRequest{
		Origin: &Origin{Latitude: 0, Longitude: 0},
		Count:  10,
	})
	require.NoError(t, err)

	require.Equal(t, []int64{1, 2}, itemIDs(result))
	require.NotNil(t, result.Items[0].DistanceKm)
	assert.Greater(t, result.Items[0].Score, result.Items[1].Score)
}

func TestGetPersonalizedNoHistoryFallsBackToRating(t *testing.T) {
	provider := &mockDataProvider{
		places: []Place{
			{ID: 1, IsVerified: true, AverageRating: 4.0},
			{ID: 2, IsVerified: true, AverageRating: 3.0, IsHiddenGem: true},
		},
	}
	engine := newTestEngine(t, nil, provider)

	result, err := engine.GetPersonalized(context.Background(), PersonalizedRequest{UserID: 7, Count: 10})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	// No preference record and no derived categories: score is rating
	// weight plus the hidden gem bonus only.
	assert.Equal(t, []int64{2, 1}, itemIDs(result))
	assert.InDelta(t, 18.0+20.0, result.Items[0].Score, 1e-9)
	assert.InDelta(t, 24.0, result.Items[1].Score, 1e-9)
	assert.Equal(t, "Recommended for you", result.Items[1].Reason)
}

func TestGetPersonalizedExcludesVisitedAndFavorites(t *testing.T) {
	provider := &mockDataProvider{
		places: []Place{
			{ID: 1, IsVerified: true, AverageRating: 4.0},
			{ID: 2, IsVerified: true, AverageRating: 4.0},
			{ID: 3, IsVerified: true, AverageRating: 4.0},
		},
		visited:   map[int64][]int64{7: {1}},
		favorites: map[int64][]int64{7: {2}},
	}
	engine := newTestEngine(t, nil, provider)

	result, err := engine.GetPersonalized(context.Background(), PersonalizedRequest{UserID: 7, Count: 10})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, itemIDs(result))
}

func TestGetPersonalizedIncludeFlagsKeepAndMark(t *testing.T) {
	provider := &mockDataProvider{
		places: []Place{
			{ID: 1, IsVerified: true, AverageRating: 4.0},
			{ID: 2, IsVerified: true, AverageRating: 4.0},
		},
		visited:   map[int64][]int64{7: {1}},
		favorites: map[int64][]int64{7: {2}},
	}
	engine := newTestEngine(t, nil, provider)

	result, err := engine.GetPersonalized(context.Background(), PersonalizedRequest{
		UserID:           7,
		Count:            10,
		IncludeVisited:   true,
		IncludeFavorites: true,
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	byID := map[int64]ScoredRecommendation{}
	for _, item := range result.Items {
		byID[item.Place.ID] = item
	}
	assert.True(t, byID[1].HasVisited)
	assert.False(t, byID[1].IsFavorited)
	assert.True(t, byID[2].IsFavorited)
	assert.False(t, byID[2].HasVisited)
}

func TestGetPersonalizedRestrictsToPreferredCategories(t *testing.T) {
	provider := &mockDataProvider{
		places: []Place{
			{ID: 1, IsVerified: true, CategoryID: 1, AverageRating: 4.0, AveragePrice: 25},
			{ID: 2, IsVerified: true, CategoryID: 2, AverageRating: 5.0, AveragePrice: 25},
		},
		preferredCats: map[int64][]int64{7: {1}},
		preferences:   map[int64]*UserPreference{7: {}},
	}
	engine := newTestEngine(t, nil, provider)

	result, err := engine.GetPersonalized(context.Background(), PersonalizedRequest{UserID: 7, Count: 10})
	require.NoError(t, err)

	require.Equal(t, []int64{1}, itemIDs(result))
	// Category match 30 + price match 20 (record with no bounds) + rating 24.
	assert.InDelta(t, 74.0, result.Items[0].Score, 1e-9)
	assert.Contains(t, result.Items[0].Reason, "matches your favorite categories")
}

func TestGetTrendingUsesWindowedCounts(t *testing.T) {
	now := time.Now()
	recent := now.Add(-24 * time.Hour)
	stale := now.Add(-10 * 24 * time.Hour)

	// Place 1 has 60 lifetime views but only 10 within the 7-day window;
	// place 2 has 25 recent views and must outrank it.
	provider := &mockDataProvider{
		places: []Place{
			{ID: 1, IsVerified: true, AverageRating: 4.0},
			{ID: 2, IsVerified: true, AverageRating: 4.0},
		},
		events: map[int64][]activityEvent{
			1: append(repeatEvents(50, stale, ActivityView), repeatEvents(10, recent, ActivityView)...),
			2: repeatEvents(25, recent, ActivityView),
		},
	}
	engine := newTestEngine(t, nil, provider)

	result, err := engine.GetTrending(context.Background(), TrendingRequest{Count: 10})
	require.NoError(t, err)

	require.Equal(t, []int64{2, 1}, itemIDs(result))
	assert.InDelta(t, 25*0.3+4.0*5.0, result.Items[0].Score, 1e-9)
	assert.InDelta(t, 10*0.3+4.0*5.0, result.Items[1].Score, 1e-9)
}

func TestGetTrendingReasonNamesDominantSignal(t *testing.T) {
	recent := time.Now().Add(-time.Hour)
	provider := &mockDataProvider{
		places: []Place{{ID: 1, IsVerified: true, AverageRating: 4.0}},
		events: map[int64][]activityEvent{
			1: repeatEvents(12, recent, ActivityReview),
		},
	}
	engine := newTestEngine(t, nil, provider)

	result, err := engine.GetTrending(context.Background(), TrendingRequest{Count: 10})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "12 new reviews this week", result.Items[0].Reason)
}

func TestGetHiddenGems(t *testing.T) {
	provider := &mockDataProvider{
		places: []Place{
			{ID: 1, IsVerified: true, IsHiddenGem: true, HiddenGemScore: 90, Latitude: 0.01, Longitude: 0},
			{ID: 2, IsVerified: true, IsHiddenGem: true, HiddenGemScore: 70, Latitude: 0.02, Longitude: 0},
			{ID: 3, IsVerified: true, IsHiddenGem: true, HiddenGemScore: 40, Latitude: 0.01, Longitude: 0},
			{ID: 4, IsVerified: true, IsHiddenGem: false, HiddenGemScore: 95, Latitude: 0.01, Longitude: 0},
			{ID: 5, IsVerified: true, IsHiddenGem: true, HiddenGemScore: 90, Latitude: 5.0, Longitude: 0},
		},
	}
	engine := newTestEngine(t, nil, provider)

	result, err := engine.GetHiddenGems(context.Background(), HiddenGemsRequest{
		Origin:   Origin{Latitude: 0, Longitude: 0},
		RadiusKm: 50,
		Count:    10,
	})
	require.NoError(t, err)

	// Score 40 is under the default threshold, place 4 is not a gem, and
	// place 5 is outside the radius. Ranked by curation score.
	assert.Equal(t, []int64{1, 2}, itemIDs(result))
	require.NotNil(t, result.Items[0].DistanceKm)
	assert.Contains(t, result.Items[0].Reason, "Hidden gem rated 90/100")
}

func TestGetHiddenGemsCustomMinScore(t *testing.T) {
	provider := &mockDataProvider{
		places: []Place{
			{ID: 1, IsVerified: true, IsHiddenGem: true, HiddenGemScore: 40, Latitude: 0.01, Longitude: 0},
		},
	}
	engine := newTestEngine(t, nil, provider)

	result, err := engine.GetHiddenGems(context.Background(), HiddenGemsRequest{
		Origin:   Origin{Latitude: 0, Longitude: 0},
		RadiusKm: 50,
		Count:    10,
		MinScore: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, itemIDs(result))
}

func TestGetSimilar(t *testing.T) {
	provider := &mockDataProvider{
		places: []Place{
			{ID: 1, Name: "Source", IsVerified: true, CategoryID: 1, PriceRange: "$$", AverageRating: 4.5},
			{ID: 2, IsVerified: true, CategoryID: 1, PriceRange: "$$", AverageRating: 4.5},
			{ID: 3, IsVerified: true, CategoryID: 1, PriceRange: "$", AverageRating: 4.5},
			{ID: 4, IsVerified: true, CategoryID: 2, PriceRange: "$$", AverageRating: 4.5},
			{ID: 5, IsVerified: true, CategoryID: 2, PriceRange: "$", AverageRating: 4.5},
		},
	}
	engine := newTestEngine(t, nil, provider)

	result, err := engine.GetSimilar(context.Background(), SimilarRequest{PlaceID: 1, Count: 10})
	require.NoError(t, err)

	// Candidates share category OR price range; the source itself and
	// place 5 (neither) are excluded.
	assert.Equal(t, []int64{2, 3, 4}, itemIDs(result))
	assert.Equal(t, "Same category and price range as Source", result.Items[0].Reason)
}

func TestGetSimilarMissingSourceIsEmptyNotError(t *testing.T) {
	provider := &mockDataProvider{
		places: []Place{{ID: 1, IsVerified: true}},
	}
	engine := newTestEngine(t, nil, provider)

	result, err := engine.GetSimilar(context.Background(), SimilarRequest{PlaceID: 999, Count: 10})
	require.NoError(t, err)
	require.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
}

func TestGetPopularByCategory(t *testing.T) {
	recent := time.Now().Add(-24 * time.Hour)
	provider := &mockDataProvider{
		places: []Place{
			{ID: 1, IsVerified: true, CategoryID: 1, AverageRating: 4.0},
			{ID: 2, IsVerified: true, CategoryID: 1, AverageRating: 4.0},
			{ID: 3, IsVerified: true, CategoryID: 2, AverageRating: 5.0},
		},
		events: map[int64][]activityEvent{
			1: repeatEvents(3, recent, ActivityFavorite),
			2: repeatEvents(1, recent, ActivityFavorite),
		},
	}
	engine := newTestEngine(t, nil, provider)

	result, err := engine.GetPopularByCategory(context.Background(), PopularRequest{CategoryID: 1, Count: 10})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, itemIDs(result))
	assert.Equal(t, "Favorited 3 times this month", result.Items[0].Reason)
}

func TestGetNearbyRanksByProximity(t *testing.T) {
	provider := &mockDataProvider{
		places: []Place{
			{ID: 1, IsVerified: true, Latitude: 0.05, Longitude: 0},
			{ID: 2, IsVerified: true, Latitude: 0.01, Longitude: 0},
			{ID: 3, IsVerified: true, Latitude: 0.03, Longitude: 0},
			{ID: 4, IsVerified: true, Latitude: 3.0, Longitude: 0},
		},
	}
	engine := newTestEngine(t, nil, provider)

	result, err := engine.GetNearby(context.Background(), NearbyRequest{
		Origin:   Origin{Latitude: 0, Longitude: 0},
		RadiusKm: 20,
		Count:    10,
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 3, 1}, itemIDs(result))
	for _, item := range result.Items {
		require.NotNil(t, item.DistanceKm)
		assert.Contains(t, item.Reason, "km from you")
	}
}

func TestGetNearbyTruncatesToCount(t *testing.T) {
	provider := &mockDataProvider{
		places: []Place{
			{ID: 1, IsVerified: true, Latitude: 0.01, Longitude: 0},
			{ID: 2, IsVerified: true, Latitude: 0.02, Longitude: 0},
			{ID: 3, IsVerified: true, Latitude: 0.03, Longitude: 0},
		},
	}
	engine := newTestEngine(t, nil, provider)

	result, err := engine.GetNearby(context.Background(), NearbyRequest{
		Origin:   Origin{Latitude: 0, Longitude: 0},
		RadiusKm: 20,
		Count:    2,
	})
	require.NoError(t, err)

	assert.Len(t, result.Items, 2)
	assert.Equal(t, 3, result.TotalCandidates)
}

func TestEngineCacheHit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Enabled = true

	provider := &mockDataProvider{
		places: []Place{{ID: 1, IsVerified: true, Latitude: 0.01, Longitude: 0}},
	}
	engine := newTestEngine(t, cfg, provider)

	req := NearbyRequest{Origin: Origin{Latitude: 0, Longitude: 0}, RadiusKm: 20, Count: 10}

	first, err := engine.GetNearby(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Metadata.CacheHit)

	second, err := engine.GetNearby(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Metadata.CacheHit)
	assert.Equal(t, itemIDs(first), itemIDs(second))
	assert.NotEqual(t, first.Metadata.RequestID, second.Metadata.RequestID)

	metrics := engine.GetMetrics()
	assert.Equal(t, int64(1), metrics.CacheHits)
	assert.Equal(t, int64(1), metrics.CacheMisses)
}

func TestEngineCacheDisabledByDefault(t *testing.T) {
	provider := &mockDataProvider{
		places: []Place{{ID: 1, IsVerified: true, Latitude: 0.01, Longitude: 0}},
	}
	engine := newTestEngine(t, nil, provider)

	req := NearbyRequest{Origin: Origin{Latitude: 0, Longitude: 0}, RadiusKm: 20, Count: 10}

	_, err := engine.GetNearby(context.Background(), req)
	require.NoError(t, err)
	second, err := engine.GetNearby(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, second.Metadata.CacheHit)
	assert.Zero(t, engine.GetMetrics().CacheHits)
}

func TestEngineClearCache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Enabled = true

	provider := &mockDataProvider{
		places: []Place{{ID: 1, IsVerified: true}},
	}
	engine := newTestEngine(t, cfg, provider)

	_, err := engine.GetTrending(context.Background(), TrendingRequest{Count: 10})
	require.NoError(t, err)

	engine.ClearCache()

	result, err := engine.GetTrending(context.Background(), TrendingRequest{Count: 10})
	require.NoError(t, err)
	assert.False(t, result.Metadata.CacheHit)
}

func TestEnginePropagatesProviderErrors(t *testing.T) {
	providerErr := errors.New("connection refused")
	engine := newTestEngine(t, nil, &mockDataProvider{err: providerErr})

	_, err := engine.GetTrending(context.Background(), TrendingRequest{Count: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, providerErr)

	assert.Equal(t, int64(1), engine.GetMetrics().ErrorCount)
}

func TestEngineCallerRequestIDPreserved(t *testing.T) {
	engine := newTestEngine(t, nil, &mockDataProvider{})

	result, err := engine.GetExplore(context.Background(), ExploreRequest{Count: 10, RequestID: "req-123"})
	require.NoError(t, err)
	assert.Equal(t, "req-123", result.Metadata.RequestID)
}

func TestEngineSweepCacheDropsExpiredEntries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.TTL = time.Millisecond
	provider := &mockDataProvider{places: []Place{{ID: 1, IsVerified: true}}}
	engine := newTestEngine(t, cfg, provider)

	_, err := engine.GetTrending(context.Background(), TrendingRequest{Count: 10})
	require.NoError(t, err)

	assert.Zero(t, engine.SweepCache())

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, engine.SweepCache())
	assert.Zero(t, engine.SweepCache())
}

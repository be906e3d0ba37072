// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/placepulse/placepulse/internal/metrics"
	"github.com/placepulse/placepulse/internal/recommend"
)

// GetActivePlaces returns all active places. This is the candidate source
// for every recommendation surface; attribute and geo filtering happen in
// the engine.
func (db *DB) GetActivePlaces(ctx context.Context) ([]recommend.Place, error) {
	query := `
		SELECT
			id,
			name,
			category_id,
			latitude,
			longitude,
			average_price,
			price_range,
			average_rating,
			review_count,
			is_hidden_gem,
			hidden_gem_score,
			is_verified,
			created_at
		FROM places
		WHERE is_active = true
		ORDER BY id
	`

	ctx, cancel := queryContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("select", "places", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query active places: %w", err)
	}
	defer rows.Close()

	var places []recommend.Place
	for rows.Next() {
		var p recommend.Place
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.CategoryID,
			&p.Latitude,
			&p.Longitude,
			&p.AveragePrice,
			&p.PriceRange,
			&p.AverageRating,
			&p.ReviewCount,
			&p.IsHiddenGem,
			&p.HiddenGemScore,
			&p.IsVerified,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan place: %w", err)
		}
		places = append(places, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate places: %w", err)
	}

	return places, nil
}

// GetPlace returns one place by id, active or not. Returns sql.ErrNoRows
// when absent.
func (db *DB) GetPlace(ctx context.Context, placeID int64) (*recommend.Place, error) {
	query := `
		SELECT
			id, name, category_id, latitude, longitude, average_price,
			price_range, average_rating, review_count, is_hidden_gem,
			hidden_gem_score, is_verified, created_at
		FROM places
		WHERE id = ?
	`

	ctx, cancel := queryContext(ctx)
	defer cancel()

	var p recommend.Place
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, query, placeID).Scan(
		&p.ID, &p.Name, &p.CategoryID, &p.Latitude, &p.Longitude,
		&p.AveragePrice, &p.PriceRange, &p.AverageRating, &p.ReviewCount,
		&p.IsHiddenGem, &p.HiddenGemScore, &p.IsVerified, &p.CreatedAt,
	)
	metrics.RecordDBQuery("select", "places", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("query place %d: %w", placeID, err)
	}

	return &p, nil
}

// CountRecentActivity counts one kind of engagement for a place since the
// given time.
func (db *DB) CountRecentActivity(ctx context.Context, placeID int64, since time.Time, kind recommend.ActivityKind) (int, error) {
	var query, table string
	switch kind {
	case recommend.ActivityView:
		table = "place_views"
		query = `SELECT COUNT(*) FROM place_views WHERE place_id = ? AND viewed_at >= ?`
	case recommend.ActivityReview:
		table = "reviews"
		query = `SELECT COUNT(*) FROM reviews WHERE place_id = ? AND created_at >= ?`
	case recommend.ActivityFavorite:
		table = "favorites"
		query = `SELECT COUNT(*) FROM favorites WHERE place_id = ? AND created_at >= ?`
	default:
		return 0, fmt.Errorf("unknown activity kind %d", kind)
	}

	ctx, cancel := queryContext(ctx)
	defer cancel()

	var count int
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, query, placeID, since).Scan(&count)
	metrics.RecordDBQuery("count", table, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("count %s for place %d: %w", kind, placeID, err)
	}

	return count, nil
}

// GetUserPreference returns the user's stated preference record, or nil
// when the user never stated one.
func (db *DB) GetUserPreference(ctx context.Context, userID int64) (*recommend.UserPreference, error) {
	query := `
		SELECT min_price, max_price, min_rating, prefers_hidden_gems
		FROM user_preferences
		WHERE user_id = ?
	`

	ctx, cancel := queryContext(ctx)
	defer cancel()

	var pref recommend.UserPreference
	var minPrice, maxPrice, minRating sql.NullFloat64

	start := time.Now()
	err := db.conn.QueryRowContext(ctx, query, userID).Scan(&minPrice, &maxPrice, &minRating, &pref.PrefersHiddenGems)
	metrics.RecordDBQuery("select", "user_preferences", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query preference for user %d: %w", userID, err)
	}

	if minPrice.Valid {
		pref.MinPrice = &minPrice.Float64
	}
	if maxPrice.Valid {
		pref.MaxPrice = &maxPrice.Float64
	}
	if minRating.Valid {
		pref.MinRating = &minRating.Float64
	}

	categories, err := db.queryIDSet(ctx, "user_preference_categories",
		`SELECT category_id FROM user_preference_categories WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	for id := range categories {
		pref.CategoryIDs = append(pref.CategoryIDs, id)
	}

	return &pref, nil
}

// GetUserVisitedPlaceIDs returns the ids of places the user has reviewed
// or viewed.
func (db *DB) GetUserVisitedPlaceIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	query := `
		SELECT DISTINCT place_id FROM reviews WHERE user_id = ?
		UNION
		SELECT DISTINCT place_id FROM place_views WHERE user_id = ?
	`
	return db.queryIDSet(ctx, "reviews", query, userID, userID)
}

// GetUserFavoritePlaceIDs returns the ids of places the user favorited.
func (db *DB) GetUserFavoritePlaceIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	return db.queryIDSet(ctx, "favorites",
		`SELECT place_id FROM favorites WHERE user_id = ?`, userID)
}

// GetUserPreferredCategoryIDs returns the categories the user explicitly
// prefers plus those derived from favorites and well-rated reviews.
func (db *DB) GetUserPreferredCategoryIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	query := `
		SELECT category_id FROM user_preference_categories WHERE user_id = ?
		UNION
		SELECT DISTINCT p.category_id
		FROM favorites f
		JOIN places p ON p.id = f.place_id
		WHERE f.user_id = ?
		UNION
		SELECT DISTINCT p.category_id
		FROM reviews r
		JOIN places p ON p.id = r.place_id
		WHERE r.user_id = ? AND r.rating >= 4
	`
	return db.queryIDSet(ctx, "user_preference_categories", query, userID, userID, userID)
}

// queryIDSet runs a query returning a single id column and collects the
// results into a membership set.
func (db *DB) queryIDSet(ctx context.Context, table, query string, args ...interface{}) (map[int64]struct{}, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", table, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query id set from %s: %w", table, err)
	}
	defer rows.Close()

	set := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		set[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}

	return set, nil
}

// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/placepulse/placepulse/internal/metrics"
	"github.com/placepulse/placepulse/internal/recommend"
)

// InsertCategory inserts or replaces a category.
func (db *DB) InsertCategory(ctx context.Context, c recommend.Category) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO categories (id, name) VALUES (?, ?)`, c.ID, c.Name)
	metrics.RecordDBQuery("insert", "categories", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("insert category %d: %w", c.ID, err)
	}
	return nil
}

// InsertPlace inserts or replaces a place record.
func (db *DB) InsertPlace(ctx context.Context, p recommend.Place) error {
	query := `
		INSERT OR REPLACE INTO places (
			id, name, category_id, latitude, longitude, average_price,
			price_range, average_rating, review_count, is_hidden_gem,
			hidden_gem_score, is_verified, is_active, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, true, ?)
	`

	ctx, cancel := queryContext(ctx)
	defer cancel()

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query,
		p.ID, p.Name, p.CategoryID, p.Latitude, p.Longitude, p.AveragePrice,
		p.PriceRange, p.AverageRating, p.ReviewCount, p.IsHiddenGem,
		p.HiddenGemScore, p.IsVerified, createdAt)
	metrics.RecordDBQuery("insert", "places", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("insert place %d: %w", p.ID, err)
	}
	return nil
}

// DeactivatePlace removes a place from the candidate pool without deleting
// its history.
func (db *DB) DeactivatePlace(ctx context.Context, placeID int64) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`UPDATE places SET is_active = false WHERE id = ?`, placeID)
	metrics.RecordDBQuery("update", "places", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("deactivate place %d: %w", placeID, err)
	}
	return nil
}

// InsertReview stores a review and refreshes the place's rating aggregates.
func (db *DB) InsertReview(ctx context.Context, reviewID, placeID, userID int64, rating float64, comment string, at time.Time) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	if at.IsZero() {
		at = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO reviews (id, place_id, user_id, rating, comment, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		reviewID, placeID, userID, rating, comment, at)
	metrics.RecordDBQuery("insert", "reviews", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("insert review %d: %w", reviewID, err)
	}

	// Aggregates are denormalized onto places so candidate loading stays a
	// single table scan.
	aggregate := `
		UPDATE places SET
			average_rating = (SELECT AVG(rating) FROM reviews WHERE place_id = ?),
			review_count = (SELECT COUNT(*) FROM reviews WHERE place_id = ?)
		WHERE id = ?
	`
	start = time.Now()
	_, err = db.conn.ExecContext(ctx, aggregate, placeID, placeID, placeID)
	metrics.RecordDBQuery("update", "places", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("update rating aggregates for place %d: %w", placeID, err)
	}
	return nil
}

// AddFavorite marks a place as favorited by a user. Repeated calls are
// idempotent.
func (db *DB) AddFavorite(ctx context.Context, userID, placeID int64, at time.Time) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	if at.IsZero() {
		at = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO favorites (user_id, place_id, created_at) VALUES (?, ?, ?)`,
		userID, placeID, at)
	metrics.RecordDBQuery("insert", "favorites", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("add favorite %d/%d: %w", userID, placeID, err)
	}
	return nil
}

// RemoveFavorite clears a favorite mark.
func (db *DB) RemoveFavorite(ctx context.Context, userID, placeID int64) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND place_id = ?`, userID, placeID)
	metrics.RecordDBQuery("delete", "favorites", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("remove favorite %d/%d: %w", userID, placeID, err)
	}
	return nil
}

// RecordPlaceView logs a detail-page view event.
func (db *DB) RecordPlaceView(ctx context.Context, viewID, placeID, userID int64, at time.Time) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	if at.IsZero() {
		at = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO place_views (id, place_id, user_id, viewed_at) VALUES (?, ?, ?, ?)`,
		viewID, placeID, userID, at)
	metrics.RecordDBQuery("insert", "place_views", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("record view %d: %w", viewID, err)
	}
	return nil
}

// SetUserPreference replaces the user's stated preference record, including
// preferred categories.
func (db *DB) SetUserPreference(ctx context.Context, userID int64, pref recommend.UserPreference) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	query := `
		INSERT OR REPLACE INTO user_preferences
			(user_id, min_price, max_price, min_rating, prefers_hidden_gems, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query,
		userID, pref.MinPrice, pref.MaxPrice, pref.MinRating,
		pref.PrefersHiddenGems, time.Now().UTC())
	metrics.RecordDBQuery("insert", "user_preferences", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("set preference for user %d: %w", userID, err)
	}

	start = time.Now()
	_, err = db.conn.ExecContext(ctx,
		`DELETE FROM user_preference_categories WHERE user_id = ?`, userID)
	metrics.RecordDBQuery("delete", "user_preference_categories", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("clear preferred categories for user %d: %w", userID, err)
	}

	for _, categoryID := range pref.CategoryIDs {
		start = time.Now()
		_, err = db.conn.ExecContext(ctx,
			`INSERT OR IGNORE INTO user_preference_categories (user_id, category_id) VALUES (?, ?)`,
			userID, categoryID)
		metrics.RecordDBQuery("insert", "user_preference_categories", time.Since(start), err)
		if err != nil {
			return fmt.Errorf("add preferred category %d for user %d: %w", categoryID, userID, err)
		}
	}
	return nil
}

// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the tables and indexes.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// tableCreationQueries returns the schema DDL. All columns are defined in
// the initial CREATE TABLE statements; there is no migration machinery yet.
func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS places (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			category_id BIGINT NOT NULL,
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			average_price DOUBLE DEFAULT 0,
			price_range TEXT DEFAULT '',
			average_rating DOUBLE DEFAULT 0,
			review_count INTEGER DEFAULT 0,
			is_hidden_gem BOOLEAN DEFAULT false,
			hidden_gem_score INTEGER DEFAULT 0,
			is_verified BOOLEAN DEFAULT false,
			is_active BOOLEAN DEFAULT true,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS reviews (
			id BIGINT PRIMARY KEY,
			place_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			rating DOUBLE NOT NULL,
			comment TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS favorites (
			user_id BIGINT NOT NULL,
			place_id BIGINT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, place_id)
		)`,

		`CREATE TABLE IF NOT EXISTS place_views (
			id BIGINT PRIMARY KEY,
			place_id BIGINT NOT NULL,
			user_id BIGINT,
			viewed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS user_preferences (
			user_id BIGINT PRIMARY KEY,
			min_price DOUBLE,
			max_price DOUBLE,
			min_rating DOUBLE,
			prefers_hidden_gems BOOLEAN DEFAULT false,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS user_preference_categories (
			user_id BIGINT NOT NULL,
			category_id BIGINT NOT NULL,
			PRIMARY KEY (user_id, category_id)
		)`,

		// Indexes for the hot query paths.
		`CREATE INDEX IF NOT EXISTS idx_places_active ON places(is_active, is_verified)`,
		`CREATE INDEX IF NOT EXISTS idx_places_category ON places(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_place_time ON reviews(place_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_user ON reviews(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_favorites_place_time ON favorites(place_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_views_place_time ON place_views(place_id, viewed_at)`,
	}
}

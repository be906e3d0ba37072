// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/placepulse/placepulse/internal/logging"
	"github.com/placepulse/placepulse/internal/recommend"
)

// SeedSampleData loads a small demo dataset so a fresh deployment serves
// non-empty recommendations. Existing rows with the same ids are replaced,
// so re-running on the same database is safe.
func (db *DB) SeedSampleData(ctx context.Context) error {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM places`).Scan(&count); err != nil {
		return fmt.Errorf("check existing places: %w", err)
	}
	if count > 0 {
		logging.Debug().Int("places", count).Msg("Skipping sample data seed, database not empty")
		return nil
	}

	categories := []recommend.Category{
		{ID: 1, Name: "Restaurant"},
		{ID: 2, Name: "Cafe"},
		{ID: 3, Name: "Museum"},
		{ID: 4, Name: "Park"},
	}
	for _, c := range categories {
		if err := db.InsertCategory(ctx, c); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	places := []recommend.Place{
		{
			ID: 1, Name: "Harbor Bistro", CategoryID: 1,
			Latitude: 52.3702, Longitude: 4.8952,
			AveragePrice: 38, PriceRange: "$$$", AverageRating: 4.6,
			ReviewCount: 124, IsVerified: true,
			CreatedAt: now.Add(-400 * 24 * time.Hour),
		},
		{
			ID: 2, Name: "Canal House Cafe", CategoryID: 2,
			Latitude: 52.3667, Longitude: 4.8945,
			AveragePrice: 9, PriceRange: "$", AverageRating: 4.3,
			ReviewCount: 68, IsVerified: true,
			CreatedAt: now.Add(-200 * 24 * time.Hour),
		},
		{
			ID: 3, Name: "Old Town Espresso", CategoryID: 2,
			Latitude: 52.3721, Longitude: 4.9003,
			AveragePrice: 7, PriceRange: "$", AverageRating: 4.8,
			ReviewCount: 12, IsHiddenGem: true, HiddenGemScore: 82, IsVerified: true,
			CreatedAt: now.Add(-90 * 24 * time.Hour),
		},
		{
			ID: 4, Name: "Maritime Museum", CategoryID: 3,
			Latitude: 52.3716, Longitude: 4.9146,
			AveragePrice: 16, PriceRange: "$$", AverageRating: 4.4,
			ReviewCount: 301, IsVerified: true,
			CreatedAt: now.Add(-800 * 24 * time.Hour),
		},
		{
			ID: 5, Name: "Riverside Park", CategoryID: 4,
			Latitude: 52.3580, Longitude: 4.8686,
			AveragePrice: 0, PriceRange: "", AverageRating: 4.7,
			ReviewCount: 89, IsVerified: true,
			CreatedAt: now.Add(-1000 * 24 * time.Hour),
		},
		{
			ID: 6, Name: "Backstreet Noodle Bar", CategoryID: 1,
			Latitude: 52.3645, Longitude: 4.9011,
			AveragePrice: 14, PriceRange: "$$", AverageRating: 4.5,
			ReviewCount: 8, IsHiddenGem: true, HiddenGemScore: 74, IsVerified: true,
			CreatedAt: now.Add(-30 * 24 * time.Hour),
		},
	}
	for _, p := range places {
		if err := db.InsertPlace(ctx, p); err != nil {
			return err
		}
	}

	// Recent engagement so the trending and popular surfaces have signal.
	seedEvents := []struct {
		placeID int64
		views   int
		favs    int
	}{
		{placeID: 1, views: 40, favs: 6},
		{placeID: 3, views: 25, favs: 9},
		{placeID: 4, views: 60, favs: 3},
		{placeID: 6, views: 12, favs: 4},
	}
	var viewID int64 = 1
	var userID int64 = 100
	for _, ev := range seedEvents {
		for i := 0; i < ev.views; i++ {
			at := now.Add(-time.Duration(i%6) * 24 * time.Hour)
			if err := db.RecordPlaceView(ctx, viewID, ev.placeID, userID, at); err != nil {
				return err
			}
			viewID++
			userID++
		}
		for i := 0; i < ev.favs; i++ {
			at := now.Add(-time.Duration(i%6) * 24 * time.Hour)
			if err := db.AddFavorite(ctx, 100+int64(i), ev.placeID, at); err != nil {
				return err
			}
		}
	}

	logging.Info().
		Int("categories", len(categories)).
		Int("places", len(places)).
		Msg("Seeded sample data")
	return nil
}

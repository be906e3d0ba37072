// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// CacheSweeper defines the sweep operation the engine exposes.
type CacheSweeper interface {
	// SweepCache drops expired cache entries and returns the count removed.
	SweepCache() int
}

// CacheSweepService periodically evicts expired recommendation cache
// entries so an idle server does not hold stale results at the cache cap.
type CacheSweepService struct {
	sweeper  CacheSweeper
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCacheSweepService creates the sweep service. A non-positive interval
// falls back to one minute.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheSweepService(sweeper CacheSweeper, interval time.Duration, logger zerolog.Logger) *CacheSweepService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheSweepService{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger.With().Str("service", "cache-sweeper").Logger(),
		name:     "cache-sweeper",
	}
}

// Serve implements the suture.Service interface.
func (s *CacheSweepService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("cache sweeper starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("cache sweeper shutting down")
			return ctx.Err()

		case <-ticker.C:
			if removed := s.sweeper.SweepCache(); removed > 0 {
				s.logger.Debug().Int("removed", removed).Msg("swept expired cache entries")
			}
		}
	}
}

// String returns the service name for logging.
func (s *CacheSweepService) String() string {
	return s.name
}

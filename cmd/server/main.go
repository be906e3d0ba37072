// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

// Package main is the entry point for the PlacePulse server.
//
// PlacePulse serves ranked place recommendations over HTTP. Seven surfaces
// share one pipeline: load active places from DuckDB, filter, score with
// configurable weights, rank, and attach human-readable reasons.
//
// # Startup order
//
//  1. Configuration: layered load via Koanf v2 (defaults, config file,
//     environment variables)
//  2. Logging: zerolog, console or JSON format
//  3. Database: DuckDB with schema creation and optional sample data
//  4. Engine: the recommendation engine with validated scoring weights
//  5. Supervisor tree: HTTP server and maintenance jobs under suture
//
// # Configuration
//
// Environment variables override the config file, which overrides
// defaults. See internal/config for the full mapping. Commonly used:
//
//	export HTTP_PORT=8080
//	export DUCKDB_PATH=/data/placepulse.duckdb
//	export SEED_SAMPLE_DATA=true   # demo dataset on first start
//	export LOG_FORMAT=console      # for development
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server stops
// accepting connections, in-flight requests get the configured shutdown
// timeout, then the database closes.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/placepulse/placepulse/internal/api"
	"github.com/placepulse/placepulse/internal/config"
	"github.com/placepulse/placepulse/internal/database"
	"github.com/placepulse/placepulse/internal/logging"
	"github.com/placepulse/placepulse/internal/recommend"
	"github.com/placepulse/placepulse/internal/supervisor"
	"github.com/placepulse/placepulse/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config is not available yet, so this uses the default logger.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Bool("cache_enabled", cfg.Recommend.Cache.Enabled).
		Msg("Starting PlacePulse")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	engine, err := recommend.NewEngine(&cfg.Recommend, db, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	router := api.NewRouter(engine, db, &cfg.API)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	if cfg.Recommend.Cache.Enabled {
		tree.AddMaintenanceService(services.NewCacheSweepService(engine, cfg.Recommend.Cache.TTL, logging.Logger()))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Server stopped gracefully")
}

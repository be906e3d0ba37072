// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/placepulse/placepulse/internal/config"
	"github.com/placepulse/placepulse/internal/middleware"
	"github.com/placepulse/placepulse/internal/recommend"
)

// NewRouter assembles the HTTP routes with the full middleware stack.
func NewRouter(engine *recommend.Engine, store Pinger, cfg *config.APIConfig) http.Handler {
	handlers := NewHandlers(engine, store, cfg)
	mw := NewChiMiddleware(cfg)

	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/health", func(r chi.Router) {
			r.Get("/live", handlers.GetHealthLive)
			r.Get("/ready", handlers.GetHealthReady)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Use(mw.RateLimit("recommendations"))

			r.Get("/status", handlers.GetStatus)
			r.Get("/personalized", handlers.GetPersonalized)
			r.Get("/trending", handlers.GetTrending)
			r.Get("/hidden-gems", handlers.GetHiddenGems)
			r.Get("/similar/{placeID}", handlers.GetSimilar)
			r.Get("/popular", handlers.GetPopular)
			r.Get("/explore", handlers.GetExplore)
			r.Get("/nearby", handlers.GetNearby)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// chiMiddleware adapts a HandlerFunc-based middleware to chi's
// http.Handler-based form.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

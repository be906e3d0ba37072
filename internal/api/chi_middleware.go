// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package api

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/placepulse/placepulse/internal/config"
	"github.com/placepulse/placepulse/internal/logging"
	"github.com/placepulse/placepulse/internal/metrics"
)

// ChiMiddleware builds the cross-cutting middleware for the router from
// configuration.
type ChiMiddleware struct {
	cfg *config.APIConfig
}

// NewChiMiddleware creates the middleware factory.
func NewChiMiddleware(cfg *config.APIConfig) *ChiMiddleware {
	return &ChiMiddleware{cfg: cfg}
}

// CORS returns the CORS handler configured from api.cors_origins.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   m.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// RateLimit returns an IP-keyed rate limiter, or a no-op when rate limiting
// is disabled.
func (m *ChiMiddleware) RateLimit(endpoint string) func(http.Handler) http.Handler {
	if m.cfg.RateLimitDisabled {
		logging.Warn().Str("endpoint", endpoint).Msg("Rate limiting disabled")
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		m.cfg.RateLimitReqs,
		m.cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(endpoint).Inc()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":"RATE_LIMITED","message":"Too many requests"}}`))
		}),
	)
}

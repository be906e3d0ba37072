// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placepulse/placepulse/internal/logging"
)

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	var seenID string
	handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		assert.Equal(t, seenID, logging.RequestIDFromContext(r.Context()))
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seenID)
	assert.Equal(t, seenID, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDHonorsUpstreamHeader(t *testing.T) {
	handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "upstream-7", GetRequestID(r.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-7")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, "upstream-7", rec.Header().Get("X-Request-ID"))
}

func TestGetRequestIDMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetRequestID(req.Context()))
}

func TestPrometheusMetricsPreservesStatus(t *testing.T) {
	handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/trending", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

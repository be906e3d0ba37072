// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package api

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/placepulse/placepulse/internal/logging"
	"github.com/placepulse/placepulse/internal/middleware"
)

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError carries a machine-readable code alongside the message.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// APIMeta carries request metadata.
type APIMeta struct {
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Error codes returned by the API.
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidationError = "VALIDATION_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeDatabaseError   = "DATABASE_ERROR"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// ResponseWriter writes enveloped JSON responses.
type ResponseWriter struct{}

// NewResponseWriter creates a response writer.
func NewResponseWriter() *ResponseWriter {
	return &ResponseWriter{}
}

func (rw *ResponseWriter) write(w http.ResponseWriter, r *http.Request, status int, resp APIResponse) {
	resp.Meta = &APIMeta{
		RequestID: middleware.GetRequestID(r.Context()),
		Timestamp: time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}

// Success writes a 200 response with the given payload.
func (rw *ResponseWriter) Success(w http.ResponseWriter, r *http.Request, data interface{}) {
	rw.write(w, r, http.StatusOK, APIResponse{Success: true, Data: data})
}

// Error writes an error response with the given status and code.
func (rw *ResponseWriter) Error(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	rw.write(w, r, status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

// BadRequest writes a 400 response.
func (rw *ResponseWriter) BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	rw.Error(w, r, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// NotFound writes a 404 response.
func (rw *ResponseWriter) NotFound(w http.ResponseWriter, r *http.Request, message string) {
	rw.Error(w, r, http.StatusNotFound, ErrCodeNotFound, message)
}

// ValidationError writes a 400 response carrying field-level details.
func (rw *ResponseWriter) ValidationError(w http.ResponseWriter, r *http.Request, apiErr *APIError) {
	rw.write(w, r, http.StatusBadRequest, APIResponse{Success: false, Error: apiErr})
}

// DatabaseError writes a 500 response. The underlying error is logged, not
// exposed.
func (rw *ResponseWriter) DatabaseError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Error().
		Err(err).
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("path", r.URL.Path).
		Msg("Database error")
	rw.Error(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "A database error occurred")
}

// InternalError writes a 500 response.
func (rw *ResponseWriter) InternalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Error().
		Err(err).
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("path", r.URL.Path).
		Msg("Internal error")
	rw.Error(w, r, http.StatusInternalServerError, ErrCodeInternalError, "An internal error occurred")
}

// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nearbyQuery struct {
	Latitude  float64 `validate:"min=-90,max=90"`
	Longitude float64 `validate:"min=-180,max=180"`
	RadiusKm  float64 `validate:"gt=0,lte=500"`
	Count     int     `validate:"min=1,max=50"`
}

func TestValidateStructPasses(t *testing.T) {
	q := nearbyQuery{Latitude: 30.05, Longitude: 31.24, RadiusKm: 5, Count: 10}
	assert.Nil(t, ValidateStruct(&q))
}

func TestValidateStructSingleFailure(t *testing.T) {
	q := nearbyQuery{Latitude: 30.05, Longitude: 31.24, RadiusKm: 5, Count: 99}

	err := ValidateStruct(&q)
	require.NotNil(t, err)
	require.Len(t, err.Errors(), 1)

	fieldErr := err.Errors()[0]
	assert.Equal(t, "Count", fieldErr.Field())
	assert.Equal(t, "max", fieldErr.Tag())
	assert.Equal(t, "50", fieldErr.Param())
	assert.Equal(t, "Count must be at most 50", fieldErr.Error())

	apiErr := err.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, "Count must be at most 50", apiErr.Message)
	assert.Equal(t, "Count", apiErr.Details["field"])
}

func TestValidateStructMultipleFailures(t *testing.T) {
	q := nearbyQuery{Latitude: 120, Longitude: 31.24, RadiusKm: 0, Count: 10}

	err := ValidateStruct(&q)
	require.NotNil(t, err)
	require.Len(t, err.Errors(), 2)

	apiErr := err.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Message, "Latitude")
	assert.Contains(t, apiErr.Message, "RadiusKm")

	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	require.True(t, ok)
	assert.Len(t, fields, 2)
}

func TestValidateStructRequiredAndOneof(t *testing.T) {
	type req struct {
		Surface string `validate:"required,oneof=trending explore nearby"`
	}

	err := ValidateStruct(&req{})
	require.NotNil(t, err)
	assert.Equal(t, "Surface is required", err.Errors()[0].Error())

	err = ValidateStruct(&req{Surface: "bogus"})
	require.NotNil(t, err)
	assert.Equal(t, "Surface must be one of: trending explore nearby", err.Errors()[0].Error())

	assert.Nil(t, ValidateStruct(&req{Surface: "nearby"}))
}

func TestGetValidatorReturnsSameInstance(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}

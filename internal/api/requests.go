// PlacePulse - Place Recommendation and Geo-Ranking Engine
// Copyright 2026 PlacePulse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/placepulse/placepulse

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/placepulse/placepulse/internal/recommend"
)

// PersonalizedQuery is the query surface for personalized recommendations.
type PersonalizedQuery struct {
	UserID           int64    `validate:"required,gt=0"`
	Count            int      `validate:"omitempty,min=1,max=50"`
	Latitude         *float64 `validate:"omitempty,latitude"`
	Longitude        *float64 `validate:"omitempty,longitude"`
	IncludeVisited   bool
	IncludeFavorites bool
}

// TrendingQuery is the query surface for trending recommendations.
type TrendingQuery struct {
	Count int `validate:"omitempty,min=1,max=50"`
}

// HiddenGemsQuery is the query surface for hidden gem recommendations.
// The origin is required; pointers let a legitimate latitude 0 pass the
// required check.
type HiddenGemsQuery struct {
	Latitude  *float64 `validate:"required,latitude"`
	Longitude *float64 `validate:"required,longitude"`
	RadiusKm  float64  `validate:"required,gt=0,lte=500"`
	Count     int      `validate:"omitempty,min=1,max=50"`
	MinScore  int      `validate:"omitempty,min=1,max=100"`
}

// SimilarQuery is the query surface for similar-place recommendations.
type SimilarQuery struct {
	PlaceID int64 `validate:"required,gt=0"`
	Count   int   `validate:"omitempty,min=1,max=50"`
}

// PopularQuery is the query surface for popular-by-category recommendations.
type PopularQuery struct {
	CategoryID int64    `validate:"required,gt=0"`
	Count      int      `validate:"omitempty,min=1,max=50"`
	Latitude   *float64 `validate:"omitempty,latitude"`
	Longitude  *float64 `validate:"omitempty,longitude"`
}

// ExploreQuery is the query surface for filtered exploration.
type ExploreQuery struct {
	Count             int      `validate:"omitempty,min=1,max=50"`
	Latitude          *float64 `validate:"omitempty,latitude"`
	Longitude         *float64 `validate:"omitempty,longitude"`
	CategoryIDs       []int64
	MinPrice          *float64 `validate:"omitempty,gte=0"`
	MaxPrice          *float64 `validate:"omitempty,gte=0"`
	MinRating         *float64 `validate:"omitempty,gte=0,lte=5"`
	HiddenGem         *bool
	MinGemScore       *int `validate:"omitempty,min=1,max=100"`
	IncludeUnverified bool
	RadiusKm          *float64 `validate:"omitempty,gt=0,lte=500"`
}

// NearbyQuery is the query surface for proximity recommendations. The
// origin is required.
type NearbyQuery struct {
	Latitude  *float64 `validate:"required,latitude"`
	Longitude *float64 `validate:"required,longitude"`
	RadiusKm  float64  `validate:"required,gt=0,lte=500"`
	Count     int      `validate:"omitempty,min=1,max=50"`
}

// queryReader parses typed values out of URL query parameters, collecting
// the first parse failure.
type queryReader struct {
	r   *http.Request
	err error
}

func newQueryReader(r *http.Request) *queryReader {
	return &queryReader{r: r}
}

func (q *queryReader) fail(param, want string) {
	if q.err == nil {
		q.err = fmt.Errorf("parameter %q must be %s", param, want)
	}
}

func (q *queryReader) Int64(param string) int64 {
	raw := q.r.URL.Query().Get(param)
	if raw == "" || q.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		q.fail(param, "an integer")
		return 0
	}
	return v
}

func (q *queryReader) Int(param string) int {
	return int(q.Int64(param))
}

func (q *queryReader) IntPtr(param string) *int {
	if q.r.URL.Query().Get(param) == "" {
		return nil
	}
	v := q.Int(param)
	if q.err != nil {
		return nil
	}
	return &v
}

func (q *queryReader) Float(param string) float64 {
	raw := q.r.URL.Query().Get(param)
	if raw == "" || q.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.fail(param, "a number")
		return 0
	}
	return v
}

func (q *queryReader) FloatPtr(param string) *float64 {
	if q.r.URL.Query().Get(param) == "" {
		return nil
	}
	v := q.Float(param)
	if q.err != nil {
		return nil
	}
	return &v
}

func (q *queryReader) Bool(param string) bool {
	raw := q.r.URL.Query().Get(param)
	if raw == "" || q.err != nil {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.fail(param, "a boolean")
		return false
	}
	return v
}

func (q *queryReader) BoolPtr(param string) *bool {
	if q.r.URL.Query().Get(param) == "" {
		return nil
	}
	v := q.Bool(param)
	if q.err != nil {
		return nil
	}
	return &v
}

// Int64List parses a comma-separated list of integers.
func (q *queryReader) Int64List(param string) []int64 {
	raw := q.r.URL.Query().Get(param)
	if raw == "" || q.err != nil {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			q.fail(param, "a comma-separated list of integers")
			return nil
		}
		ids = append(ids, v)
	}
	return ids
}

// Err returns the first parse failure, if any.
func (q *queryReader) Err() error {
	return q.err
}

// origin assembles an Origin when both coordinates were supplied.
func origin(lat, long *float64) *recommend.Origin {
	if lat == nil || long == nil {
		return nil
	}
	return &recommend.Origin{Latitude: *lat, Longitude: *long}
}

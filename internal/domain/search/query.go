// Package search defines the search query value object, result shape, and
// the search-history audit entry.
package search

import (
	"fmt"

	"github.com/geosnap-io/geosnap/internal/domain/geo"
)

// Policy selects how candidates are bounded and ordered.
type Policy string

const (
	// PolicyRadius keeps candidates within radiusKm and orders most-recent-first.
	PolicyRadius Policy = "radius"
	// PolicyNearest keeps all candidates and orders ascending by distance.
	PolicyNearest Policy = "nearest"
)

// IsValid reports whether p is a known policy.
func (p Policy) IsValid() bool {
	return p == PolicyRadius || p == PolicyNearest
}

// Query parameter defaults and limits.
const (
	DefaultRadiusKm      = 1.0
	DefaultMinConfidence = 0.5
	DefaultSourceFilter  = "all"
	DefaultMaxResults    = 20
	// CoordinateMaxResults is the fixed cap for the coordinate-only search.
	CoordinateMaxResults = 10
	MaxMaxResults        = 100
)

// Query is a validated, immutable search query. Exactly one of origin point
// or origin address must be resolvable before filtering runs; resolving one
// from the other is a pipeline step, so construction allows either (or both).
type Query struct {
	origin          *geo.Point
	originAddress   string
	radiusKm        float64
	timeWindowYears int
	sourceFilter    string
	minConfidence   float64
	policy          Policy
	maxResults      int
}

// NewQuery validates and normalizes search parameters.
// Defaults: radius_km=1.0, source_filter=all, min_score=0.5, policy=radius,
// max_results=20 (clamped to 100).
func NewQuery(
	origin *geo.Point,
	originAddress string,
	radiusKm float64,
	timeWindowYears int,
	sourceFilter string,
	minConfidence float64,
	policy Policy,
	maxResults int,
) (Query, error) {
	if origin != nil && !geo.Valid(origin.Lat, origin.Lon) {
		return Query{}, fmt.Errorf("origin out of range: %s", origin)
	}
	if radiusKm == 0 {
		radiusKm = DefaultRadiusKm
	}
	if radiusKm < 0 {
		return Query{}, fmt.Errorf("radius_km must be positive, got %f", radiusKm)
	}
	if timeWindowYears < 0 {
		return Query{}, fmt.Errorf("time_interval_years must not be negative, got %d", timeWindowYears)
	}
	if sourceFilter == "" {
		sourceFilter = DefaultSourceFilter
	}
	if minConfidence < 0 || minConfidence > 1 {
		return Query{}, fmt.Errorf("min_score must be between 0 and 1, got %f", minConfidence)
	}
	if policy == "" {
		policy = PolicyRadius
	}
	if !policy.IsValid() {
		return Query{}, fmt.Errorf("invalid search principle: %q", policy)
	}
	if maxResults == 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults < 0 {
		return Query{}, fmt.Errorf("max_results must be positive, got %d", maxResults)
	}
	if maxResults > MaxMaxResults {
		maxResults = MaxMaxResults
	}

	var o *geo.Point
	if origin != nil {
		v := *origin
		o = &v
	}
	return Query{
		origin:          o,
		originAddress:   originAddress,
		radiusKm:        radiusKm,
		timeWindowYears: timeWindowYears,
		sourceFilter:    sourceFilter,
		minConfidence:   minConfidence,
		policy:          policy,
		maxResults:      maxResults,
	}, nil
}

// Origin returns the origin point, or nil when only an address was supplied.
func (q *Query) Origin() *geo.Point {
	if q.origin == nil {
		return nil
	}
	v := *q.origin
	return &v
}

// OriginAddress returns the origin address, or "" when only a point was supplied.
func (q *Query) OriginAddress() string { return q.originAddress }

// RadiusKm returns the radius bound in kilometers.
func (q *Query) RadiusKm() float64 { return q.radiusKm }

// TimeWindowYears returns the time window in years; 0 means unbounded.
func (q *Query) TimeWindowYears() int { return q.timeWindowYears }

// SourceFilter returns the provenance filter; "all" disables it.
func (q *Query) SourceFilter() string { return q.sourceFilter }

// MinConfidence returns the confidence threshold in [0,1].
func (q *Query) MinConfidence() float64 { return q.minConfidence }

// SearchPolicy returns the radius/nearest policy.
func (q *Query) SearchPolicy() Policy { return q.policy }

// MaxResults returns the result cap.
func (q *Query) MaxResults() int { return q.maxResults }

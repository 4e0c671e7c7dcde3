// Package photo defines the persisted photo record and its query filter.
package photo

import (
	"time"

	"github.com/geosnap-io/geosnap/internal/domain/geo"
	"github.com/geosnap-io/geosnap/internal/domain/location"
)

// Record lifecycle statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// SourceUploaded is the default provenance for records created via the upload API.
const SourceUploaded = "uploaded"

// Photo is a persisted photo record. A completed record always carries a
// location: the resolution chain never returns "no location".
type Photo struct {
	ID               string
	OwnerID          string
	Filename         string
	OriginalFilename string
	StorageKey       string
	Status           string
	Location         *geo.Point
	LocationSource   location.Source
	Address          string
	Source           string
	Confidence       *float64
	Resolution       string
	Metadata         map[string]string
	CreatedAt        time.Time
	ProcessedAt      *time.Time
}

// RecencyKey returns the timestamp used for most-recent-first ordering:
// processedAt when set, createdAt otherwise.
func (p *Photo) RecencyKey() time.Time {
	if p.ProcessedAt != nil {
		return *p.ProcessedAt
	}
	return p.CreatedAt
}

// Filter is the set of predicates pushed down to the record store.
// Zero values mean "no constraint"; MinConfidence never excludes records
// without a confidence value.
type Filter struct {
	Status          string
	CreatedAfter    time.Time
	Source          string
	MinConfidence   *float64
	RequireLocation bool
}

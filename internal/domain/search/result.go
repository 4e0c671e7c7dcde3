package search

import (
	"math"

	"github.com/geosnap-io/geosnap/internal/domain/photo"
)

// Result is one ranked search hit. Ephemeral: built per query, never persisted.
type Result struct {
	Photo          photo.Photo
	DistanceMeters float64
	DownloadURL    string
}

// DistanceKm returns the distance in kilometers rounded to 2 decimals,
// the precision exposed on the wire.
func (r *Result) DistanceKm() float64 {
	return math.Round(r.DistanceMeters/10) / 100
}

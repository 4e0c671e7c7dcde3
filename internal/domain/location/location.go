// Package location defines the output of the coordinate resolution chain.
package location

import "github.com/geosnap-io/geosnap/internal/domain/geo"

// Source identifies which resolution stage produced a coordinate.
type Source string

const (
	// SourceEXIF means the coordinate came from embedded GPS tags.
	SourceEXIF Source = "exif"
	// SourceVisionText means the coordinate was geocoded from text detected on the image.
	SourceVisionText Source = "vision_text"
	// SourceDeterministicHash means the coordinate was derived from a content hash of the file.
	SourceDeterministicHash Source = "deterministic_hash"
)

// Confidence returns the resolution confidence assigned to each source.
// EXIF tags are authoritative, OCR geocoding is approximate, and the
// hash fallback is a placeholder coordinate.
func (s Source) Confidence() float64 {
	switch s {
	case SourceEXIF:
		return 0.95
	case SourceVisionText:
		return 0.75
	default:
		return 0.3
	}
}

// Resolved is the immutable outcome of a resolution chain run.
// The chain guarantees every upload gets one; Address may be filled in
// afterwards by the reverse address resolver.
type Resolved struct {
	Point   geo.Point
	Source  Source
	Address string
}

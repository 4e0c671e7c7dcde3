// Package imagemeta defines the raw tag map produced by metadata extraction.
// The resolution chain only reads it; extraction itself lives behind a
// collaborator interface and may yield an empty map on total failure.
package imagemeta

// GPS tag names as exposed by the extractor.
const (
	TagGPSLatitude     = "GPSLatitude"
	TagGPSLatitudeRef  = "GPSLatitudeRef"
	TagGPSLongitude    = "GPSLongitude"
	TagGPSLongitudeRef = "GPSLongitudeRef"
)

// Rational is a single EXIF rational component.
type Rational struct {
	Num int64
	Den int64
}

// Float converts the rational to a float64. ok is false for a zero denominator.
func (r Rational) Float() (float64, bool) {
	if r.Den == 0 {
		return 0, false
	}
	return float64(r.Num) / float64(r.Den), true
}

// TagValue is one raw tag value: either text or a rational sequence.
type TagValue struct {
	Text      string
	Rationals []Rational
}

// Raw maps tag names to their raw values.
type Raw map[string]TagValue

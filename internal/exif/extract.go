// Package exif extracts raw GPS metadata from image bytes.
//
// Extraction is best-effort: undecodable files and files without an EXIF
// block yield an empty map, never an error. The resolution chain decides
// what to do with whatever is present.
package exif

import (
	"bytes"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/geosnap-io/geosnap/internal/domain/imagemeta"
)

// Extractor reads EXIF metadata from image bytes.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

var gpsTags = map[string]exif.FieldName{
	imagemeta.TagGPSLatitude:     exif.GPSLatitude,
	imagemeta.TagGPSLatitudeRef:  exif.GPSLatitudeRef,
	imagemeta.TagGPSLongitude:    exif.GPSLongitude,
	imagemeta.TagGPSLongitudeRef: exif.GPSLongitudeRef,
}

// Extract returns the GPS tags found in data. Empty map on any decode failure.
func (e *Extractor) Extract(data []byte) imagemeta.Raw {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return imagemeta.Raw{}
	}

	meta := imagemeta.Raw{}
	for name, field := range gpsTags {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		meta[name] = tagValue(tag)
	}
	return meta
}

func tagValue(tag *tiff.Tag) imagemeta.TagValue {
	v := imagemeta.TagValue{}

	if s, err := tag.StringVal(); err == nil {
		v.Text = s
	}

	for i := 0; i < int(tag.Count); i++ {
		num, den, err := tag.Rat2(i)
		if err != nil {
			break
		}
		v.Rationals = append(v.Rationals, imagemeta.Rational{Num: num, Den: den})
	}

	return v
}

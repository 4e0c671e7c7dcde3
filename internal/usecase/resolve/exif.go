package resolve

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/geosnap-io/geosnap/internal/domain/geo"
	"github.com/geosnap-io/geosnap/internal/domain/imagemeta"
	"github.com/geosnap-io/geosnap/internal/domain/location"
	"github.com/geosnap-io/geosnap/internal/logger"
)

// parseDMS converts a degrees/minutes/seconds rational triple to signed
// decimal degrees. ok is false when fewer than three components are present
// or any component is non-numeric (zero denominator).
func parseDMS(v imagemeta.TagValue) (float64, bool) {
	if len(v.Rationals) < 3 {
		return 0, false
	}
	deg, ok := v.Rationals[0].Float()
	if !ok {
		return 0, false
	}
	min, ok := v.Rationals[1].Float()
	if !ok {
		return 0, false
	}
	sec, ok := v.Rationals[2].Float()
	if !ok {
		return 0, false
	}
	return deg + min/60 + sec/3600, true
}

// applyHemisphere negates the coordinate for southern/western references.
// The reference is case-insensitive; anything else leaves the sign alone.
func applyHemisphere(value float64, ref string) float64 {
	switch strings.ToUpper(strings.TrimSpace(ref)) {
	case "S", "W":
		return -value
	}
	return value
}

// exifStage resolves a coordinate from embedded GPS tags. It requires both
// latitude and longitude tags; a missing or unparseable tag fails the stage.
type exifStage struct{}

func (exifStage) Resolve(ctx context.Context, meta imagemeta.Raw, _ []byte) (location.Resolved, bool) {
	latTag, ok := meta[imagemeta.TagGPSLatitude]
	if !ok {
		return location.Resolved{}, false
	}
	lonTag, ok := meta[imagemeta.TagGPSLongitude]
	if !ok {
		return location.Resolved{}, false
	}

	lat, ok := parseDMS(latTag)
	if !ok {
		logger.FromContext(ctx).Debug("unparseable GPS latitude tag")
		return location.Resolved{}, false
	}
	lon, ok := parseDMS(lonTag)
	if !ok {
		logger.FromContext(ctx).Debug("unparseable GPS longitude tag")
		return location.Resolved{}, false
	}

	lat = applyHemisphere(lat, meta[imagemeta.TagGPSLatitudeRef].Text)
	lon = applyHemisphere(lon, meta[imagemeta.TagGPSLongitudeRef].Text)

	if !geo.Valid(lat, lon) {
		logger.FromContext(ctx).Debug("EXIF coordinates out of range",
			zap.Float64("lat", lat), zap.Float64("lon", lon))
		return location.Resolved{}, false
	}

	return location.Resolved{
		Point:  geo.Point{Lat: lat, Lon: lon},
		Source: location.SourceEXIF,
	}, true
}

package resolve

import (
	"context"
	"crypto/md5" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/binary"

	"github.com/geosnap-io/geosnap/internal/domain/geo"
	"github.com/geosnap-io/geosnap/internal/domain/imagemeta"
	"github.com/geosnap-io/geosnap/internal/domain/location"
)

// fallbackStage derives a reproducible pseudo-coordinate from the file bytes.
// Identical bytes always yield the identical point; distinct files spread
// deterministically across the reference-point table. This stage cannot fail.
type fallbackStage struct {
	points []geo.Point
}

func (s fallbackStage) Resolve(_ context.Context, _ imagemeta.Raw, data []byte) (location.Resolved, bool) {
	return location.Resolved{
		Point:  DeterministicPoint(data, s.points),
		Source: location.SourceDeterministicHash,
	}, true
}

// DeterministicPoint maps file bytes to a coordinate: the first 32 bits of
// the MD5 digest select a base point (mod table size) and derive sub-2 km
// lat/lon jitter, rounded to 6 decimal places.
func DeterministicPoint(data []byte, points []geo.Point) geo.Point {
	sum := md5.Sum(data) //nolint:gosec
	h := binary.BigEndian.Uint32(sum[:4])

	base := points[int(h%uint32(len(points)))]

	latOffset := (float64(h%1000) - 500) / 50000.0
	lonOffset := (float64((h/1000)%1000) - 500) / 30000.0

	return geo.Point{
		Lat: base.Lat + latOffset,
		Lon: base.Lon + lonOffset,
	}.Round6()
}

// Package geo holds geographic primitives: points and geodesic distance.
package geo

import (
	"fmt"
	"math"
)

// Point is a WGS-84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// New validates latitude/longitude ranges and returns a Point.
func New(lat, lon float64) (Point, error) {
	if !Valid(lat, lon) {
		return Point{}, fmt.Errorf("coordinates out of range: lat=%f lon=%f", lat, lon)
	}
	return Point{Lat: lat, Lon: lon}, nil
}

// Valid reports whether latitude is in [-90,90] and longitude in [-180,180].
func Valid(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Round6 rounds both coordinates to 6 decimal places (~0.1 m resolution).
func (p Point) Round6() Point {
	return Point{
		Lat: math.Round(p.Lat*1e6) / 1e6,
		Lon: math.Round(p.Lon*1e6) / 1e6,
	}
}

func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lon)
}

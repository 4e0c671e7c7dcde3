package resolve

import (
	"context"

	"github.com/geosnap-io/geosnap/internal/domain/geo"
)

// TextDetector is the vision/OCR collaborator. It returns all text detected
// on the image as newline-separated lines, or "" when nothing was found.
type TextDetector interface {
	DetectText(ctx context.Context, image []byte) (string, error)
}

// Geocoder resolves addresses to coordinates and back.
// Both directions return domain.ErrAddressNotFound when the provider has no match.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Point, error)
	Reverse(ctx context.Context, p geo.Point) (string, error)
}

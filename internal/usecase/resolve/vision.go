package resolve

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/geosnap-io/geosnap/internal/domain/imagemeta"
	"github.com/geosnap-io/geosnap/internal/domain/location"
	"github.com/geosnap-io/geosnap/internal/logger"
)

// visionStage submits the image to the OCR collaborator, extracts an
// address candidate from the detected text, and geocodes it. Any failure
// along the way fails the stage: missing collaborators, no text, no address
// candidate, or a geocoding miss.
type visionStage struct {
	detector TextDetector
	geocoder Geocoder
	cfg      Config
}

func (s visionStage) Resolve(ctx context.Context, _ imagemeta.Raw, data []byte) (location.Resolved, bool) {
	if s.detector == nil || s.geocoder == nil {
		return location.Resolved{}, false
	}
	log := logger.FromContext(ctx)

	text, err := s.detector.DetectText(ctx, data)
	if err != nil {
		log.Warn("text detection failed", zap.Error(err))
		return location.Resolved{}, false
	}
	if strings.TrimSpace(text) == "" {
		return location.Resolved{}, false
	}

	address := s.findAddress(text)
	if address == "" {
		return location.Resolved{}, false
	}
	log.Debug("address candidate from detected text", zap.String("address", address))

	point, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		log.Warn("geocoding address candidate failed",
			zap.String("address", address), zap.Error(err))
		return location.Resolved{}, false
	}

	return location.Resolved{
		Point:   point,
		Source:  location.SourceVisionText,
		Address: address,
	}, true
}

// findAddress extracts an address candidate from detected text: an exact
// landmark-table match wins; otherwise the first line containing an address
// marker is truncated to MaxAddressTokens tokens and prefixed with the
// default locality.
func (s visionStage) findAddress(text string) string {
	lowered := strings.ToLower(text)

	// Sorted iteration keeps the match stable when several fragments appear.
	fragments := make([]string, 0, len(s.cfg.Landmarks))
	for fragment := range s.cfg.Landmarks {
		fragments = append(fragments, fragment)
	}
	sort.Strings(fragments)
	for _, fragment := range fragments {
		if strings.Contains(lowered, fragment) {
			return s.cfg.Landmarks[fragment]
		}
	}

	for _, line := range strings.Split(text, "\n") {
		lineLower := strings.ToLower(line)
		for _, marker := range s.cfg.AddressMarkers {
			if strings.Contains(lineLower, marker) {
				tokens := strings.Fields(line)
				if len(tokens) > s.cfg.MaxAddressTokens {
					tokens = tokens[:s.cfg.MaxAddressTokens]
				}
				return s.cfg.DefaultLocality + ", " + strings.Join(tokens, " ")
			}
		}
	}

	return ""
}

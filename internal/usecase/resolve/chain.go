// Package resolve implements the coordinate resolution chain: an ordered
// list of fallback strategies that always produces exactly one location
// for an uploaded image.
package resolve

import (
	"context"

	"go.uber.org/zap"

	"github.com/geosnap-io/geosnap/internal/domain/imagemeta"
	"github.com/geosnap-io/geosnap/internal/domain/location"
	"github.com/geosnap-io/geosnap/internal/logger"
	"github.com/geosnap-io/geosnap/internal/metrics"
)

// Stage is one resolution strategy. ok=false means "fall through to the
// next stage"; stage-internal failures are absorbed, never surfaced.
type Stage interface {
	Resolve(ctx context.Context, meta imagemeta.Raw, data []byte) (location.Resolved, bool)
}

// Chain tries its stages in priority order and returns the first success.
// The final stage cannot fail, so Resolve never returns "no location".
type Chain struct {
	stages []Stage
}

// NewChain builds the standard three-stage chain: EXIF tags, detected text,
// deterministic hash fallback. detector and geocoder may be nil; the vision
// stage then always falls through.
func NewChain(cfg Config, detector TextDetector, geocoder Geocoder) *Chain {
	return &Chain{
		stages: []Stage{
			exifStage{},
			visionStage{detector: detector, geocoder: geocoder, cfg: cfg},
			fallbackStage{points: cfg.ReferencePoints},
		},
	}
}

// Resolve runs the chain. Strictly sequential: a stage runs only when every
// stage before it fell through.
func (c *Chain) Resolve(ctx context.Context, meta imagemeta.Raw, data []byte) location.Resolved {
	for _, stage := range c.stages {
		if resolved, ok := stage.Resolve(ctx, meta, data); ok {
			metrics.ResolutionsTotal.WithLabelValues(string(resolved.Source)).Inc()
			logger.FromContext(ctx).Info("location resolved",
				zap.String("source", string(resolved.Source)),
				zap.Float64("lat", resolved.Point.Lat),
				zap.Float64("lon", resolved.Point.Lon),
			)
			return resolved
		}
	}
	// Unreachable: the fallback stage always succeeds.
	panic("resolution chain exhausted")
}

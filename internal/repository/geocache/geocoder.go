// Package geocache caches geocoding results in the key-value store.
// A cache failure is never a geocoding failure: reads and writes fall
// through to the wrapped provider on any error.
package geocache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/geosnap-io/geosnap/internal/db"
	"github.com/geosnap-io/geosnap/internal/domain/geo"
	"github.com/geosnap-io/geosnap/internal/metrics"
)

// Geocoder is the provider contract the cache wraps.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Point, error)
	Reverse(ctx context.Context, p geo.Point) (string, error)
}

// CachedGeocoder decorates a Geocoder with KV caching.
type CachedGeocoder struct {
	next   Geocoder
	kv     db.KV
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a caching decorator around next.
func New(next Geocoder, kv db.KV, ttl time.Duration, logger *zap.Logger) *CachedGeocoder {
	return &CachedGeocoder{next: next, kv: kv, ttl: ttl, logger: logger}
}

func forwardKey(address string) string {
	return "geocode:fwd:" + strings.ToLower(strings.TrimSpace(address))
}

func reverseKey(p geo.Point) string {
	return fmt.Sprintf("geocode:rev:%s", p.Round6())
}

// Geocode resolves an address, serving repeats from cache.
func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (geo.Point, error) {
	key := forwardKey(address)

	if data, err := c.kv.Get(ctx, key); err == nil {
		var p geo.Point
		if err := json.Unmarshal(data, &p); err == nil {
			metrics.GeocodeCacheTotal.WithLabelValues("forward", "hit").Inc()
			return p, nil
		}
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		c.logger.Warn("geocode cache read failed", zap.Error(err))
	}
	metrics.GeocodeCacheTotal.WithLabelValues("forward", "miss").Inc()

	p, err := c.next.Geocode(ctx, address)
	if err != nil {
		return geo.Point{}, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := c.kv.SetWithTTL(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn("geocode cache write failed", zap.Error(err))
		}
	}
	return p, nil
}

// Reverse resolves a coordinate to an address, serving repeats from cache.
func (c *CachedGeocoder) Reverse(ctx context.Context, p geo.Point) (string, error) {
	key := reverseKey(p)

	if data, err := c.kv.Get(ctx, key); err == nil {
		metrics.GeocodeCacheTotal.WithLabelValues("reverse", "hit").Inc()
		return string(data), nil
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		c.logger.Warn("geocode cache read failed", zap.Error(err))
	}
	metrics.GeocodeCacheTotal.WithLabelValues("reverse", "miss").Inc()

	address, err := c.next.Reverse(ctx, p)
	if err != nil {
		return "", err
	}

	if err := c.kv.SetWithTTL(ctx, key, []byte(address), c.ttl); err != nil {
		c.logger.Warn("geocode cache write failed", zap.Error(err))
	}
	return address, nil
}

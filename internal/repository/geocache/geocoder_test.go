package geocache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/geosnap-io/geosnap/internal/db"
	"github.com/geosnap-io/geosnap/internal/domain/geo"
)

// --- Mocks ---

type fakeKV struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	setKeys []string
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string][]byte{}} }

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeKV) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setKeys = append(f.setKeys, key)
	f.data[key] = value
	return nil
}

type countingGeocoder struct {
	point        geo.Point
	address      string
	err          error
	geocodeCalls int
	reverseCalls int
}

func (c *countingGeocoder) Geocode(_ context.Context, _ string) (geo.Point, error) {
	c.geocodeCalls++
	return c.point, c.err
}

func (c *countingGeocoder) Reverse(_ context.Context, _ geo.Point) (string, error) {
	c.reverseCalls++
	return c.address, c.err
}

// --- Tests ---

func TestGeocode_MissThenHit(t *testing.T) {
	kv := newFakeKV()
	next := &countingGeocoder{point: geo.Point{Lat: 55.7558, Lon: 37.6173}}
	cached := New(next, kv, time.Hour, zap.NewNop())

	first, err := cached.Geocode(context.Background(), "Moscow, Arbat St")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cached.Geocode(context.Background(), "Moscow, Arbat St")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.geocodeCalls != 1 {
		t.Errorf("expected one provider call, got %d", next.geocodeCalls)
	}
	if first != second {
		t.Errorf("expected identical points, got %v and %v", first, second)
	}
}

func TestGeocode_KeyNormalization(t *testing.T) {
	kv := newFakeKV()
	next := &countingGeocoder{point: geo.Point{Lat: 55.7558, Lon: 37.6173}}
	cached := New(next, kv, time.Hour, zap.NewNop())

	if _, err := cached.Geocode(context.Background(), "Moscow, Arbat St"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cached.Geocode(context.Background(), "  MOSCOW, ARBAT ST "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.geocodeCalls != 1 {
		t.Errorf("expected case and whitespace variants to share a key, got %d calls", next.geocodeCalls)
	}
}

func TestGeocode_CacheReadFailureFallsThrough(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("redis: connection refused")
	next := &countingGeocoder{point: geo.Point{Lat: 55.7558, Lon: 37.6173}}
	cached := New(next, kv, time.Hour, zap.NewNop())

	p, err := cached.Geocode(context.Background(), "Moscow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != next.point {
		t.Errorf("expected provider result, got %v", p)
	}
}

func TestGeocode_CacheWriteFailureFallsThrough(t *testing.T) {
	kv := newFakeKV()
	kv.setErr = errors.New("redis: readonly")
	next := &countingGeocoder{point: geo.Point{Lat: 55.7558, Lon: 37.6173}}
	cached := New(next, kv, time.Hour, zap.NewNop())

	if _, err := cached.Geocode(context.Background(), "Moscow"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGeocode_ProviderErrorNotCached(t *testing.T) {
	kv := newFakeKV()
	next := &countingGeocoder{err: errors.New("geocoder: down")}
	cached := New(next, kv, time.Hour, zap.NewNop())

	if _, err := cached.Geocode(context.Background(), "Moscow"); err == nil {
		t.Fatal("expected an error")
	}
	if len(kv.setKeys) != 0 {
		t.Errorf("expected no cache write on provider failure, got %v", kv.setKeys)
	}
}

func TestReverse_MissThenHit(t *testing.T) {
	kv := newFakeKV()
	next := &countingGeocoder{address: "Moscow, Tverskaya St, 7"}
	cached := New(next, kv, time.Hour, zap.NewNop())
	p := geo.Point{Lat: 55.7558, Lon: 37.6173}

	first, err := cached.Reverse(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cached.Reverse(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.reverseCalls != 1 {
		t.Errorf("expected one provider call, got %d", next.reverseCalls)
	}
	if first != second || first != "Moscow, Tverskaya St, 7" {
		t.Errorf("unexpected addresses: %q, %q", first, second)
	}
}

func TestReverse_KeyRoundsCoordinates(t *testing.T) {
	kv := newFakeKV()
	next := &countingGeocoder{address: "Moscow"}
	cached := New(next, kv, time.Hour, zap.NewNop())

	// Both points round to the same 6-decimal key.
	if _, err := cached.Reverse(context.Background(), geo.Point{Lat: 55.75580000004, Lon: 37.6173}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cached.Reverse(context.Background(), geo.Point{Lat: 55.75580000001, Lon: 37.6173}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.reverseCalls != 1 {
		t.Errorf("expected nearby points to share a key, got %d calls", next.reverseCalls)
	}
}

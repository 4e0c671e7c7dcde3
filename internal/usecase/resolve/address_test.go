package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/geosnap-io/geosnap/internal/domain/geo"
)

func TestAddressResolver_ReverseGeocoderVerbatim(t *testing.T) {
	geocoder := &mockGeocoder{address: "Moscow, Tverskaya St, 7"}
	resolver := NewAddressResolver(geocoder, "Moscow")

	got := resolver.Resolve(context.Background(), geo.Point{Lat: 55.7558, Lon: 37.6173})
	if got != "Moscow, Tverskaya St, 7" {
		t.Errorf("expected reverse geocoder result verbatim, got %q", got)
	}
}

func TestAddressResolver_SynthesizesOnReverseFailure(t *testing.T) {
	geocoder := &mockGeocoder{reverseErr: errors.New("geocoder: down")}
	resolver := NewAddressResolver(geocoder, "Moscow")

	got := resolver.Resolve(context.Background(), geo.Point{Lat: 55.7558, Lon: 37.6173})
	if got == "" {
		t.Fatal("expected a synthesized address")
	}
}

func TestAddressResolver_SynthesizesWithoutGeocoder(t *testing.T) {
	resolver := NewAddressResolver(nil, "Moscow")

	// Center region: street index 55755 mod 4 = 3, house 37617 mod 100 + 1.
	got := resolver.Resolve(context.Background(), geo.Point{Lat: 55.7558, Lon: 37.6173})
	if got != "Moscow, Maroseyka St, 18" {
		t.Errorf("unexpected synthesized address: %q", got)
	}
}

func TestAddressResolver_Regions(t *testing.T) {
	resolver := NewAddressResolver(nil, "Moscow")

	cases := []struct {
		name   string
		point  geo.Point
		street string
	}{
		{"north", geo.Point{Lat: 55.7912, Lon: 37.6004}, "Altufyevskoye Hwy"},
		{"south", geo.Point{Lat: 55.7016, Lon: 37.6004}, "Kashirskoye Hwy"},
		{"east", geo.Point{Lat: 55.7502, Lon: 37.7009}, "Pervomayskaya St"},
		{"west", geo.Point{Lat: 55.7502, Lon: 37.5004}, "Rublyovskoye Hwy"},
		{"center", geo.Point{Lat: 55.7502, Lon: 37.6001}, "Pyatnitskaya St"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolver.Resolve(context.Background(), tc.point)
			want := "Moscow, " + tc.street
			if len(got) < len(want) || got[:len(want)] != want {
				t.Errorf("expected prefix %q, got %q", want, got)
			}
		})
	}
}

func TestAddressResolver_Deterministic(t *testing.T) {
	resolver := NewAddressResolver(nil, "Moscow")
	p := geo.Point{Lat: 55.7339, Lon: 37.5889}

	first := resolver.Resolve(context.Background(), p)
	second := resolver.Resolve(context.Background(), p)
	if first != second {
		t.Errorf("expected deterministic address, got %q and %q", first, second)
	}
}

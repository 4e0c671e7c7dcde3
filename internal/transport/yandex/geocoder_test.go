package yandex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geosnap-io/geosnap/internal/domain"
	"github.com/geosnap-io/geosnap/internal/domain/geo"
)

func mustPoint(t *testing.T, lat, lon float64) geo.Point {
	t.Helper()
	p, err := geo.New(lat, lon)
	if err != nil {
		t.Fatalf("geo.New: %v", err)
	}
	return p
}

func geocoderStub(t *testing.T, handler http.HandlerFunc) *Geocoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGeocoder(GeocoderConfig{APIKey: "test-key", BaseURL: srv.URL})
}

func featureBody(pos, text string) string {
	return `{"response":{"GeoObjectCollection":{"featureMember":[{"GeoObject":{` +
		`"metaDataProperty":{"GeocoderMetaData":{"text":"` + text + `"}},` +
		`"Point":{"pos":"` + pos + `"}}}]}}}`
}

func TestGeocode_ParsesLonLatOrder(t *testing.T) {
	g := geocoderStub(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("geocode"); got != "Moscow, Arbat St" {
			t.Errorf("unexpected geocode param: %q", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "test-key" {
			t.Errorf("unexpected apikey param: %q", got)
		}
		w.Write([]byte(featureBody("37.617300 55.755800", "Moscow, Arbat St, 1")))
	})

	p, err := g.Geocode(context.Background(), "Moscow, Arbat St")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Lat != 55.7558 || p.Lon != 37.6173 {
		t.Errorf("expected (55.7558, 37.6173), got %v", p)
	}
}

func TestGeocode_NotFound(t *testing.T) {
	g := geocoderStub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"response":{"GeoObjectCollection":{"featureMember":[]}}}`))
	})

	_, err := g.Geocode(context.Background(), "nowhere at all")
	if !errors.Is(err, domain.ErrAddressNotFound) {
		t.Errorf("expected ErrAddressNotFound, got %v", err)
	}
}

func TestGeocode_ServerError(t *testing.T) {
	g := geocoderStub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := g.Geocode(context.Background(), "Moscow")
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, domain.ErrAddressNotFound) {
		t.Error("a transport failure must not read as not-found")
	}
}

func TestReverse_SendsLonCommaLat(t *testing.T) {
	g := geocoderStub(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("geocode"); got != "37.617300,55.755800" {
			t.Errorf("expected lon,lat query, got %q", got)
		}
		w.Write([]byte(featureBody("37.617300 55.755800", "Moscow, Tverskaya St, 7")))
	})

	addr, err := g.Reverse(context.Background(), mustPoint(t, 55.7558, 37.6173))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != "Moscow, Tverskaya St, 7" {
		t.Errorf("unexpected address: %q", addr)
	}
}

func TestReverse_NotFound(t *testing.T) {
	g := geocoderStub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"response":{"GeoObjectCollection":{"featureMember":[]}}}`))
	})

	_, err := g.Reverse(context.Background(), mustPoint(t, 0.000001, 0.000001))
	if !errors.Is(err, domain.ErrAddressNotFound) {
		t.Errorf("expected ErrAddressNotFound, got %v", err)
	}
}

func TestParsePos_Malformed(t *testing.T) {
	cases := []string{"", "37.61", "a b", "37.61 b", "37.61 55.75 1"}
	for _, pos := range cases {
		if _, err := parsePos(pos); err == nil {
			t.Errorf("expected error for %q", pos)
		}
	}
}

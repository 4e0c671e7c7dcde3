package geo

import "testing"

func TestNew_Valid(t *testing.T) {
	p, err := New(55.7558, 37.6173)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Lat != 55.7558 || p.Lon != 37.6173 {
		t.Errorf("unexpected point: %v", p)
	}
}

func TestNew_OutOfRange(t *testing.T) {
	cases := []struct {
		name     string
		lat, lon float64
	}{
		{"lat too high", 90.1, 0},
		{"lat too low", -90.1, 0},
		{"lon too high", 0, 180.1},
		{"lon too low", 0, -180.1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.lat, tc.lon); err == nil {
				t.Errorf("expected error for (%f, %f)", tc.lat, tc.lon)
			}
		})
	}
}

func TestValid_Boundaries(t *testing.T) {
	if !Valid(90, 180) {
		t.Error("expected (90, 180) to be valid")
	}
	if !Valid(-90, -180) {
		t.Error("expected (-90, -180) to be valid")
	}
}

func TestRound6(t *testing.T) {
	p := Point{Lat: 55.75580049, Lon: 37.61729951}.Round6()
	if p.Lat != 55.755800 {
		t.Errorf("expected lat 55.755800, got %f", p.Lat)
	}
	if p.Lon != 37.617300 {
		t.Errorf("expected lon 37.617300, got %f", p.Lon)
	}
}

func TestString(t *testing.T) {
	p := Point{Lat: 55.7558, Lon: 37.6173}
	if got := p.String(); got != "55.755800,37.617300" {
		t.Errorf("unexpected string: %q", got)
	}
}

package search

import "testing"

func TestDistanceKm_Rounding(t *testing.T) {
	cases := []struct {
		meters float64
		want   float64
	}{
		{0, 0},
		{1234.4, 1.23},
		{1235.0, 1.24},
		{999.9, 1.0},
		{50, 0.05},
		{4, 0},
	}
	for _, tc := range cases {
		r := Result{DistanceMeters: tc.meters}
		if got := r.DistanceKm(); got != tc.want {
			t.Errorf("DistanceKm(%f) = %f, want %f", tc.meters, got, tc.want)
		}
	}
}

package resolve

import (
	"context"
	"testing"

	"github.com/geosnap-io/geosnap/internal/domain/imagemeta"
	"github.com/geosnap-io/geosnap/internal/domain/location"
)

func dms(t *testing.T, deg, min, sec int64) imagemeta.TagValue {
	t.Helper()
	return imagemeta.TagValue{Rationals: []imagemeta.Rational{
		{Num: deg, Den: 1}, {Num: min, Den: 1}, {Num: sec, Den: 1},
	}}
}

func TestParseDMS(t *testing.T) {
	v, ok := parseDMS(imagemeta.TagValue{Rationals: []imagemeta.Rational{
		{Num: 45, Den: 1}, {Num: 30, Den: 1}, {Num: 36, Den: 1},
	}})
	if !ok {
		t.Fatal("expected ok")
	}
	if v != 45.51 {
		t.Errorf("expected 45.51, got %f", v)
	}
}

func TestParseDMS_FractionalComponents(t *testing.T) {
	v, ok := parseDMS(imagemeta.TagValue{Rationals: []imagemeta.Rational{
		{Num: 55, Den: 1}, {Num: 90, Den: 2}, {Num: 0, Den: 1},
	}})
	if !ok {
		t.Fatal("expected ok")
	}
	if v != 55.75 {
		t.Errorf("expected 55.75, got %f", v)
	}
}

func TestParseDMS_Unparseable(t *testing.T) {
	cases := []struct {
		name string
		v    imagemeta.TagValue
	}{
		{"empty", imagemeta.TagValue{}},
		{"two components", imagemeta.TagValue{Rationals: []imagemeta.Rational{
			{Num: 45, Den: 1}, {Num: 30, Den: 1},
		}}},
		{"zero denominator", imagemeta.TagValue{Rationals: []imagemeta.Rational{
			{Num: 45, Den: 1}, {Num: 30, Den: 0}, {Num: 0, Den: 1},
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := parseDMS(tc.v); ok {
				t.Error("expected ok=false")
			}
		})
	}
}

func TestApplyHemisphere(t *testing.T) {
	cases := []struct {
		ref  string
		in   float64
		want float64
	}{
		{"N", 45, 45},
		{"S", 0.5, -0.5},
		{"s", 0.5, -0.5},
		{" W ", 37, -37},
		{"E", 37, 37},
		{"", 37, 37},
	}
	for _, tc := range cases {
		if got := applyHemisphere(tc.in, tc.ref); got != tc.want {
			t.Errorf("applyHemisphere(%f, %q) = %f, want %f", tc.in, tc.ref, got, tc.want)
		}
	}
}

func TestExifStage_Resolves(t *testing.T) {
	meta := imagemeta.Raw{
		imagemeta.TagGPSLatitude:     dms(t, 0, 30, 0),
		imagemeta.TagGPSLatitudeRef:  {Text: "S"},
		imagemeta.TagGPSLongitude:    dms(t, 45, 0, 0),
		imagemeta.TagGPSLongitudeRef: {Text: "E"},
	}

	resolved, ok := exifStage{}.Resolve(context.Background(), meta, nil)
	if !ok {
		t.Fatal("expected stage to resolve")
	}
	if resolved.Source != location.SourceEXIF {
		t.Errorf("expected exif source, got %q", resolved.Source)
	}
	if resolved.Point.Lat != -0.5 {
		t.Errorf("expected lat -0.5, got %f", resolved.Point.Lat)
	}
	if resolved.Point.Lon != 45.0 {
		t.Errorf("expected lon 45.0, got %f", resolved.Point.Lon)
	}
}

func TestExifStage_MissingTags(t *testing.T) {
	cases := []struct {
		name string
		meta imagemeta.Raw
	}{
		{"empty", imagemeta.Raw{}},
		{"latitude only", imagemeta.Raw{
			imagemeta.TagGPSLatitude: dms(t, 55, 45, 0),
		}},
		{"longitude only", imagemeta.Raw{
			imagemeta.TagGPSLongitude: dms(t, 37, 37, 0),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := (exifStage{}).Resolve(context.Background(), tc.meta, nil); ok {
				t.Error("expected stage to fall through")
			}
		})
	}
}

func TestExifStage_UnparseableTag(t *testing.T) {
	meta := imagemeta.Raw{
		imagemeta.TagGPSLatitude: {Rationals: []imagemeta.Rational{{Num: 55, Den: 0}}},
		imagemeta.TagGPSLongitude: dms(t, 37, 37, 0),
	}
	if _, ok := (exifStage{}).Resolve(context.Background(), meta, nil); ok {
		t.Error("expected stage to fall through")
	}
}

func TestExifStage_OutOfRange(t *testing.T) {
	meta := imagemeta.Raw{
		imagemeta.TagGPSLatitude:  dms(t, 95, 0, 0),
		imagemeta.TagGPSLongitude: dms(t, 37, 37, 0),
	}
	if _, ok := (exifStage{}).Resolve(context.Background(), meta, nil); ok {
		t.Error("expected stage to fall through")
	}
}

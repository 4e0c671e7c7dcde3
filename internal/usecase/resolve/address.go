package resolve

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/geosnap-io/geosnap/internal/domain/geo"
	"github.com/geosnap-io/geosnap/internal/logger"
)

// Region thresholds for the synthetic address generator, in decimal degrees.
const (
	northLatThreshold = 55.78
	southLatThreshold = 55.72
	eastLonThreshold  = 37.65
	westLonThreshold  = 37.58
)

var streetsByRegion = map[string][]string{
	"north": {"Leningradsky Prospekt", "Verkhnyaya Maslovka St", "Pravoberezhnaya St", "Altufyevskoye Hwy"},
	"south": {"Varshavskoye Hwy", "Kashirskoye Hwy", "Profsoyuznaya St", "Sevastopolsky Prospekt"},
	"east":  {"Shchyolkovskoye Hwy", "Entuziastov Hwy", "Pervomayskaya St", "Izmaylovsky Prospekt"},
	"west":  {"Kutuzovsky Prospekt", "Mozhayskoye Hwy", "Rublyovskoye Hwy", "Molodogvardeyskaya St"},
	"center": {
		"Tverskaya St", "Bolshaya Dmitrovka St", "Pyatnitskaya St", "Maroseyka St",
	},
}

// AddressResolver converts a coordinate into a display address. A configured
// reverse geocoder is used verbatim; otherwise (or on failure) a plausible
// address is synthesized from the coordinate. This path never fails.
type AddressResolver struct {
	geocoder Geocoder
	locality string
}

// NewAddressResolver creates an AddressResolver. geocoder may be nil.
func NewAddressResolver(geocoder Geocoder, locality string) *AddressResolver {
	return &AddressResolver{geocoder: geocoder, locality: locality}
}

// Resolve returns a display address for p.
func (r *AddressResolver) Resolve(ctx context.Context, p geo.Point) string {
	if r.geocoder != nil {
		address, err := r.geocoder.Reverse(ctx, p)
		if err == nil && address != "" {
			return address
		}
		if err != nil {
			logger.FromContext(ctx).Warn("reverse geocoding failed", zap.Error(err))
		}
	}
	return r.synthesize(p)
}

// synthesize buckets the point into one of five regions and derives a street
// and house number from the coordinate digits.
func (r *AddressResolver) synthesize(p geo.Point) string {
	var region string
	switch {
	case p.Lat > northLatThreshold:
		region = "north"
	case p.Lat < southLatThreshold:
		region = "south"
	case p.Lon > eastLonThreshold:
		region = "east"
	case p.Lon < westLonThreshold:
		region = "west"
	default:
		region = "center"
	}

	streets := streetsByRegion[region]
	street := streets[int(math.Abs(p.Lat*1000))%len(streets)]
	house := int(math.Abs(p.Lon*1000))%100 + 1

	return fmt.Sprintf("%s, %s, %d", r.locality, street, house)
}

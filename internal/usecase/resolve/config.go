package resolve

import "github.com/geosnap-io/geosnap/internal/domain/geo"

// Config holds the fixed tables and defaults the resolution stages depend on.
// It is built once at startup and injected; the stages never reach for
// ambient state.
type Config struct {
	// DefaultLocality prefixes addresses derived from detected text and
	// synthesized addresses.
	DefaultLocality string
	// ReferencePoints is the ordered base-point table for the deterministic
	// fallback. Order matters: the selected entry is hash mod len.
	ReferencePoints []geo.Point
	// Landmarks maps lowercase place-name fragments to full addresses.
	Landmarks map[string]string
	// AddressMarkers are lowercase substrings that mark a text line as
	// address-like.
	AddressMarkers []string
	// MaxAddressTokens bounds how many leading tokens of a matched line are
	// kept when building an address candidate.
	MaxAddressTokens int
}

// DefaultConfig returns the built-in tables, centered on Moscow.
func DefaultConfig() Config {
	return Config{
		DefaultLocality: "Moscow",
		ReferencePoints: []geo.Point{
			{Lat: 55.7339, Lon: 37.5889}, // Arbat
			{Lat: 55.7603, Lon: 37.6186}, // Kitay-Gorod
			{Lat: 55.7749, Lon: 37.6327}, // Garden Ring north
			{Lat: 55.7360, Lon: 37.6245}, // Zamoskvorechye
			{Lat: 55.7150, Lon: 37.6300}, // Paveletskaya
			{Lat: 55.7570, Lon: 37.6550}, // Kursky rail terminal
			{Lat: 55.7800, Lon: 37.6000}, // VDNKh
			{Lat: 55.7986, Lon: 37.5376}, // Sokol
			{Lat: 55.6700, Lon: 37.5400}, // Yuzhnoye Butovo
			{Lat: 55.8600, Lon: 37.4800}, // Mytishchi
		},
		Landmarks: map[string]string{
			"arbat":        "Moscow, Arbat St",
			"kremlin":      "Moscow, Kremlin",
			"red square":   "Moscow, Red Square",
			"vdnkh":        "Moscow, VDNKh",
			"kitay-gorod":  "Moscow, Kitay-Gorod",
			"tverskaya":    "Moscow, Tverskaya St",
			"lubyanka":     "Moscow, Lubyanka Square",
			"manezhnaya":   "Moscow, Manezhnaya Square",
			"okhotny ryad": "Moscow, Okhotny Ryad",
			"new arbat":    "Moscow, New Arbat Ave",
			"leninsky":     "Moscow, Leninsky Prospekt",
			"kutuzovsky":   "Moscow, Kutuzovsky Prospekt",
			"garden ring":  "Moscow, Garden Ring",
		},
		AddressMarkers: []string{
			"st.", "street", "ave", "avenue", "prospekt", "square", "sq.", "hwy", "embankment",
		},
		MaxAddressTokens: 8,
	}
}

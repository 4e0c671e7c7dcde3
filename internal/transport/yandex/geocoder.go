// Package yandex holds HTTP clients for the Yandex geocoding and vision APIs.
package yandex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/geosnap-io/geosnap/internal/domain"
	"github.com/geosnap-io/geosnap/internal/domain/geo"
	"github.com/geosnap-io/geosnap/internal/metrics"
)

const defaultGeocoderBaseURL = "https://geocode-maps.yandex.ru/1.x/"

// Geocoder resolves addresses via the Yandex Geocoding API.
type Geocoder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// GeocoderConfig holds Geocoder settings.
type GeocoderConfig struct {
	APIKey  string
	BaseURL string        // defaults to the public API endpoint
	Timeout time.Duration // defaults to 10s
}

// NewGeocoder creates a Yandex geocoder client.
func NewGeocoder(cfg GeocoderConfig) *Geocoder {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeocoderBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Geocoder{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type geocodeResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					MetaDataProperty struct {
						GeocoderMetaData struct {
							Text string `json:"text"`
						} `json:"GeocoderMetaData"`
					} `json:"metaDataProperty"`
					Point struct {
						Pos string `json:"pos"` // "lon lat"
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

// Geocode resolves an address to a coordinate.
// Returns domain.ErrAddressNotFound when the API has no match.
func (g *Geocoder) Geocode(ctx context.Context, address string) (geo.Point, error) {
	point, _, err := g.query(ctx, address)
	if err != nil {
		status := "error"
		if errors.Is(err, domain.ErrAddressNotFound) {
			status = "not_found"
		}
		metrics.GeocodeRequestsTotal.WithLabelValues("forward", status).Inc()
		return geo.Point{}, err
	}
	metrics.GeocodeRequestsTotal.WithLabelValues("forward", "ok").Inc()
	return point, nil
}

// Reverse resolves a coordinate to a display address.
// Returns domain.ErrAddressNotFound when the API has no match.
func (g *Geocoder) Reverse(ctx context.Context, p geo.Point) (string, error) {
	// The geocode API takes "lon,lat" for reverse lookups.
	_, text, err := g.query(ctx, fmt.Sprintf("%f,%f", p.Lon, p.Lat))
	if err != nil {
		status := "error"
		if errors.Is(err, domain.ErrAddressNotFound) {
			status = "not_found"
		}
		metrics.GeocodeRequestsTotal.WithLabelValues("reverse", status).Inc()
		return "", err
	}
	metrics.GeocodeRequestsTotal.WithLabelValues("reverse", "ok").Inc()
	return text, nil
}

func (g *Geocoder) query(ctx context.Context, geocode string) (geo.Point, string, error) {
	params := url.Values{}
	params.Set("apikey", g.apiKey)
	params.Set("format", "json")
	params.Set("geocode", geocode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return geo.Point{}, "", fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return geo.Point{}, "", fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Point{}, "", fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var gr geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return geo.Point{}, "", fmt.Errorf("decoding geocode response: %w", err)
	}

	members := gr.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return geo.Point{}, "", domain.ErrAddressNotFound
	}

	obj := members[0].GeoObject
	point, err := parsePos(obj.Point.Pos)
	if err != nil {
		return geo.Point{}, "", err
	}
	return point, obj.MetaDataProperty.GeocoderMetaData.Text, nil
}

// parsePos parses the API's "lon lat" position encoding.
func parsePos(pos string) (geo.Point, error) {
	parts := strings.Fields(pos)
	if len(parts) != 2 {
		return geo.Point{}, fmt.Errorf("malformed position %q", pos)
	}
	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("malformed longitude in %q: %w", pos, err)
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("malformed latitude in %q: %w", pos, err)
	}
	return geo.New(lat, lon)
}

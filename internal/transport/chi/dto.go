package chi

import (
	"time"

	domphoto "github.com/geosnap-io/geosnap/internal/domain/photo"
	domsearch "github.com/geosnap-io/geosnap/internal/domain/search"
	searchuc "github.com/geosnap-io/geosnap/internal/usecase/search"
)

// Machine-readable error codes.
const (
	codeBadRequest         = "bad_request"
	codeInvalidQuery       = "invalid_query"
	codeInvalidImage       = "invalid_image"
	codeUnresolvableOrigin = "unresolvable_origin"
	codeNoResults          = "no_results"
	codePhotoNotFound      = "photo_not_found"
	codeUnauthorized       = "unauthorized"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type photoResponse struct {
	ID               string            `json:"id"`
	Filename         string            `json:"filename"`
	OriginalFilename string            `json:"original_filename"`
	Status           string            `json:"status"`
	Latitude         *float64          `json:"latitude,omitempty"`
	Longitude        *float64          `json:"longitude,omitempty"`
	LocationSource   string            `json:"location_source,omitempty"`
	Address          string            `json:"address,omitempty"`
	Source           string            `json:"source"`
	Confidence       *float64          `json:"confidence,omitempty"`
	Resolution       string            `json:"resolution,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	ProcessedAt      *time.Time        `json:"processed_at,omitempty"`
	DownloadURL      string            `json:"download_url,omitempty"`
}

type photoListResponse struct {
	Items []photoResponse `json:"items"`
	Total int             `json:"total"`
}

// searchRequest is the POST /api/v1/search body. Latitude/longitude and
// address are alternatives; min_score distinguishes "absent" from zero.
type searchRequest struct {
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	Address           string   `json:"address"`
	RadiusKm          float64  `json:"radius_km"`
	TimeIntervalYears int      `json:"time_interval_years"`
	SourceFilter      string   `json:"source_filter"`
	MinScore          *float64 `json:"min_score"`
	SearchPrinciple   string   `json:"search_principle"`
	MaxResults        int      `json:"max_results"`
}

type byCoordinatesRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	RadiusKm  float64  `json:"radius_km"`
}

type originResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

type resultResponse struct {
	Photo      photoResponse `json:"photo"`
	DistanceKm float64       `json:"distance_km"`
}

type resultListResponse struct {
	Items []resultResponse `json:"items"`
	Total int              `json:"total"`
}

type searchResponse struct {
	Origin originResponse   `json:"origin"`
	Items  []resultResponse `json:"items"`
	Total  int              `json:"total"`
}

type historyResponse struct {
	ID           string           `json:"id"`
	QueryType    string           `json:"query_type"`
	Params       domsearch.Params `json:"params"`
	ResultsCount int              `json:"results_count"`
	CreatedAt    time.Time        `json:"created_at"`
}

type historyListResponse struct {
	Items []historyResponse `json:"items"`
	Total int               `json:"total"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func photoToResponse(p domphoto.Photo, downloadURL string) photoResponse {
	resp := photoResponse{
		ID:               p.ID,
		Filename:         p.Filename,
		OriginalFilename: p.OriginalFilename,
		Status:           p.Status,
		LocationSource:   string(p.LocationSource),
		Address:          p.Address,
		Source:           p.Source,
		Confidence:       p.Confidence,
		Resolution:       p.Resolution,
		Metadata:         p.Metadata,
		CreatedAt:        p.CreatedAt,
		ProcessedAt:      p.ProcessedAt,
		DownloadURL:      downloadURL,
	}
	if p.Location != nil {
		lat, lon := p.Location.Lat, p.Location.Lon
		resp.Latitude = &lat
		resp.Longitude = &lon
	}
	return resp
}

func resultToResponse(r *domsearch.Result) resultResponse {
	return resultResponse{
		Photo:      photoToResponse(r.Photo, r.DownloadURL),
		DistanceKm: r.DistanceKm(),
	}
}

func searchToResponse(resp searchuc.Response) searchResponse {
	items := make([]resultResponse, len(resp.Results))
	for i := range resp.Results {
		items[i] = resultToResponse(&resp.Results[i])
	}
	return searchResponse{
		Origin: originResponse{
			Latitude:  resp.Origin.Lat,
			Longitude: resp.Origin.Lon,
			Address:   resp.OriginAddress,
		},
		Items: items,
		Total: len(items),
	}
}

func historyToResponse(e domsearch.HistoryEntry) historyResponse {
	return historyResponse{
		ID:           e.ID,
		QueryType:    e.QueryType,
		Params:       e.Params,
		ResultsCount: e.ResultCount,
		CreatedAt:    e.CreatedAt,
	}
}

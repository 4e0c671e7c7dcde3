package geosnap

import "time"

// Photo is a resolved photo record.
type Photo struct {
	ID               string
	Filename         string
	OriginalFilename string
	Status           string
	Latitude         *float64
	Longitude        *float64
	LocationSource   string
	Address          string
	Source           string
	Confidence       *float64
	Resolution       string
	Metadata         map[string]string
	CreatedAt        time.Time
	ProcessedAt      *time.Time
	DownloadURL      string
}

// SearchRequest holds search parameters. Coordinates and Address are
// alternatives; coordinates win when both are set. Zero values take the
// service defaults (radius 1 km, min score 0.5, radius principle, 20 results).
type SearchRequest struct {
	Latitude          *float64
	Longitude         *float64
	Address           string
	RadiusKm          float64
	TimeIntervalYears int
	SourceFilter      string
	MinScore          *float64
	Principle         string // "radius" or "nearest"
	MaxResults        int
}

// SearchResult is a single search hit.
type SearchResult struct {
	Photo      Photo
	DistanceKm float64
}

// SearchResponse is a completed search with its resolved origin.
type SearchResponse struct {
	Latitude  float64
	Longitude float64
	Address   string
	Results   []SearchResult
}

// HistoryEntry is one recorded search.
type HistoryEntry struct {
	ID           string
	QueryType    string
	Latitude     float64
	Longitude    float64
	Address      string
	RadiusKm     float64
	Principle    string
	ResultsCount int
	CreatedAt    time.Time
}

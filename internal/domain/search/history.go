package search

import "time"

// Query types recorded in history entries.
const (
	QueryTypeCoords  = "coords"
	QueryTypeAddress = "address"
)

// HistoryEntry is a write-once audit record of one successful search.
// Entries are appended only when the search produced at least one result.
type HistoryEntry struct {
	ID          string
	OwnerID     string
	QueryType   string
	Params      Params
	ResultCount int
	CreatedAt   time.Time
}

// Params is the snapshot of the resolved query parameters.
type Params struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	RadiusKm  float64 `json:"radius_km"`
	Principle string  `json:"principle"`
}

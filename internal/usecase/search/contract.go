package search

import (
	"context"

	"github.com/geosnap-io/geosnap/internal/domain/geo"
	domphoto "github.com/geosnap-io/geosnap/internal/domain/photo"
	domsearch "github.com/geosnap-io/geosnap/internal/domain/search"
)

// Repository defines the record store contract for search operations.
// FindFiltered applies only the pushed-down predicates; distance, policy,
// ordering, and the result cap belong to the service.
type Repository interface {
	FindFiltered(ctx context.Context, ownerID string, f domphoto.Filter) ([]domphoto.Photo, error)
}

// HistoryStore records successful searches.
type HistoryStore interface {
	Append(ctx context.Context, e *domsearch.HistoryEntry) error
	List(ctx context.Context, ownerID string) ([]domsearch.HistoryEntry, error)
}

// Geocoder resolves between addresses and coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Point, error)
	Reverse(ctx context.Context, p geo.Point) (string, error)
}

// AddressResolver produces a display address for a coordinate. It never
// fails: without a reverse geocoder it synthesizes a deterministic address.
type AddressResolver interface {
	Resolve(ctx context.Context, p geo.Point) string
}

// URLSigner serves time-limited download URLs for stored blobs.
type URLSigner interface {
	Presign(ctx context.Context, key string) (string, error)
}

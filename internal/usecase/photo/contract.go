package photo

import (
	"context"

	"github.com/geosnap-io/geosnap/internal/domain/geo"
	"github.com/geosnap-io/geosnap/internal/domain/imagemeta"
	"github.com/geosnap-io/geosnap/internal/domain/location"
	domphoto "github.com/geosnap-io/geosnap/internal/domain/photo"
)

// Repository defines the record store contract for photo operations.
type Repository interface {
	Create(ctx context.Context, p *domphoto.Photo) error
	Get(ctx context.Context, ownerID, id string) (domphoto.Photo, error)
	List(ctx context.Context, ownerID string) ([]domphoto.Photo, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// MetadataExtractor reads raw GPS metadata from image bytes. Best-effort:
// an empty map means "nothing usable", never an error.
type MetadataExtractor interface {
	Extract(data []byte) imagemeta.Raw
}

// Resolver produces exactly one location for an image.
type Resolver interface {
	Resolve(ctx context.Context, meta imagemeta.Raw, data []byte) location.Resolved
}

// AddressResolver converts a coordinate into a display address.
type AddressResolver interface {
	Resolve(ctx context.Context, p geo.Point) string
}

// BlobStore stores image bytes and serves download URLs.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Presign(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string) error
}

package geosnap

import "github.com/geosnap-io/geosnap/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrPhotoNotFound      = domain.ErrPhotoNotFound
	ErrInvalidQuery       = domain.ErrInvalidQuery
	ErrUnresolvableOrigin = domain.ErrUnresolvableOrigin
	ErrNoResults          = domain.ErrNoResults
	ErrAddressNotFound    = domain.ErrAddressNotFound
	ErrInvalidImage       = domain.ErrInvalidImage
)

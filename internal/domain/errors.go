package domain

import "errors"

var (
	// ErrPhotoNotFound signals a missing photo record.
	ErrPhotoNotFound = errors.New("photo not found")
	// ErrInvalidQuery signals a malformed search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUnresolvableOrigin signals that the search origin address could not be geocoded.
	ErrUnresolvableOrigin = errors.New("unresolvable origin")
	// ErrNoResults signals a well-formed search that matched nothing.
	// It is a signal, not a failure: the query ran and the filters excluded everything.
	ErrNoResults = errors.New("no results")
	// ErrAddressNotFound signals that a geocoding provider returned no match.
	ErrAddressNotFound = errors.New("address not found")
	// ErrInvalidImage signals an upload that is not a decodable image.
	ErrInvalidImage = errors.New("invalid image")
	// ErrUnauthorized signals a missing or unknown API key.
	ErrUnauthorized = errors.New("unauthorized")
)

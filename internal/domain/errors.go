package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrGeocoding is returned when a destination could not be resolved to
// coordinates and the caller did not supply them. Nothing is persisted.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrGeocoding = errors.New("geocoding failed")

// GeocodingError names the destination that could not be resolved.
// errors.Is(err, ErrGeocoding) reports true for it.
type GeocodingError struct {
	Destination string
}

func (e *GeocodingError) Error() string {
	return fmt.Sprintf("could not find coordinates for %q; enter latitude and longitude manually", e.Destination)
}

// Is lets callers match a GeocodingError against the ErrGeocoding sentinel.
func (e *GeocodingError) Is(target error) bool {
	return target == ErrGeocoding
}

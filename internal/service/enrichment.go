package service

import (
	"context"

	"github.com/pkordes/trip-itinerary/internal/domain"
)

// Resolver turns a destination into coordinates. A false result means the
// destination could not be resolved; the resolver has already logged why.
// *geocode.Nominatim satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, destination string) (domain.Coordinates, bool)
}

// locateNew decides the coordinates of a trip being created.
// Manual coordinates win; otherwise the destination must resolve.
func (s *TripService) locateNew(ctx context.Context, trip domain.Trip) (*domain.Coordinates, error) {
	if trip.Location != nil {
		return trip.Location, nil
	}
	return s.resolve(ctx, trip.Destination)
}

// locateChanged decides the coordinates of a trip after patch is applied.
//   - Both coordinates in the patch: manual override, even if the destination changed.
//   - Destination in the patch: re-resolve it.
//   - Neither: keep what is stored.
func (s *TripService) locateChanged(ctx context.Context, trip domain.Trip, patch domain.TripPatch) (*domain.Coordinates, error) {
	if manual, ok := patch.ManualCoordinates(); ok {
		return &manual, nil
	}
	if patch.Destination != nil {
		return s.resolve(ctx, trip.Destination)
	}
	return trip.Location, nil
}

// resolve looks destination up and converts a miss into a GeocodingError so
// the request is rejected instead of storing a trip without a location.
func (s *TripService) resolve(ctx context.Context, destination string) (*domain.Coordinates, error) {
	coords, ok := s.resolver.Resolve(ctx, destination)
	if !ok {
		return nil, &domain.GeocodingError{Destination: destination}
	}
	return &coords, nil
}

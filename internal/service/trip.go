// Package service contains the business logic for the trip itinerary API.
// Services validate inputs, enforce business rules, and orchestrate repo and
// geocoder calls. No SQL lives here; services depend on interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pkordes/trip-itinerary/internal/domain"
	"github.com/pkordes/trip-itinerary/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	repo     repo.TripRepo
	resolver Resolver
	now      func() time.Time
}

// TripServiceOption customises a TripService.
type TripServiceOption func(*TripService)

// WithClock replaces time.Now as the source of "today" for status filters.
func WithClock(now func() time.Time) TripServiceOption {
	return func(s *TripService) { s.now = now }
}

// NewTripService constructs a TripService backed by the provided repo and
// destination resolver.
func NewTripService(r repo.TripRepo, resolver Resolver, opts ...TripServiceOption) *TripService {
	s := &TripService{repo: r, resolver: resolver, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates a new trip, settles its coordinates, then persists it.
// A non-nil trip.Location is taken as manually supplied coordinates.
// Returns domain.ErrValidation for invalid input and a *domain.GeocodingError
// when the destination cannot be resolved; nothing is stored in either case.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip.Destination = strings.TrimSpace(trip.Destination)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	loc, err := s.locateNew(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	trip.Location = loc

	result, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
// Returns domain.ErrNotFound if it does not exist.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of trips matching filter and the total match count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, int64, error) {
	now := s.now().UTC()
	filter.Today = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	trips, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update applies a partial update to an existing trip.
// Returns domain.ErrNotFound if the trip does not exist, domain.ErrValidation
// if the merged trip is invalid, and a *domain.GeocodingError if a changed
// destination cannot be resolved. The stored trip is unchanged on any error.
// The merge runs against the locked row, so two concurrent patches of the
// same trip both survive.
func (s *TripService) Update(ctx context.Context, patch domain.TripPatch) (domain.Trip, error) {
	result, err := s.repo.Modify(ctx, patch.ID, func(current domain.Trip) (domain.Trip, error) {
		trip := patch.Apply(current)
		trip.Destination = strings.TrimSpace(trip.Destination)
		if manual, ok := patch.ManualCoordinates(); ok {
			trip.Location = &manual
		}
		if err := validateTrip(trip); err != nil {
			return domain.Trip{}, err
		}

		loc, err := s.locateChanged(ctx, trip, patch)
		if err != nil {
			return domain.Trip{}, err
		}
		trip.Location = loc
		return trip, nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by ID.
// Returns domain.ErrNotFound if it does not exist, including when it was
// already deleted.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// validateTrip enforces business rules common to both Create and Update.
//   - Destination must be non-empty (whitespace-only is rejected).
//   - Start and end dates are required and end must not be before start.
//   - Notes are limited to domain.MaxNotesLength characters.
//   - Coordinates, when present, must be within geographic range.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Destination) == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if trip.StartDate.IsZero() {
		return fmt.Errorf("%w: start_date is required", domain.ErrValidation)
	}
	if trip.EndDate.IsZero() {
		return fmt.Errorf("%w: end_date is required", domain.ErrValidation)
	}
	if trip.EndDate.Before(trip.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	if utf8.RuneCountInString(trip.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes cannot exceed %d characters", domain.ErrValidation, domain.MaxNotesLength)
	}
	if trip.Location != nil && !trip.Location.Valid() {
		return fmt.Errorf("%w: latitude must be within [-90, 90] and longitude within [-180, 180]", domain.ErrValidation)
	}
	return nil
}

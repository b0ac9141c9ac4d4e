// Package domain contains the core data types for the trip itinerary API.
// This package only depends on uuid and is imported by every other
// internal package (geocode, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxNotesLength is the maximum number of characters allowed in Trip.Notes.
const MaxNotesLength = 500

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both values are inside their geographic ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Trip is a single itinerary entry: where the traveller goes and when.
// Location is nil until coordinates are supplied manually or resolved
// from the destination.
type Trip struct {
	ID          uuid.UUID    `json:"id"`
	Destination string       `json:"destination"`
	StartDate   time.Time    `json:"start_date"`
	EndDate     time.Time    `json:"end_date"`
	Notes       string       `json:"notes,omitempty"`
	Location    *Coordinates `json:"location,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TripPatch carries the fields present in an update payload.
// A nil field was absent from the payload and leaves the stored value alone.
type TripPatch struct {
	ID          uuid.UUID
	Destination *string
	StartDate   *time.Time
	EndDate     *time.Time
	Notes       *string
	Latitude    *float64
	Longitude   *float64
}

// ManualCoordinates returns the caller-supplied coordinates when both
// latitude and longitude are present. A lone latitude or longitude counts
// as absent.
func (p TripPatch) ManualCoordinates() (Coordinates, bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return Coordinates{}, false
	}
	return Coordinates{Latitude: *p.Latitude, Longitude: *p.Longitude}, true
}

// Apply returns a copy of t with every present patch field written over it.
// Coordinates are not touched; deciding them is the enrichment policy's job.
func (p TripPatch) Apply(t Trip) Trip {
	if p.Destination != nil {
		t.Destination = *p.Destination
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	return t
}

package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Trip is the JSON representation of a trip.
// Latitude and Longitude are omitted when the trip has no location.
type Trip struct {
	ID          openapi_types.UUID `json:"id"`
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	Notes       *string            `json:"notes,omitempty"`
	Latitude    *float64           `json:"latitude,omitempty"`
	Longitude   *float64           `json:"longitude,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// CreateTripRequest is the body of POST /trips.
// Supplying both latitude and longitude skips geocoding.
type CreateTripRequest struct {
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	Notes       *string            `json:"notes,omitempty"`
	Latitude    *float64           `json:"latitude,omitempty"`
	Longitude   *float64           `json:"longitude,omitempty"`
}

// UpdateTripRequest is the body of PUT /trips/{id}. Every field is optional;
// omitted fields keep their stored value.
type UpdateTripRequest struct {
	Destination *string             `json:"destination,omitempty"`
	StartDate   *openapi_types.Date `json:"start_date,omitempty"`
	EndDate     *openapi_types.Date `json:"end_date,omitempty"`
	Notes       *string             `json:"notes,omitempty"`
	Latitude    *float64            `json:"latitude,omitempty"`
	Longitude   *float64            `json:"longitude,omitempty"`
}

// ListTripsParams are the query parameters of GET /trips.
type ListTripsParams struct {
	Page   *int    `form:"page,omitempty"`
	Limit  *int    `form:"limit,omitempty"`
	Status *string `form:"status,omitempty"`
	Sort   *string `form:"sort,omitempty"`
	Q      *string `form:"q,omitempty"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// TripList is the body of GET /trips.
type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// TripStatus narrows a trip listing by where the trip sits relative to today.
type TripStatus string

const (
	TripStatusAll      TripStatus = "all"
	TripStatusUpcoming TripStatus = "upcoming" // end date today or later
	TripStatusPast     TripStatus = "past"     // end date before today
)

// SortOrder is the direction trips are ordered by start date.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TripFilter describes a trip listing query.
// Today is the reference date for Status; the service fills it in.
type TripFilter struct {
	Status TripStatus
	Sort   SortOrder
	Search string
	Today  time.Time
	PaginationParams
}

// NewTripFilter builds a TripFilter from optional HTTP query params.
// Nil pointers fall back to status=all and sort=asc. Unknown values are a
// validation error so a typo does not silently return everything.
func NewTripFilter(status, sort, search *string, page, limit *int) (TripFilter, error) {
	f := TripFilter{
		Status:           TripStatusAll,
		Sort:             SortAsc,
		PaginationParams: NewPaginationParams(page, limit),
	}
	if status != nil && *status != "" {
		switch s := TripStatus(strings.ToLower(*status)); s {
		case TripStatusAll, TripStatusUpcoming, TripStatusPast:
			f.Status = s
		default:
			return TripFilter{}, fmt.Errorf("%w: status must be one of all, upcoming, past", ErrValidation)
		}
	}
	if sort != nil && *sort != "" {
		switch o := SortOrder(strings.ToLower(*sort)); o {
		case SortAsc, SortDesc:
			f.Sort = o
		default:
			return TripFilter{}, fmt.Errorf("%w: sort must be asc or desc", ErrValidation)
		}
	}
	if search != nil {
		f.Search = strings.TrimSpace(*search)
	}
	return f, nil
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-itinerary/internal/domain"
)

const tripNotFound = "trip not found"

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body CreateTripRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeDecodeError(w, r, err)
		return
	}

	created, err := s.trips.Create(r.Context(), requestToTrip(body))
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100),
// ?status=all|upcoming|past, ?sort=asc|desc by start date, and ?q= to
// search destinations.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params, err := bindListParams(r)
	if err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	filter, err := domain.NewTripFilter(params.Status, params.Sort, params.Q, params.Page, params.Limit)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	trips, total, err := s.trips.List(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	s.writeJSON(w, r, http.StatusOK, TripList{
		Data: data,
		Pagination: Pagination{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: int(total),
		},
	})
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := bindTripID(r)
	if err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	s.writeJSON(w, r, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{id}. The body is a partial update.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := bindTripID(r)
	if err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	var body UpdateTripRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeDecodeError(w, r, err)
		return
	}

	updated, err := s.trips.Update(r.Context(), requestToTripPatch(id, body))
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	s.writeJSON(w, r, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := bindTripID(r)
	if err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- binding helpers --------------------------------------------------------

// bindTripID parses the {id} path parameter as a UUID.
func bindTripID(r *http.Request) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return openapi_types.UUID{}, fmt.Errorf("invalid format for parameter id: %w", err)
	}
	return id, nil
}

// bindListParams reads the optional query parameters of GET /trips.
func bindListParams(r *http.Request) (ListTripsParams, error) {
	var params ListTripsParams
	query := r.URL.Query()
	for name, dest := range map[string]any{
		"page":   &params.Page,
		"limit":  &params.Limit,
		"status": &params.Status,
		"sort":   &params.Sort,
		"q":      &params.Q,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			return ListTripsParams{}, fmt.Errorf("invalid format for parameter %s: %w", name, err)
		}
	}
	return params, nil
}

var errMissingBody = errors.New("request body is required")

// decodeBody decodes a single JSON object from the request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errMissingBody
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errMissingBody
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// --- mapping helpers --------------------------------------------------------

// requestToTrip converts a CreateTripRequest body into a domain.Trip.
// Location is set only when both coordinates are present.
func requestToTrip(body CreateTripRequest) domain.Trip {
	t := domain.Trip{
		Destination: body.Destination,
		StartDate:   body.StartDate.Time,
		EndDate:     body.EndDate.Time,
	}
	if body.Notes != nil {
		t.Notes = *body.Notes
	}
	if body.Latitude != nil && body.Longitude != nil {
		t.Location = &domain.Coordinates{Latitude: *body.Latitude, Longitude: *body.Longitude}
	}
	return t
}

// requestToTripPatch builds a domain.TripPatch for an update, preserving the path ID.
func requestToTripPatch(id openapi_types.UUID, body UpdateTripRequest) domain.TripPatch {
	p := domain.TripPatch{
		ID:          id,
		Destination: body.Destination,
		Notes:       body.Notes,
		Latitude:    body.Latitude,
		Longitude:   body.Longitude,
	}
	if body.StartDate != nil {
		sd := body.StartDate.Time
		p.StartDate = &sd
	}
	if body.EndDate != nil {
		ed := body.EndDate.Time
		p.EndDate = &ed
	}
	return p
}

// tripToResponse converts a domain.Trip into its JSON representation.
func tripToResponse(t domain.Trip) Trip {
	resp := Trip{
		ID:          t.ID,
		Destination: t.Destination,
		StartDate:   openapi_types.Date{Time: t.StartDate},
		EndDate:     openapi_types.Date{Time: t.EndDate},
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Notes != "" {
		resp.Notes = &t.Notes
	}
	if t.Location != nil {
		lat, lon := t.Location.Latitude, t.Location.Longitude
		resp.Latitude = &lat
		resp.Longitude = &lon
	}
	return resp
}

// Package handler implements the HTTP handlers for the trip itinerary API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go) but all share the same Server struct so they can
// access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-itinerary/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database, geocoder, or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, int64, error)
	Update(ctx context.Context, patch domain.TripPatch) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Server serves every API endpoint.
type Server struct {
	trips TripServicer
	log   *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(trips TripServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trips: trips, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil)
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Get("/trips", s.ListTrips)
	r.Post("/trips", s.CreateTrip)
	r.Get("/trips/{id}", s.GetTrip)
	r.Put("/trips/{id}", s.UpdateTrip)
	r.Delete("/trips/{id}", s.DeleteTrip)
}

// Handler returns a chi router serving every endpoint.
// main.go mounts it behind the shared middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}

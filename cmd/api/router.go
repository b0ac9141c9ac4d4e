package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/trip-itinerary/internal/config"
	"github.com/pkordes/trip-itinerary/internal/handler"
	"github.com/pkordes/trip-itinerary/internal/middleware"
)

// newRouter assembles the middleware stack and mounts every endpoint.
//
// Middleware is applied in order: RequestID → echo ID → RealIP → Logger → Recoverer → CORS → body limit.
// RequestID generates a unique trace ID per request; it is echoed before any
// middleware that may answer on its own (413, CORS preflight).
// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
// SlogLogger writes one structured JSON log line per request.
// Recoverer catches panics and returns HTTP 500 instead of crashing.
func newRouter(cfg config.Config, logger *slog.Logger, trips handler.TripServicer, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(exposeRequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	handler.NewServer(trips, logger).Routes(r)

	return r
}

// exposeRequestID echoes chi's request ID so clients can quote it in reports.
func exposeRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimiddleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(chimiddleware.RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}

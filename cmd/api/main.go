// Package main is the entry point for the Trip Itinerary API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pkordes/trip-itinerary/internal/config"
	"github.com/pkordes/trip-itinerary/internal/geocode"
	"github.com/pkordes/trip-itinerary/internal/logging"
	"github.com/pkordes/trip-itinerary/internal/repo"
	"github.com/pkordes/trip-itinerary/internal/service"
)

func main() {
	// --- Config -----------------------------------------------------------
	// A missing .env is normal in containers; real env vars still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger, logCloser := logging.New(cfg.LogLevel, cfg.LogFile)
	defer logCloser.Close()
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Metrics ----------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// --- Services ---------------------------------------------------------
	resolver := geocode.NewNominatim(cfg.Geocoder,
		geocode.WithLogger(logger),
		geocode.WithMetrics(geocode.NewMetrics(reg)),
	)
	trips := service.NewTripService(repo.NewTripRepo(pool), resolver)
	slog.Info("geocoder configured",
		"url", cfg.Geocoder.BaseURL,
		"timeout", cfg.Geocoder.Timeout.String(),
		"max_retries", cfg.Geocoder.MaxRetries,
	)

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// WriteTimeout leaves room for a geocoder attempt plus its retry.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, logger, trips, reg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2*cfg.Geocoder.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

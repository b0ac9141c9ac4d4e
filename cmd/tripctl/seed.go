package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/trip-itinerary/internal/domain"
	"github.com/pkordes/trip-itinerary/internal/geocode"
	"github.com/pkordes/trip-itinerary/internal/repo"
	"github.com/pkordes/trip-itinerary/internal/service"
)

// sampleTrips is the demo itinerary loaded by `tripctl seed`.
var sampleTrips = []domain.Trip{
	{Destination: "Amsterdam", StartDate: day(2025, 9, 15), EndDate: day(2025, 9, 20), Notes: "Vacation"},
	{Destination: "Barcelona", StartDate: day(2025, 10, 5), EndDate: day(2025, 10, 12), Notes: "Vacation to recharge"},
	{Destination: "Tokyo", StartDate: day(2026, 1, 10), EndDate: day(2026, 1, 25), Notes: "Dream trip"},
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// tripCreator is the slice of service.TripService that seeding needs.
type tripCreator interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
}

func newSeedCmd(e *env) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample trips, geocoding each destination",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			pool, err := e.openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if reset {
				tag, err := pool.Exec(ctx, `DELETE FROM trips`)
				if err != nil {
					return fmt.Errorf("clear trips: %w", err)
				}
				e.log.Info("cleared old trips", "deleted", tag.RowsAffected())
			}

			resolver := geocode.NewNominatim(e.cfg.Geocoder, geocode.WithLogger(e.log))
			svc := service.NewTripService(repo.NewTripRepo(pool), resolver)
			created, err := seedTrips(ctx, svc, sampleTrips, e.log)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "seeded %d of %d trips\n", created, len(sampleTrips))
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "delete every existing trip first")
	return cmd
}

// seedTrips creates each trip through svc so it gets coordinates like any
// API-created trip. A destination the geocoder cannot place is logged and
// skipped; any other error stops the run.
func seedTrips(ctx context.Context, svc tripCreator, trips []domain.Trip, log *slog.Logger) (int, error) {
	created := 0
	for _, t := range trips {
		got, err := svc.Create(ctx, t)
		switch {
		case errors.Is(err, domain.ErrGeocoding):
			log.WarnContext(ctx, "skipping trip", "destination", t.Destination, "error", err)
			continue
		case err != nil:
			return created, fmt.Errorf("seed %q: %w", t.Destination, err)
		}
		created++
		attrs := []any{"id", got.ID, "destination", got.Destination}
		if got.Location != nil {
			attrs = append(attrs, "latitude", got.Location.Latitude, "longitude", got.Location.Longitude)
		}
		log.InfoContext(ctx, "trip seeded", attrs...)
	}
	return created, nil
}

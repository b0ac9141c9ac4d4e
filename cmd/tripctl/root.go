package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-itinerary/internal/config"
	"github.com/pkordes/trip-itinerary/internal/logging"
)

// env is what every subcommand needs once PersistentPreRunE has run.
type env struct {
	cfg    config.Config
	log    *slog.Logger
	closer io.Closer
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:          "tripctl",
		Short:        "Operator tasks for the trip itinerary database",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("read .env: %w", err)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.log, e.closer = logging.New(cfg.LogLevel, cfg.LogFile)
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if e.closer != nil {
				return e.closer.Close()
			}
			return nil
		},
	}

	root.AddCommand(newMigrateCmd(e), newSeedCmd(e))
	return root
}

// openPool connects to DATABASE_URL and verifies the connection.
func (e *env) openPool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, e.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}

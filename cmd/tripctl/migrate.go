package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-itinerary/migrations"
)

func newMigrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the embedded schema migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return e.withMigrator(c.Context(), func(ctx context.Context, p *goose.Provider) error {
					results, err := p.Up(ctx)
					for _, r := range results {
						e.log.Info("migration applied", "version", r.Source.Version, "duration_ms", r.Duration.Milliseconds())
					}
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return e.withMigrator(c.Context(), func(ctx context.Context, p *goose.Provider) error {
					r, err := p.Down(ctx)
					if r != nil {
						e.log.Info("migration rolled back", "version", r.Source.Version)
					}
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the state of every migration",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return e.withMigrator(c.Context(), func(ctx context.Context, p *goose.Provider) error {
					statuses, err := p.Status(ctx)
					if err != nil {
						return err
					}
					return printStatus(c.OutOrStdout(), statuses)
				})
			},
		},
	)
	return cmd
}

// withMigrator opens a database/sql handle for goose and runs fn with a
// provider over the embedded migrations.
func (e *env) withMigrator(ctx context.Context, fn func(context.Context, *goose.Provider) error) error {
	db, err := sql.Open("pgx", e.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	return fn(ctx, provider)
}

func printStatus(w io.Writer, statuses []*goose.MigrationStatus) error {
	for _, s := range statuses {
		applied := "pending"
		if s.State == goose.StateApplied {
			applied = s.AppliedAt.Format("2006-01-02 15:04:05")
		}
		if _, err := fmt.Fprintf(w, "%-6d %-30s %s\n", s.Source.Version, applied, s.Source.Path); err != nil {
			return err
		}
	}
	return nil
}

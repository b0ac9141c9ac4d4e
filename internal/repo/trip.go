// Package repo contains all database access logic for the trip itinerary API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-itinerary/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a fake.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with DB-generated
	// id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns one page of trips matching filter, plus the total number
	// of matching trips across all pages.
	List(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of an existing trip, coordinates
	// included, and returns the updated record.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Modify locks the trip row, passes the stored trip to fn and writes fn's
	// result back in the same transaction, so concurrent partial updates of one
	// trip are applied one after the other. An error from fn rolls back and is
	// returned as is. Returns domain.ErrNotFound, without calling fn, if no
	// trip with that ID exists.
	Modify(ctx context.Context, id uuid.UUID, fn func(current domain.Trip) (domain.Trip, error)) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

const tripColumns = `id, destination, start_date, end_date, notes, latitude, longitude, created_at, updated_at`

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (destination, start_date, end_date, notes, latitude, longitude)
		VALUES (@destination, @start_date, @end_date, @notes, @latitude, @longitude)
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, tripArgs(trip))
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns the requested page of trips ordered by start_date, with id as
// a tie-breaker so pages are stable.
func (r *pgTripRepo) List(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, int64, error) {
	where, args := tripFilterClause(filter)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trips`+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: count: %w", err)
	}

	dir := "ASC"
	if filter.Sort == domain.SortDesc {
		dir = "DESC"
	}
	args["limit"] = filter.Limit
	args["offset"] = filter.Offset()
	q := `SELECT ` + tripColumns + ` FROM trips` + where +
		` ORDER BY start_date ` + dir + `, id ` + dir +
		` LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}

	return trips, total, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET destination = @destination,
		    start_date  = @start_date,
		    end_date    = @end_date,
		    notes       = @notes,
		    latitude    = @latitude,
		    longitude   = @longitude,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := tripArgs(trip)
	args["id"] = trip.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// Modify runs fn against the row locked with SELECT ... FOR UPDATE.
// Inside a pgx.Tx (integration tests) Begin opens a savepoint instead.
func (r *pgTripRepo) Modify(ctx context.Context, id uuid.UUID, fn func(domain.Trip) (domain.Trip, error)) (domain.Trip, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Modify: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id FOR UPDATE`
	current, err := scanTrip(tx.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Modify: %w", err)
	}

	next, err := fn(current)
	if err != nil {
		return domain.Trip{}, err
	}
	next.ID = id

	result, err := (&pgTripRepo{db: tx}).Update(ctx, next)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Modify: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Modify: commit: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// tripArgs maps the writable columns of trip to named query arguments.
// A nil Location becomes NULL in both coordinate columns.
func tripArgs(trip domain.Trip) pgx.NamedArgs {
	var lat, lon *float64
	if trip.Location != nil {
		lat, lon = &trip.Location.Latitude, &trip.Location.Longitude
	}
	return pgx.NamedArgs{
		"destination": trip.Destination,
		"start_date":  trip.StartDate,
		"end_date":    trip.EndDate,
		"notes":       trip.Notes,
		"latitude":    lat,
		"longitude":   lon,
	}
}

// tripFilterClause renders the WHERE clause for filter. Pagination and
// ordering are left to the caller.
func tripFilterClause(filter domain.TripFilter) (string, pgx.NamedArgs) {
	var conds []string
	args := pgx.NamedArgs{}

	switch filter.Status {
	case domain.TripStatusPast:
		conds = append(conds, "end_date < @today")
		args["today"] = filter.Today
	case domain.TripStatusUpcoming:
		conds = append(conds, "end_date >= @today")
		args["today"] = filter.Today
	}
	if filter.Search != "" {
		conds = append(conds, `destination ILIKE '%' || @search || '%' ESCAPE '\'`)
		args["search"] = escapeLike(filter.Search)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID, date, and nullable coordinate conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
		lat, lon  pgtype.Float8
	)

	err := s.Scan(&id, &t.Destination, &startDate, &endDate, &t.Notes, &lat, &lon, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.StartDate = startDate.Time
	t.EndDate = endDate.Time
	if lat.Valid && lon.Valid {
		t.Location = &domain.Coordinates{Latitude: lat.Float64, Longitude: lon.Float64}
	}

	return t, nil
}

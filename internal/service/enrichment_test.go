package service_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-itinerary/internal/domain"
	"github.com/pkordes/trip-itinerary/internal/repo"
	"github.com/pkordes/trip-itinerary/internal/service"
)

// memTripRepo is an in-memory repo.TripRepo so scenarios can observe what was
// actually stored across several service calls.
type memTripRepo struct {
	mu    sync.Mutex
	trips map[uuid.UUID]domain.Trip
}

func newMemTripRepo() *memTripRepo {
	return &memTripRepo{trips: make(map[uuid.UUID]domain.Trip)}
}

var _ repo.TripRepo = (*memTripRepo)(nil)

func (m *memTripRepo) Create(_ context.Context, t domain.Trip) (domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	m.trips[t.ID] = t
	return t, nil
}

func (m *memTripRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	return t, nil
}

func (m *memTripRepo) List(_ context.Context, _ domain.TripFilter) ([]domain.Trip, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Trip, 0, len(m.trips))
	for _, t := range m.trips {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, int64(len(out)), nil
}

func (m *memTripRepo) Update(_ context.Context, t domain.Trip) (domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[t.ID]; !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	t.UpdatedAt = time.Now()
	m.trips[t.ID] = t
	return t, nil
}

// Modify holds the repo lock while fn runs, like the row lock in Postgres.
func (m *memTripRepo) Modify(_ context.Context, id uuid.UUID, fn func(domain.Trip) (domain.Trip, error)) (domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	next, err := fn(current)
	if err != nil {
		return domain.Trip{}, err
	}
	next.ID = id
	next.UpdatedAt = time.Now()
	m.trips[id] = next
	return next, nil
}

func (m *memTripRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.trips, id)
	return nil
}

func (m *memTripRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.trips)
}

// storedTrip seeds r with a Paris trip located at (48.85, 2.35).
func storedTrip(t *testing.T, r *memTripRepo) domain.Trip {
	t.Helper()
	trip := validTrip()
	trip.Location = &domain.Coordinates{Latitude: 48.85, Longitude: 2.35}
	created, err := r.Create(context.Background(), trip)
	require.NoError(t, err)
	return created
}

// ---- enrichment through the service ----------------------------------------

func TestEnrichment_CreateResolvesCoordinates(t *testing.T) {
	r := newMemTripRepo()
	svc := service.NewTripService(r, resolvesTo(48.85, 2.35))

	created, err := svc.Create(context.Background(), domain.Trip{
		Destination: "Paris",
		StartDate:   date(2025, 6, 1),
		EndDate:     date(2025, 6, 5),
	})
	require.NoError(t, err)

	stored, err := r.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Location)
	assert.Equal(t, domain.Coordinates{Latitude: 48.85, Longitude: 2.35}, *stored.Location)
}

// shortResolver mimics the real resolver's length rule so the scenario does
// not depend on network access.
type shortResolver struct{ stubResolver }

func (r *shortResolver) Resolve(ctx context.Context, destination string) (domain.Coordinates, bool) {
	if len([]rune(destination)) <= 2 {
		r.calls = append(r.calls, destination)
		return domain.Coordinates{}, false
	}
	return r.stubResolver.Resolve(ctx, destination)
}

func TestEnrichment_CreateShortDestinationRejected(t *testing.T) {
	r := newMemTripRepo()
	resolver := &shortResolver{stubResolver: *resolvesTo(1, 1)}
	svc := service.NewTripService(r, resolver)

	trip := validTrip()
	trip.Destination = "Zz"
	_, err := svc.Create(context.Background(), trip)

	assert.ErrorIs(t, err, domain.ErrGeocoding)
	assert.Zero(t, r.count(), "nothing persisted")
}

func TestEnrichment_UpdateDestinationResolutionFailsLeavesTripUnchanged(t *testing.T) {
	r := newMemTripRepo()
	before := storedTrip(t, r)
	svc := service.NewTripService(r, failingResolver())

	_, err := svc.Update(context.Background(), domain.TripPatch{
		ID:          before.ID,
		Destination: ptr("Atlantis"),
	})

	assert.ErrorIs(t, err, domain.ErrGeocoding)
	after, err := r.GetByID(context.Background(), before.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEnrichment_UpdateManualCoordinatesOverrideDestination(t *testing.T) {
	r := newMemTripRepo()
	before := storedTrip(t, r)
	resolver := resolvesTo(35.68, 139.69)
	svc := service.NewTripService(r, resolver)

	_, err := svc.Update(context.Background(), domain.TripPatch{
		ID:          before.ID,
		Destination: ptr("Tokyo"),
		Latitude:    ptr(10.0),
		Longitude:   ptr(20.0),
	})
	require.NoError(t, err)

	after, err := r.GetByID(context.Background(), before.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", after.Destination)
	assert.Equal(t, domain.Coordinates{Latitude: 10, Longitude: 20}, *after.Location)
	assert.Empty(t, resolver.calls)
}

// ---- update policy branches ------------------------------------------------

func TestTripService_Update_DestinationReResolved(t *testing.T) {
	r := newMemTripRepo()
	before := storedTrip(t, r)
	resolver := resolvesTo(35.68, 139.69)
	svc := service.NewTripService(r, resolver)

	got, err := svc.Update(context.Background(), domain.TripPatch{
		ID:          before.ID,
		Destination: ptr(" Tokyo "),
		Notes:       ptr("ramen"),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Tokyo"}, resolver.calls)
	assert.Equal(t, "Tokyo", got.Destination)
	assert.Equal(t, "ramen", got.Notes)
	assert.Equal(t, domain.Coordinates{Latitude: 35.68, Longitude: 139.69}, *got.Location)
}

func TestTripService_Update_NoDestinationKeepsCoordinates(t *testing.T) {
	r := newMemTripRepo()
	before := storedTrip(t, r)
	resolver := resolvesTo(0, 0)
	svc := service.NewTripService(r, resolver)

	got, err := svc.Update(context.Background(), domain.TripPatch{
		ID:      before.ID,
		EndDate: ptr(date(2025, 6, 10)),
	})

	require.NoError(t, err)
	assert.Empty(t, resolver.calls)
	assert.Equal(t, before.Location, got.Location)
	assert.Equal(t, date(2025, 6, 10), got.EndDate)
}

func TestTripService_Update_SingleCoordinateIsNotAnOverride(t *testing.T) {
	r := newMemTripRepo()
	before := storedTrip(t, r)
	resolver := resolvesTo(0, 0)
	svc := service.NewTripService(r, resolver)

	got, err := svc.Update(context.Background(), domain.TripPatch{
		ID:       before.ID,
		Latitude: ptr(10.0),
	})

	require.NoError(t, err)
	assert.Empty(t, resolver.calls)
	assert.Equal(t, before.Location, got.Location)
}

func TestTripService_Update_ValidatesMergedTrip(t *testing.T) {
	r := newMemTripRepo()
	before := storedTrip(t, r)
	resolver := resolvesTo(0, 0)
	svc := service.NewTripService(r, resolver)

	// Only the end date is sent, but it falls before the stored start date.
	_, err := svc.Update(context.Background(), domain.TripPatch{
		ID:          before.ID,
		Destination: ptr("Lyon"),
		EndDate:     ptr(date(2025, 5, 1)),
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, resolver.calls)
}

func TestTripService_Update_ManualCoordinatesOutOfRange(t *testing.T) {
	r := newMemTripRepo()
	before := storedTrip(t, r)
	svc := service.NewTripService(r, resolvesTo(0, 0))

	_, err := svc.Update(context.Background(), domain.TripPatch{
		ID:        before.ID,
		Latitude:  ptr(10.0),
		Longitude: ptr(200.0),
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Update_NotFound(t *testing.T) {
	resolver := resolvesTo(0, 0)
	svc := service.NewTripService(newMemTripRepo(), resolver)

	_, err := svc.Update(context.Background(), domain.TripPatch{
		ID:          uuid.New(),
		Destination: ptr("Lyon"),
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, resolver.calls)
}

func TestTripService_Delete_Twice(t *testing.T) {
	r := newMemTripRepo()
	trip := storedTrip(t, r)
	svc := service.NewTripService(r, failingResolver())

	require.NoError(t, svc.Delete(context.Background(), trip.ID))

	first := svc.Delete(context.Background(), trip.ID)
	second := svc.Delete(context.Background(), trip.ID)

	assert.ErrorIs(t, first, domain.ErrNotFound)
	assert.ErrorIs(t, second, domain.ErrNotFound)
	assert.Equal(t, first.Error(), second.Error())
}

func TestTripService_ConcurrentCreates(t *testing.T) {
	r := newMemTripRepo()
	svc := service.NewTripService(r, &concurrentResolver{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), validTrip())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, r.count())
}

// gatedResolver signals when a lookup starts and blocks until released.
type gatedResolver struct {
	started chan struct{}
	release chan struct{}
}

func (g *gatedResolver) Resolve(context.Context, string) (domain.Coordinates, bool) {
	close(g.started)
	<-g.release
	return domain.Coordinates{Latitude: 35.68, Longitude: 139.69}, true
}

func TestTripService_Update_ConcurrentPatchesBothApplied(t *testing.T) {
	r := newMemTripRepo()
	before := storedTrip(t, r)
	resolver := &gatedResolver{started: make(chan struct{}), release: make(chan struct{})}
	svc := service.NewTripService(r, resolver)

	slow := make(chan error, 1)
	go func() {
		_, err := svc.Update(context.Background(), domain.TripPatch{ID: before.ID, Destination: ptr("Tokyo")})
		slow <- err
	}()
	<-resolver.started

	// The notes patch arrives while the destination patch is still resolving.
	fast := make(chan error, 1)
	go func() {
		_, err := svc.Update(context.Background(), domain.TripPatch{ID: before.ID, Notes: ptr("ramen")})
		fast <- err
	}()
	close(resolver.release)

	require.NoError(t, <-slow)
	require.NoError(t, <-fast)

	after, err := r.GetByID(context.Background(), before.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", after.Destination)
	assert.Equal(t, "ramen", after.Notes)
	assert.Equal(t, domain.Coordinates{Latitude: 35.68, Longitude: 139.69}, *after.Location)
}

// concurrentResolver is safe for use from many goroutines, unlike stubResolver.
type concurrentResolver struct{}

func (concurrentResolver) Resolve(context.Context, string) (domain.Coordinates, bool) {
	return domain.Coordinates{Latitude: 1, Longitude: 2}, true
}

package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-itinerary/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestNewTripFilter_Defaults(t *testing.T) {
	f, err := domain.NewTripFilter(nil, nil, nil, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.TripStatusAll, f.Status)
	assert.Equal(t, domain.SortAsc, f.Sort)
	assert.Empty(t, f.Search)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, domain.DefaultPageLimit, f.Limit)
}

func TestNewTripFilter_Overrides(t *testing.T) {
	f, err := domain.NewTripFilter(ptr("PAST"), ptr("desc"), ptr("  paris "), ptr(3), ptr(10))

	require.NoError(t, err)
	assert.Equal(t, domain.TripStatusPast, f.Status)
	assert.Equal(t, domain.SortDesc, f.Sort)
	assert.Equal(t, "paris", f.Search)
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 20, f.Offset())
}

func TestNewTripFilter_UnknownStatus(t *testing.T) {
	_, err := domain.NewTripFilter(ptr("someday"), nil, nil, nil, nil)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewTripFilter_UnknownSort(t *testing.T) {
	_, err := domain.NewTripFilter(nil, ptr("sideways"), nil, nil, nil)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewPaginationParams(t *testing.T) {
	tests := []struct {
		name        string
		page, limit *int
		want        domain.PaginationParams
	}{
		{"defaults", nil, nil, domain.PaginationParams{Page: 1, Limit: 20}},
		{"non-positive ignored", ptr(0), ptr(-5), domain.PaginationParams{Page: 1, Limit: 20}},
		{"limit clamped", ptr(2), ptr(500), domain.PaginationParams{Page: 2, Limit: 100}},
		{"page clamped", ptr(math.MaxInt), ptr(100), domain.PaginationParams{Page: domain.MaxPage, Limit: 100}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.NewPaginationParams(tc.page, tc.limit)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got.Offset(), 0)
		})
	}
}

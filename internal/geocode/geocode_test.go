package geocode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/trip-itinerary/internal/geocode"
)

func TestDisplayNameContains(t *testing.T) {
	tests := []struct {
		query, displayName string
		want               bool
	}{
		{"Paris", "Paris, Île-de-France, France", true},
		{"paris", "PARIS, France", true},
		{"São Paulo", "SÃO PAULO, Região Sudeste, Brasil", true},
		// Translated names are rejected.
		{"Köln", "Cologne, North Rhine-Westphalia, Germany", false},
		// Substring collisions are accepted.
		{"Paris", "Parish of Saint Andrew, Jamaica", true},
		{"Tokyo", "東京都, 日本", false},
	}
	for _, tc := range tests {
		t.Run(tc.query+"/"+tc.displayName, func(t *testing.T) {
			assert.Equal(t, tc.want, geocode.DisplayNameContains(tc.query, tc.displayName))
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := geocode.DefaultConfig()

	assert.Equal(t, "https://nominatim.openstreetmap.org/search", cfg.BaseURL)
	assert.NotEmpty(t, cfg.UserAgent)
	assert.Positive(t, cfg.Timeout)
	assert.EqualValues(t, 1, cfg.MaxRetries)
}

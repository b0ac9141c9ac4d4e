// Package geocode resolves free-text destinations to coordinates using an
// external place-search service.
//
// Resolution never returns an error to the caller: every failure (no match,
// irrelevant match, transport or decode error) is logged and reported as a
// false "found" result, so callers only decide what a miss means for them.
package geocode

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// MinQueryLength is the shortest destination that is ever looked up.
// Shorter inputs fail without contacting the provider.
const MinQueryLength = 3

// Config is the immutable configuration of a resolver. Build it once at
// startup and pass it by value to NewNominatim.
type Config struct {
	// BaseURL is the full search endpoint, e.g. https://nominatim.openstreetmap.org/search.
	BaseURL string
	// UserAgent identifies this application to the provider. Nominatim rejects
	// requests without one.
	UserAgent string
	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration
	// MaxRetries is the number of extra attempts made after a transient failure.
	MaxRetries uint64
	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration
}

// DefaultConfig returns the public Nominatim endpoint with a 10 second
// timeout and a single retry.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://nominatim.openstreetmap.org/search",
		UserAgent:  "trip-itinerary/1.0",
		Timeout:    10 * time.Second,
		MaxRetries: 1,
		RetryDelay: 500 * time.Millisecond,
	}
}

// searchURL builds the lookup URL for query, asking for a single JSON candidate.
func (c Config) searchURL(query string) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", err
	}
	params := u.Query()
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// RelevanceFunc decides whether a candidate's display name is an acceptable
// answer for query.
type RelevanceFunc func(query, displayName string) bool

// DisplayNameContains accepts a candidate when its display name contains the
// query, ignoring case. It rejects alternate spellings and translated names
// and accepts substring collisions ("Paris" matches "Parish").
func DisplayNameContains(query, displayName string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(displayName), fold.String(query))
}

// tooShort reports whether query is below MinQueryLength characters.
func tooShort(query string) bool {
	return utf8.RuneCountInString(query) < MinQueryLength
}

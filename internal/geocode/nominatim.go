package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/pkordes/trip-itinerary/internal/domain"
)

// maxResponseBytes caps how much of a provider response is decoded.
const maxResponseBytes = 1 << 20

// place is one candidate in a Nominatim search response.
// Coordinates arrive as strings.
type place struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Nominatim resolves destinations with an OpenStreetMap Nominatim compatible
// search endpoint. It is safe for concurrent use.
type Nominatim struct {
	cfg      Config
	client   *http.Client
	relevant RelevanceFunc
	log      *slog.Logger
	metrics  *Metrics
}

// Option customises a Nominatim resolver.
type Option func(*Nominatim)

// WithHTTPClient replaces the default client. Its Timeout wins over Config.Timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(n *Nominatim) { n.client = c }
}

// WithRelevance replaces DisplayNameContains as the candidate check.
func WithRelevance(f RelevanceFunc) Option {
	return func(n *Nominatim) { n.relevant = f }
}

// WithLogger sets the logger failures are reported to. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(n *Nominatim) { n.log = l }
}

// WithMetrics records lookup outcomes and durations.
func WithMetrics(m *Metrics) Option {
	return func(n *Nominatim) { n.metrics = m }
}

// NewNominatim builds a resolver from cfg. Zero Timeout and RetryDelay fall
// back to DefaultConfig values.
func NewNominatim(cfg Config, opts ...Option) *Nominatim {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = def.RetryDelay
	}
	n := &Nominatim{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		relevant: DisplayNameContains,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Resolve looks destination up and returns the coordinates of the first
// candidate when it passes the relevance check. The boolean is false on any
// failure, in which case the coordinates are zero.
func (n *Nominatim) Resolve(ctx context.Context, destination string) (domain.Coordinates, bool) {
	start := time.Now()
	coords, outcome, err := n.lookup(ctx, destination)
	n.metrics.observe(outcome, time.Since(start))

	switch outcome {
	case outcomeResolved:
		n.log.DebugContext(ctx, "destination resolved",
			"destination", destination,
			"latitude", coords.Latitude,
			"longitude", coords.Longitude,
		)
		return coords, true
	case outcomeError:
		n.log.ErrorContext(ctx, "geocoding lookup failed", "destination", destination, "error", err)
	default:
		n.log.WarnContext(ctx, "destination not resolved", "destination", destination, "reason", outcome)
	}
	return domain.Coordinates{}, false
}

func (n *Nominatim) lookup(ctx context.Context, destination string) (domain.Coordinates, string, error) {
	if tooShort(destination) {
		return domain.Coordinates{}, outcomeTooShort, nil
	}

	places, err := n.search(ctx, destination)
	if err != nil {
		return domain.Coordinates{}, outcomeError, err
	}
	if len(places) == 0 {
		return domain.Coordinates{}, outcomeNoResult, nil
	}

	best := places[0]
	if !n.relevant(destination, best.DisplayName) {
		return domain.Coordinates{}, outcomeIrrelevant, nil
	}

	lat, err := strconv.ParseFloat(best.Lat, 64)
	if err != nil {
		return domain.Coordinates{}, outcomeError, fmt.Errorf("geocode: parse lat %q: %w", best.Lat, err)
	}
	lon, err := strconv.ParseFloat(best.Lon, 64)
	if err != nil {
		return domain.Coordinates{}, outcomeError, fmt.Errorf("geocode: parse lon %q: %w", best.Lon, err)
	}
	return domain.Coordinates{Latitude: lat, Longitude: lon}, outcomeResolved, nil
}

// search runs the HTTP lookup, retrying transient failures up to MaxRetries times.
func (n *Nominatim) search(ctx context.Context, query string) ([]place, error) {
	backoff := retry.WithMaxRetries(n.cfg.MaxRetries, retry.NewConstant(n.cfg.RetryDelay))

	var places []place
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		p, err := n.fetch(ctx, query)
		if err != nil {
			return err
		}
		places = p
		return nil
	})
	return places, err
}

// fetch performs a single attempt. Transport errors, 429 and 5xx responses
// are marked retryable; everything else fails immediately.
func (n *Nominatim) fetch(ctx context.Context, query string) ([]place, error) {
	u, err := n.cfg.searchURL(query)
	if err != nil {
		return nil, fmt.Errorf("geocode: build url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: new request: %w", err)
	}
	req.Header.Set("User-Agent", n.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("geocode: request: %w", err)
		}
		return nil, retry.RetryableError(fmt.Errorf("geocode: request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		err := fmt.Errorf("geocode: provider returned %s", resp.Status)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return nil, retry.RetryableError(err)
		}
		return nil, err
	}

	var places []place
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&places); err != nil {
		return nil, fmt.Errorf("geocode: decode response: %w", err)
	}
	return places, nil
}

// Package geocoding resolves free text postal addresses to coordinates
// through an external provider, with memoized caching, a simplified-address
// fallback and a fixed-interval throttle for batch runs.
package geocoding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/courseo/cartosync/internal/pkg/infrastructure/cache"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("cartosync/geocoding")

// France, roughly. Provider results outside this box are mismatches (a city
// name resolved on another continent) and are treated as no result.
const (
	geofenceMinLat = 41.0
	geofenceMaxLat = 51.5
	geofenceMinLon = -5.5
	geofenceMaxLon = 10.0
)

const (
	// delay between successive provider calls in a batch; cache hits do not pay it
	defaultBatchDelay = 500 * time.Millisecond

	// resolved (and known-unresolvable) queries stay memoized this long
	cacheMaxAge = 30 * 24 * time.Hour
)

//go:generate moq -rm -out provider_mock.go . Provider
type Provider interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
}

type Candidate struct {
	Latitude  float64
	Longitude float64
}

// Result is a successful resolution. A nil result means the address was
// invalid or could not be resolved; that outcome is never an error.
type Result struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	FromCache bool    `json:"fromCache,omitempty"`
}

// cachedOutcome memoizes both hits and known-unresolvable queries, so a
// failing address does not trigger repeated external calls.
type cachedOutcome struct {
	Found     bool    `json:"found"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

type Client struct {
	provider Provider
	cache    *cache.Store
	delay    time.Duration
	sleep    func(time.Duration)
}

type ClientOption func(*Client)

// WithBatchDelay overrides the pause between provider calls in a batch.
func WithBatchDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.delay = d
	}
}

// WithSleeper overrides the sleep function, so tests can count delays.
func WithSleeper(sleep func(time.Duration)) ClientOption {
	return func(c *Client) {
		c.sleep = sleep
	}
}

func NewClient(provider Provider, cacheStore *cache.Store, opts ...ClientOption) *Client {
	c := &Client{
		provider: provider,
		cache:    cacheStore,
		delay:    defaultBatchDelay,
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Geocode resolves one address. Validation failures and unresolvable
// addresses return nil; provider errors are logged and return nil as well,
// never an unresolved hang or a panic.
func (c *Client) Geocode(ctx context.Context, name, address, city, postalCode string) *Result {
	result, _ := c.geocode(ctx, name, address, city, postalCode, nil)
	return result
}

// geocode reports whether the provider was actually called, which drives the
// batch throttle. The throttle hook, when given, runs right before each
// external call.
func (c *Client) geocode(ctx context.Context, name, address, city, postalCode string, throttle func()) (*Result, bool) {
	var err error
	ctx, span := tracer.Start(ctx, "geocode")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	log := logging.GetFromContext(ctx)

	if !isUsable(address) || !isUsable(city) || !isUsable(postalCode) {
		log.Debug("address rejected before lookup", "site", name)
		return nil, false
	}

	fullQuery := fmt.Sprintf("%s, %s, %s, France", cleanAddress(address), strings.TrimSpace(city), strings.TrimSpace(postalCode))
	simpleQuery := fmt.Sprintf("%s, %s, France", strings.TrimSpace(city), strings.TrimSpace(postalCode))

	if outcome, ok := c.lookupCached(fullQuery); ok {
		if !outcome.Found {
			return nil, false
		}
		return &Result{Latitude: outcome.Latitude, Longitude: outcome.Longitude, FromCache: true}, false
	}

	usedProvider := false

	resolve := func(query string) (*Result, error) {
		if throttle != nil {
			throttle()
		}
		usedProvider = true

		candidates, err := c.provider.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			return nil, nil
		}

		first := candidates[0]
		if !insideGeofence(first.Latitude, first.Longitude) {
			log.Debug("provider result outside geofence", "query", query, "lat", first.Latitude, "lon", first.Longitude)
			return nil, nil
		}

		return &Result{Latitude: first.Latitude, Longitude: first.Longitude}, nil
	}

	result, err := resolve(fullQuery)
	if err != nil {
		log.Warn("geocoding provider failed", "site", name, "err", err.Error())
		return nil, usedProvider
	}

	if result == nil {
		// second tier: drop the street address, keep city and postal code
		if outcome, ok := c.lookupCached(simpleQuery); ok {
			if outcome.Found {
				result = &Result{Latitude: outcome.Latitude, Longitude: outcome.Longitude, FromCache: true}
			}
		} else {
			result, err = resolve(simpleQuery)
			if err != nil {
				log.Warn("geocoding provider failed", "site", name, "err", err.Error())
				return nil, usedProvider
			}
			c.storeCached(simpleQuery, result)
		}
	}

	c.storeCached(fullQuery, result)

	if result == nil {
		log.Debug("address could not be resolved", "site", name, "query", fullQuery)
	}

	return result, usedProvider
}

func (c *Client) lookupCached(query string) (cachedOutcome, bool) {
	return cache.Lookup[cachedOutcome](c.cache, cacheKey(query), cacheMaxAge)
}

func (c *Client) storeCached(query string, result *Result) {
	outcome := cachedOutcome{}
	if result != nil {
		outcome = cachedOutcome{Found: true, Latitude: result.Latitude, Longitude: result.Longitude}
	}
	// a failed cache write only costs a future lookup
	_ = c.cache.Set(cacheKey(query), outcome)
}

func cacheKey(query string) string {
	return cache.GeocodePrefix + strings.ToLower(query)
}

func insideGeofence(lat, lon float64) bool {
	return lat >= geofenceMinLat && lat <= geofenceMaxLat && lon >= geofenceMinLon && lon <= geofenceMaxLon
}

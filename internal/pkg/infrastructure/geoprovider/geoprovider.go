// Package geoprovider talks to a Nominatim-compatible geocoding endpoint.
// It satisfies geocoding.Provider; validation, caching and throttling live in
// the geocoding package, this client only does the HTTP exchange.
package geoprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/courseo/cartosync/internal/pkg/application/geocoding"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultUserAgent = "cartosync/1.0"

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient swaps the underlying http client, mostly for tests.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

func New(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   baseURL,
		userAgent: defaultUserAgent,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// result mirrors the provider's response document; coordinates arrive as
// strings.
type result struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (c *Client) Search(ctx context.Context, query string) ([]geocoding.Candidate, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "3")
	q.Set("countrycodes", "fr")

	u := c.baseURL + "/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding request failed with status code %d", resp.StatusCode)
	}

	var results []result
	err = json.NewDecoder(resp.Body).Decode(&results)
	if err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	log := logging.GetFromContext(ctx)

	candidates := make([]geocoding.Candidate, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			log.Debug("dropping candidate with malformed coordinates", "display_name", r.DisplayName)
			continue
		}
		candidates = append(candidates, geocoding.Candidate{Latitude: lat, Longitude: lon})
	}

	return candidates, nil
}

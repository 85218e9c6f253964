// Package client is a typed HTTP client for the cartosync API, for use by
// other services in the platform.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/courseo/cartosync/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("cartosync-client")

type CartoSyncClient interface {
	Sites(ctx context.Context) ([]types.Site, error)
	Poles(ctx context.Context) ([]types.Pole, error)
	RefreshMap(ctx context.Context, force bool) (*SyncResult, error)
	GeocodeAll(ctx context.Context) (*BatchSummary, error)
}

// SyncResult mirrors the reconciliation counters returned by the map
// endpoints.
type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Removed int `json:"removed"`
	Skipped int `json:"skipped"`
	Visible int `json:"visible"`
}

// BatchSummary mirrors the aggregate counters of a geocoding batch.
type BatchSummary struct {
	Total      int `json:"total"`
	Skipped    int `json:"skipped"`
	Resolved   int `json:"resolved"`
	FromCache  int `json:"fromCache"`
	Unresolved int `json:"unresolved"`
	Failed     int `json:"failed"`
}

type cartoSyncClient struct {
	url        string
	token      string
	httpClient http.Client
}

func New(url, token string) CartoSyncClient {
	return &cartoSyncClient{
		url:   url,
		token: token,
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *cartoSyncClient) Sites(ctx context.Context) ([]types.Site, error) {
	var err error
	ctx, span := tracer.Start(ctx, "list-sites")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	var sites types.Collection[types.Site]
	err = c.get(ctx, "/api/v0/sites", &sites)
	return sites.Data, err
}

func (c *cartoSyncClient) Poles(ctx context.Context) ([]types.Pole, error) {
	var err error
	ctx, span := tracer.Start(ctx, "list-poles")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	var poles types.Collection[types.Pole]
	err = c.get(ctx, "/api/v0/poles", &poles)
	return poles.Data, err
}

func (c *cartoSyncClient) RefreshMap(ctx context.Context, force bool) (*SyncResult, error) {
	var err error
	ctx, span := tracer.Start(ctx, "refresh-map")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	result := &SyncResult{}
	err = c.post(ctx, "/api/v0/map/refresh?force="+strconv.FormatBool(force), result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *cartoSyncClient) GeocodeAll(ctx context.Context) (*BatchSummary, error) {
	var err error
	ctx, span := tracer.Start(ctx, "geocode-all")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	summary := &BatchSummary{}
	err = c.post(ctx, "/api/v0/geocode", summary)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (c *cartoSyncClient) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, out)
}

func (c *cartoSyncClient) post(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodPost, path, out)
}

func (c *cartoSyncClient) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.url+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status code %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	err = json.Unmarshal(respBody, out)
	if err != nil {
		return fmt.Errorf("failed to unmarshal response body: %w", err)
	}

	return nil
}

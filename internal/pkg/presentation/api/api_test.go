package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/courseo/cartosync/internal/pkg/application/catalog"
	"github.com/courseo/cartosync/internal/pkg/application/events"
	"github.com/courseo/cartosync/internal/pkg/application/geocoding"
	"github.com/courseo/cartosync/internal/pkg/application/markers"
	"github.com/courseo/cartosync/internal/pkg/application/sitemap"
	"github.com/courseo/cartosync/internal/pkg/infrastructure/cache"
	"github.com/courseo/cartosync/internal/pkg/infrastructure/documentstore"
	"github.com/courseo/cartosync/internal/pkg/infrastructure/router"
	"github.com/courseo/cartosync/pkg/types"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/matryer/is"
)

const policy string = `
package cartosync.authz

default allow := false

allow := {"roles": ["operator"]} if {
	input.token == "valid-token"
}
`

func testSiteMap() *sitemap.SiteMapMock {
	return &sitemap.SiteMapMock{
		RefreshFunc: func(ctx context.Context, force bool) (markers.SyncResult, error) {
			return markers.SyncResult{Created: 2, Visible: 2}, nil
		},
		ToggleFunc: func(ctx context.Context, dimension, token string) (markers.SyncResult, error) {
			if dimension != sitemap.DimensionType && dimension != sitemap.DimensionPole {
				return markers.SyncResult{}, sitemap.ErrUnknownDimension
			}
			return markers.SyncResult{Visible: 1}, nil
		},
		SetAllFunc: func(ctx context.Context, dimension string, visible bool) (markers.SyncResult, error) {
			return markers.SyncResult{}, nil
		},
		SnapshotFunc: func(ctx context.Context) sitemap.Snapshot {
			return sitemap.Snapshot{}
		},
		InvalidateFunc: func(ctx context.Context) {},
	}
}

func testDocumentStore() *documentstore.StoreMock {
	return &documentstore.StoreMock{
		FetchFunc: func(ctx context.Context, collection string) ([]documentstore.Document, error) {
			switch collection {
			case documentstore.CollectionSites:
				return []documentstore.Document{
					{ID: "s1", Data: map[string]any{"name": "Labo Lyon", "type": "Laboratoire", "latitude": 45.76, "longitude": 4.85}},
					{ID: "s2", Data: map[string]any{"name": "Labo Part-Dieu", "type": "Laboratoire", "address": "4 rue des Lilas", "city": "Lyon", "postalCode": "69003"}},
				}, nil
			case documentstore.CollectionPoles:
				return []documentstore.Document{
					{ID: "p1", Data: map[string]any{"name": "Pôle Nord"}},
				}, nil
			}
			return nil, nil
		},
		UpdateSitePositionFunc: func(ctx context.Context, siteID string, lat, lon float64) error {
			return nil
		},
	}
}

func testServer(t *testing.T, mapView sitemap.SiteMap, store documentstore.Store) *httptest.Server {
	t.Helper()

	loader := catalog.New(store, cache.New(cache.NewMemoryKV()))

	provider := &geocoding.ProviderMock{
		SearchFunc: func(ctx context.Context, query string) ([]geocoding.Candidate, error) {
			return []geocoding.Candidate{{Latitude: 45.7578, Longitude: 4.8320}}, nil
		},
	}
	client := geocoding.NewClient(provider, cache.New(cache.NewMemoryKV()), geocoding.WithSleeper(func(time.Duration) {}))
	geocoder := geocoding.NewService(client, store, &messaging.MsgContextMock{
		PublishOnTopicFunc: func(ctx context.Context, message messaging.TopicMessage) error {
			return nil
		},
	}, &events.EventSenderMock{
		SendFunc: func(ctx context.Context, message events.SiteGeocoded) error {
			return nil
		},
	})

	mux, err := RegisterHandlers(context.Background(), router.New("cartosync"), strings.NewReader(policy), mapView, loader, geocoder)
	if err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, srv *httptest.Server, method, path, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthEndpointIsOpen(t *testing.T) {
	is := is.New(t)
	srv := testServer(t, testSiteMap(), testDocumentStore())

	resp := doRequest(t, srv, http.MethodGet, "/health", "")
	is.Equal(resp.StatusCode, http.StatusNoContent)
}

func TestMissingTokenIsRejected(t *testing.T) {
	is := is.New(t)
	srv := testServer(t, testSiteMap(), testDocumentStore())

	resp := doRequest(t, srv, http.MethodGet, "/api/v0/sites", "")
	is.Equal(resp.StatusCode, http.StatusUnauthorized)
}

func TestInvalidTokenIsRejected(t *testing.T) {
	is := is.New(t)
	srv := testServer(t, testSiteMap(), testDocumentStore())

	resp := doRequest(t, srv, http.MethodGet, "/api/v0/sites", "wrong-token")
	is.Equal(resp.StatusCode, http.StatusUnauthorized)
}

func TestListSitesReturnsPositionedSites(t *testing.T) {
	is := is.New(t)
	srv := testServer(t, testSiteMap(), testDocumentStore())

	resp := doRequest(t, srv, http.MethodGet, "/api/v0/sites", "valid-token")
	is.Equal(resp.StatusCode, http.StatusOK)

	var sites types.Collection[types.Site]
	is.NoErr(json.NewDecoder(resp.Body).Decode(&sites))
	is.Equal(len(sites.Data), 1)
	is.Equal(sites.TotalCount, uint64(1))
}

func TestRefreshMaps(t *testing.T) {
	is := is.New(t)
	mapView := testSiteMap()
	srv := testServer(t, mapView, testDocumentStore())

	resp := doRequest(t, srv, http.MethodPost, "/api/v0/map/refresh?force=true", "valid-token")
	is.Equal(resp.StatusCode, http.StatusOK)

	is.Equal(len(mapView.InvalidateCalls()), 1)
	is.Equal(len(mapView.RefreshCalls()), 1)
	is.True(mapView.RefreshCalls()[0].Force)
}

func TestToggleFilter(t *testing.T) {
	is := is.New(t)
	mapView := testSiteMap()
	srv := testServer(t, mapView, testDocumentStore())

	resp := doRequest(t, srv, http.MethodPut, "/api/v0/map/filters/type/laboratoire", "valid-token")
	is.Equal(resp.StatusCode, http.StatusOK)

	is.Equal(len(mapView.ToggleCalls()), 1)
	is.Equal(mapView.ToggleCalls()[0].Dimension, "type")
	is.Equal(mapView.ToggleCalls()[0].Token, "laboratoire")
}

func TestToggleUnknownDimensionIsBadRequest(t *testing.T) {
	is := is.New(t)
	srv := testServer(t, testSiteMap(), testDocumentStore())

	resp := doRequest(t, srv, http.MethodPut, "/api/v0/map/filters/flavor/sweet", "valid-token")
	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestSetAllFilters(t *testing.T) {
	is := is.New(t)
	mapView := testSiteMap()
	srv := testServer(t, mapView, testDocumentStore())

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v0/map/filters/pole", strings.NewReader(`{"visible":false}`))
	is.NoErr(err)
	req.Header.Set("Authorization", "Bearer valid-token")

	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err)
	defer resp.Body.Close()

	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(len(mapView.SetAllCalls()), 1)
	is.Equal(mapView.SetAllCalls()[0].Dimension, "pole")
	is.Equal(mapView.SetAllCalls()[0].Visible, false)
}

func TestGeocodeSite(t *testing.T) {
	is := is.New(t)
	store := testDocumentStore()
	srv := testServer(t, testSiteMap(), store)

	resp := doRequest(t, srv, http.MethodPost, "/api/v0/sites/s2/geocode", "valid-token")
	is.Equal(resp.StatusCode, http.StatusOK)

	var body map[string]any
	is.NoErr(json.NewDecoder(resp.Body).Decode(&body))
	is.Equal(body["found"], true)
	is.Equal(len(store.UpdateSitePositionCalls()), 1)
	is.Equal(store.UpdateSitePositionCalls()[0].SiteID, "s2")
}

func TestGeocodeUnknownSiteIsNotFound(t *testing.T) {
	is := is.New(t)
	srv := testServer(t, testSiteMap(), testDocumentStore())

	resp := doRequest(t, srv, http.MethodPost, "/api/v0/sites/nope/geocode", "valid-token")
	is.Equal(resp.StatusCode, http.StatusNotFound)
}

func TestGeocodeAllReportsSummary(t *testing.T) {
	is := is.New(t)
	srv := testServer(t, testSiteMap(), testDocumentStore())

	resp := doRequest(t, srv, http.MethodPost, "/api/v0/geocode", "valid-token")
	is.Equal(resp.StatusCode, http.StatusOK)

	var summary map[string]any
	is.NoErr(json.NewDecoder(resp.Body).Decode(&summary))
	is.Equal(summary["total"], 2.0)
	is.Equal(summary["skipped"], 1.0)
	is.Equal(summary["resolved"], 1.0)
}

package geocoding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courseo/cartosync/internal/pkg/application/events"
	"github.com/courseo/cartosync/internal/pkg/infrastructure/cache"
	"github.com/courseo/cartosync/internal/pkg/infrastructure/documentstore"
	"github.com/courseo/cartosync/pkg/types"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/matryer/is"
)

func batchSetup(provider Provider) (*Service, *documentstore.StoreMock, *messaging.MsgContextMock, *events.EventSenderMock, *int) {
	sleeps := 0
	client := NewClient(provider, cache.New(cache.NewMemoryKV()), WithSleeper(func(d time.Duration) { sleeps++ }))

	store := &documentstore.StoreMock{
		UpdateSitePositionFunc: func(ctx context.Context, siteID string, latitude, longitude float64) error {
			return nil
		},
	}
	msgCtx := &messaging.MsgContextMock{
		PublishOnTopicFunc: func(ctx context.Context, message messaging.TopicMessage) error {
			return nil
		},
	}
	notifier := &events.EventSenderMock{
		SendFunc: func(ctx context.Context, message events.SiteGeocoded) error {
			return nil
		},
	}

	return NewService(client, store, msgCtx, notifier), store, msgCtx, notifier, &sleeps
}

func TestBatchPersistsPublishesAndNotifies(t *testing.T) {
	is := is.New(t)
	svc, store, msgCtx, notifier, _ := batchSetup(lyonProvider())

	summary := svc.GeocodeAll(context.Background(), []types.Site{
		{ID: "s1", Address: "4 rue des Lilas", City: "Lyon", PostalCode: "69003"},
	})

	is.Equal(summary.Resolved, 1)
	is.Equal(len(store.UpdateSitePositionCalls()), 1)
	is.Equal(store.UpdateSitePositionCalls()[0].SiteID, "s1")
	is.Equal(len(msgCtx.PublishOnTopicCalls()), 1)
	is.Equal(len(notifier.SendCalls()), 1)
}

func TestBatchThrottlesOnlyProviderCalls(t *testing.T) {
	is := is.New(t)
	provider := lyonProvider()
	svc, _, _, _, sleeps := batchSetup(provider)

	// warm the cache so address #2 is a hit
	warm := svc.client.Geocode(context.Background(), "warm", "8 rue Cachée", "Lyon", "69001")
	is.True(warm != nil)
	providerCallsBefore := len(provider.SearchCalls())

	summary := svc.GeocodeAll(context.Background(), []types.Site{
		{ID: "s1", Address: "4 rue des Lilas", City: "Lyon", PostalCode: "69003"},
		{ID: "s2", Address: "8 rue Cachée", City: "Lyon", PostalCode: "69001"},
		{ID: "s3", Address: "15 avenue Jean Jaurès", City: "Lyon", PostalCode: "69007"},
	})

	is.Equal(summary.Resolved, 3)
	is.Equal(summary.FromCache, 1)

	// two external calls for #1 and #3, one delay between them, none for the hit
	is.Equal(len(provider.SearchCalls())-providerCallsBefore, 2)
	is.Equal(*sleeps, 1)
}

func TestBatchSkipsSitesThatAlreadyHaveAPosition(t *testing.T) {
	is := is.New(t)
	provider := lyonProvider()
	svc, store, _, _, _ := batchSetup(provider)

	summary := svc.GeocodeAll(context.Background(), []types.Site{
		{ID: "s1", Address: "4 rue des Lilas", City: "Lyon", PostalCode: "69003", Location: &types.Location{Latitude: 45.7, Longitude: 4.8}},
	})

	is.Equal(summary.Skipped, 1)
	is.Equal(len(provider.SearchCalls()), 0)
	is.Equal(len(store.UpdateSitePositionCalls()), 0)
}

func TestBatchContinuesPastFailures(t *testing.T) {
	is := is.New(t)
	provider := &ProviderMock{
		SearchFunc: func(ctx context.Context, query string) ([]Candidate, error) {
			return nil, errors.New("upstream down")
		},
	}
	svc, _, _, _, _ := batchSetup(provider)

	summary := svc.GeocodeAll(context.Background(), []types.Site{
		{ID: "s1", Address: "4 rue des Lilas", City: "Lyon", PostalCode: "69003"},
		{ID: "s2", Address: "", City: "Lyon", PostalCode: "69001"},
	})

	is.Equal(summary.Total, 2)
	is.Equal(summary.Unresolved, 2)
	is.Equal(summary.Resolved, 0)
}

func TestBatchCountsPersistenceFailures(t *testing.T) {
	is := is.New(t)
	svc, store, _, _, _ := batchSetup(lyonProvider())
	store.UpdateSitePositionFunc = func(ctx context.Context, siteID string, latitude, longitude float64) error {
		return documentstore.ErrNoRows
	}

	summary := svc.GeocodeAll(context.Background(), []types.Site{
		{ID: "gone", Address: "4 rue des Lilas", City: "Lyon", PostalCode: "69003"},
	})

	is.Equal(summary.Failed, 1)
	is.Equal(summary.Resolved, 0)
}

func TestGeocodeSitePersistsSingleSite(t *testing.T) {
	is := is.New(t)
	svc, store, _, _, _ := batchSetup(lyonProvider())

	result, err := svc.GeocodeSite(context.Background(), types.Site{
		ID: "s1", Name: "Labo Lyon", Address: "4 rue des Lilas", City: "Lyon", PostalCode: "69003",
	})

	is.NoErr(err)
	is.True(result != nil)
	is.Equal(len(store.UpdateSitePositionCalls()), 1)
	is.Equal(store.UpdateSitePositionCalls()[0].Latitude, 45.76)
}

func TestGeocodeSiteWithBadAddressDoesNotTouchTheStore(t *testing.T) {
	is := is.New(t)
	svc, store, _, _, _ := batchSetup(lyonProvider())

	result, err := svc.GeocodeSite(context.Background(), types.Site{ID: "s1", Address: "N/A", City: "Lyon", PostalCode: "69003"})

	is.NoErr(err)
	is.True(result == nil)
	is.Equal(len(store.UpdateSitePositionCalls()), 0)
}

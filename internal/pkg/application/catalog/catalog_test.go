package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courseo/cartosync/internal/pkg/infrastructure/cache"
	"github.com/courseo/cartosync/internal/pkg/infrastructure/documentstore"
	"github.com/courseo/cartosync/pkg/types"
	"github.com/matryer/is"
)

func siteDocs() []documentstore.Document {
	return []documentstore.Document{
		{ID: "s1", Data: map[string]any{"name": "Labo Lyon", "type": "Laboratoire", "pole": "poleIdA", "latitude": 45.76, "longitude": 4.85}},
		{ID: "s2", Data: map[string]any{"name": "Clinique Nantes", "latitude": "47,22", "longitude": "-1.55"}},
		{ID: "s3", Data: map[string]any{"name": "Sans position"}},
		{ID: "s4", Data: map[string]any{"name": "Latitude seule", "latitude": 48.85}},
		{ID: "s5", Data: map[string]any{"name": "Injoignable", "latitude": "n/a", "longitude": 2.35}},
	}
}

func TestSitesAreTypedCoercedAndFiltered(t *testing.T) {
	is := is.New(t)
	store := &documentstore.StoreMock{
		FetchFunc: func(ctx context.Context, collection string) ([]documentstore.Document, error) {
			return siteDocs(), nil
		},
	}
	loader := New(store, cache.New(cache.NewMemoryKV()))

	sites, err := loader.Sites(context.Background(), false)
	is.NoErr(err)

	// only records with both coordinates parsing to real numbers survive
	is.Equal(len(sites), 2)
	is.Equal(sites[0].ID, "s1")
	is.Equal(sites[1].ID, "s2")
	is.Equal(sites[1].Location.Latitude, 47.22) // decimal comma coerced
	is.Equal(sites[1].Location.Longitude, -1.55)
}

func TestSecondLoadIsServedFromCache(t *testing.T) {
	is := is.New(t)
	store := &documentstore.StoreMock{
		FetchFunc: func(ctx context.Context, collection string) ([]documentstore.Document, error) {
			return siteDocs(), nil
		},
	}
	loader := New(store, cache.New(cache.NewMemoryKV()))

	_, err := loader.Sites(context.Background(), false)
	is.NoErr(err)
	_, err = loader.Sites(context.Background(), false)
	is.NoErr(err)

	is.Equal(len(store.FetchCalls()), 1)
}

func TestForceBypassesTheCache(t *testing.T) {
	is := is.New(t)
	store := &documentstore.StoreMock{
		FetchFunc: func(ctx context.Context, collection string) ([]documentstore.Document, error) {
			return siteDocs(), nil
		},
	}
	loader := New(store, cache.New(cache.NewMemoryKV()))

	_, err := loader.Sites(context.Background(), false)
	is.NoErr(err)
	_, err = loader.Sites(context.Background(), true)
	is.NoErr(err)

	is.Equal(len(store.FetchCalls()), 2)
}

func TestExpiredCacheTriggersRefetch(t *testing.T) {
	is := is.New(t)

	now := time.Unix(1700000000, 0)
	store := &documentstore.StoreMock{
		FetchFunc: func(ctx context.Context, collection string) ([]documentstore.Document, error) {
			return siteDocs(), nil
		},
	}
	cacheStore := cache.New(cache.NewMemoryKV(), cache.WithClock(func() time.Time { return now }))
	loader := New(store, cacheStore)

	_, err := loader.Sites(context.Background(), false)
	is.NoErr(err)

	now = now.Add(cache.DefaultMaxAge)

	_, err = loader.Sites(context.Background(), false)
	is.NoErr(err)
	is.Equal(len(store.FetchCalls()), 2)
}

func TestFetchFailureLeavesCacheUntouched(t *testing.T) {
	is := is.New(t)

	failing := false
	store := &documentstore.StoreMock{
		FetchFunc: func(ctx context.Context, collection string) ([]documentstore.Document, error) {
			if failing {
				return nil, errors.New("connection reset")
			}
			return siteDocs(), nil
		},
	}
	cacheStore := cache.New(cache.NewMemoryKV())
	loader := New(store, cacheStore)

	sites, err := loader.Sites(context.Background(), false)
	is.NoErr(err)
	is.Equal(len(sites), 2)

	failing = true
	_, err = loader.Sites(context.Background(), true)
	is.True(err != nil)

	cached, ok := cache.Lookup[[]types.Site](cacheStore, cache.KeySites, cache.DefaultMaxAge)
	is.True(ok) // stale-but-valid entry must survive the failed refresh
	is.Equal(len(cached), 2)
}

func TestAllSitesKeepsUnpositionedRecords(t *testing.T) {
	is := is.New(t)
	store := &documentstore.StoreMock{
		FetchFunc: func(ctx context.Context, collection string) ([]documentstore.Document, error) {
			return siteDocs(), nil
		},
	}
	loader := New(store, cache.New(cache.NewMemoryKV()))

	sites, err := loader.AllSites(context.Background())
	is.NoErr(err)
	is.Equal(len(sites), 5)
}

func TestStylesFallBackToSeed(t *testing.T) {
	is := is.New(t)
	store := &documentstore.StoreMock{
		FetchFunc: func(ctx context.Context, collection string) ([]documentstore.Document, error) {
			return []documentstore.Document{}, nil
		},
	}
	seed := []types.StylePreference{{Type: "Laboratoire", Shape: "flask", Color: "#7b2d8b"}}
	loader := New(store, cache.New(cache.NewMemoryKV()), WithSeedStyles(seed))

	styles, err := loader.Styles(context.Background(), false)
	is.NoErr(err)
	is.Equal(styles, seed)
}

func TestPolesAreMapped(t *testing.T) {
	is := is.New(t)
	store := &documentstore.StoreMock{
		FetchFunc: func(ctx context.Context, collection string) ([]documentstore.Document, error) {
			is.Equal(collection, documentstore.CollectionPoles)
			return []documentstore.Document{
				{ID: "poleIdA", Data: map[string]any{"name": "Pôle Nord Régional"}},
			}, nil
		},
	}
	loader := New(store, cache.New(cache.NewMemoryKV()))

	poles, err := loader.Poles(context.Background(), false)
	is.NoErr(err)
	is.Equal(poles[0], types.Pole{ID: "poleIdA", Name: "Pôle Nord Régional"})
}

func TestConcurrentLoadsShareOneFetch(t *testing.T) {
	is := is.New(t)

	started := make(chan struct{}, 2)
	release := make(chan struct{})
	store := &documentstore.StoreMock{
		FetchFunc: func(ctx context.Context, collection string) ([]documentstore.Document, error) {
			started <- struct{}{}
			<-release
			return siteDocs(), nil
		},
	}
	loader := New(store, cache.New(cache.NewMemoryKV()))

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := loader.Sites(context.Background(), true)
			results <- err
		}()
	}

	<-started // first fetch is in flight
	time.Sleep(100 * time.Millisecond)
	close(release) // the second call joined the in-flight fetch

	is.NoErr(<-results)
	is.NoErr(<-results)
	is.Equal(len(store.FetchCalls()), 1)
}

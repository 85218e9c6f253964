// Package catalog loads typed collections from the remote document store,
// preferring fresh cache entries and deduplicating in-flight fetches per
// collection key.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/courseo/cartosync/internal/pkg/infrastructure/cache"
	"github.com/courseo/cartosync/internal/pkg/infrastructure/documentstore"
	"github.com/courseo/cartosync/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"
)

type Loader struct {
	store  documentstore.Store
	cache  *cache.Store
	group  singleflight.Group
	maxAge time.Duration

	seedStyles []types.StylePreference
}

type LoaderOption func(*Loader)

// WithMaxAge overrides the default freshness window for cached collections.
func WithMaxAge(maxAge time.Duration) LoaderOption {
	return func(l *Loader) {
		l.maxAge = maxAge
	}
}

// WithSeedStyles provides fallback style preferences used when the remote
// collection is empty, typically from the application config file.
func WithSeedStyles(styles []types.StylePreference) LoaderOption {
	return func(l *Loader) {
		l.seedStyles = styles
	}
}

func New(store documentstore.Store, cacheStore *cache.Store, opts ...LoaderOption) *Loader {
	l := &Loader{
		store:  store,
		cache:  cacheStore,
		maxAge: cache.DefaultMaxAge,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Sites returns the position-bearing site collection. Records without usable
// coordinates are filtered out before caching; AllSites sees them.
func (l *Loader) Sites(ctx context.Context, force bool) ([]types.Site, error) {
	return load(ctx, l, cache.KeySites, force, func(ctx context.Context) ([]types.Site, error) {
		docs, err := l.store.Fetch(ctx, documentstore.CollectionSites)
		if err != nil {
			return nil, fmt.Errorf("could not fetch sites: %w", err)
		}

		return lo.FilterMap(docs, func(d documentstore.Document, _ int) (types.Site, bool) {
			site := mapSite(d)
			return site, site.HasPosition()
		}), nil
	})
}

// AllSites fetches the full site collection, including sites that still lack
// coordinates. Batch geocoding needs those, so this read bypasses the cache.
func (l *Loader) AllSites(ctx context.Context) ([]types.Site, error) {
	docs, err := l.store.Fetch(ctx, documentstore.CollectionSites)
	if err != nil {
		return nil, fmt.Errorf("could not fetch sites: %w", err)
	}

	return lo.Map(docs, func(d documentstore.Document, _ int) types.Site {
		return mapSite(d)
	}), nil
}

func (l *Loader) Poles(ctx context.Context, force bool) ([]types.Pole, error) {
	return load(ctx, l, cache.KeyPoles, force, func(ctx context.Context) ([]types.Pole, error) {
		docs, err := l.store.Fetch(ctx, documentstore.CollectionPoles)
		if err != nil {
			return nil, fmt.Errorf("could not fetch poles: %w", err)
		}

		return lo.Map(docs, func(d documentstore.Document, _ int) types.Pole {
			return types.Pole{ID: d.ID, Name: asString(d.Data["name"])}
		}), nil
	})
}

func (l *Loader) Styles(ctx context.Context, force bool) ([]types.StylePreference, error) {
	return load(ctx, l, cache.KeyStyles, force, func(ctx context.Context) ([]types.StylePreference, error) {
		docs, err := l.store.Fetch(ctx, documentstore.CollectionStyles)
		if err != nil {
			return nil, fmt.Errorf("could not fetch style preferences: %w", err)
		}

		styles := lo.Map(docs, func(d documentstore.Document, _ int) types.StylePreference {
			return types.StylePreference{
				Type:  asString(d.Data["type"]),
				Shape: asString(d.Data["shape"]),
				Color: asString(d.Data["color"]),
			}
		})

		if len(styles) == 0 {
			styles = l.seedStyles
		}

		return styles, nil
	})
}

// Invalidate drops the cached collections so the next load hits the store.
func (l *Loader) Invalidate() {
	l.cache.Invalidate(cache.KeySites, cache.KeyPoles, cache.KeyStyles)
}

// load runs the cache-then-fetch discipline shared by all collections. The
// singleflight group makes the one-fetch-in-flight-per-key assumption
// explicit instead of relying on callers not to re-enter. A fetch failure
// surfaces to the caller and leaves any existing cache entry untouched.
func load[T any](ctx context.Context, l *Loader, key string, force bool, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if !force {
		if values, ok := cache.Lookup[[]T](l.cache, key, l.maxAge); ok {
			return values, nil
		}
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		values, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		if err := l.cache.Set(key, values); err != nil {
			logging.GetFromContext(ctx).Warn("could not cache collection", "key", key, "err", err.Error())
		}

		return values, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]T), nil
}

// Package sitemap orchestrates the map view: it loads the cached collections,
// resolves pole aliases, applies the two filter dimensions and drives the
// marker reconciler. All display writes for one view funnel through here, one
// pass at a time.
package sitemap

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/courseo/cartosync/internal/pkg/application/catalog"
	"github.com/courseo/cartosync/internal/pkg/application/courierfeed"
	"github.com/courseo/cartosync/internal/pkg/application/markers"
	"github.com/courseo/cartosync/internal/pkg/application/poles"
	"github.com/courseo/cartosync/internal/pkg/application/visibility"
	"github.com/courseo/cartosync/internal/pkg/infrastructure/maprender"
	"github.com/courseo/cartosync/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("cartosync/sitemap")

var ErrUnknownDimension = errors.New("unknown filter dimension")

// CourierType is the classification token courier markers filter under.
const CourierType = "courier"

const (
	DimensionType = "type"
	DimensionPole = "pole"
)

//go:generate moq -rm -out sitemap_mock.go . SiteMap

type SiteMap interface {
	Refresh(ctx context.Context, force bool) (markers.SyncResult, error)
	Toggle(ctx context.Context, dimension, token string) (markers.SyncResult, error)
	SetAll(ctx context.Context, dimension string, visible bool) (markers.SyncResult, error)
	Snapshot(ctx context.Context) Snapshot
	Invalidate(ctx context.Context)
	Teardown(ctx context.Context)
}

// Snapshot is the current state of the map view, as served by the API.
type Snapshot struct {
	Markers  []maprender.MarkerSpec `json:"markers"`
	Viewport maprender.Viewport     `json:"viewport"`
	Types    visibility.Mapping     `json:"types"`
	Poles    visibility.Mapping     `json:"poles"`
}

type service struct {
	loader   *catalog.Loader
	resolver *poles.Resolver
	couriers courierfeed.CourierFeed
	session  *maprender.Session

	mu         sync.Mutex
	reconciler *markers.Reconciler
	typeFilter visibility.Mapping
	poleFilter visibility.Mapping
}

func New(loader *catalog.Loader, resolver *poles.Resolver, couriers courierfeed.CourierFeed, session *maprender.Session) SiteMap {
	return &service{
		loader:     loader,
		resolver:   resolver,
		couriers:   couriers,
		session:    session,
		reconciler: markers.NewReconciler(session),
		typeFilter: visibility.Mapping{},
		poleFilter: visibility.Mapping{},
	}
}

func (s *service) Refresh(ctx context.Context, force bool) (markers.SyncResult, error) {
	var err error

	ctx, span := tracer.Start(ctx, "refresh-map")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var result markers.SyncResult
	result, err = s.sync(ctx, force)
	return result, err
}

func (s *service) Toggle(ctx context.Context, dimension, token string) (markers.SyncResult, error) {
	var err error

	ctx, span := tracer.Start(ctx, "toggle-filter")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	switch dimension {
	case DimensionType:
		s.typeFilter = visibility.Toggle(s.typeFilter, typeToken(token))
	case DimensionPole:
		s.poleFilter = visibility.Toggle(s.poleFilter, s.resolver.CanonicalToken(token))
	default:
		err = ErrUnknownDimension
		return markers.SyncResult{}, err
	}

	var result markers.SyncResult
	result, err = s.sync(ctx, false)
	return result, err
}

func (s *service) SetAll(ctx context.Context, dimension string, visible bool) (markers.SyncResult, error) {
	var err error

	ctx, span := tracer.Start(ctx, "set-all-filter")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	switch dimension {
	case DimensionType:
		s.typeFilter = visibility.SetAll(s.typeFilter, visible)
	case DimensionPole:
		s.poleFilter = visibility.SetAll(s.poleFilter, visible)
	default:
		err = ErrUnknownDimension
		return markers.SyncResult{}, err
	}

	var result markers.SyncResult
	result, err = s.sync(ctx, false)
	return result, err
}

func (s *service) Snapshot(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Markers:  s.session.Markers(),
		Viewport: s.session.Viewport(),
		Types:    copyMapping(s.typeFilter),
		Poles:    copyMapping(s.poleFilter),
	}
}

func (s *service) Invalidate(ctx context.Context) {
	s.loader.Invalidate()
}

// Teardown removes every marker from the view. The courier feed is stopped by
// its own owner.
func (s *service) Teardown(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reconciler.Reset()
}

// sync runs one full reconciliation pass. Pole resolution gates the pass:
// without the pole collection no marker is touched. The caller holds the lock.
func (s *service) sync(ctx context.Context, force bool) (markers.SyncResult, error) {
	log := logging.GetFromContext(ctx)

	sites, err := s.loader.Sites(ctx, force)
	if err != nil {
		return markers.SyncResult{}, err
	}

	poleList, err := s.loader.Poles(ctx, force)
	if err != nil {
		return markers.SyncResult{}, err
	}

	styles, err := s.loader.Styles(ctx, force)
	if err != nil {
		log.Warn("could not load style preferences, using defaults", "err", err.Error())
		styles = nil
	}

	idToName := poles.BuildIDToNameMap(poleList)

	all := append(sites, lo.Map(s.couriers.Positions(), func(p types.CourierPosition, _ int) types.Site {
		return courierSite(p)
	})...)

	for _, site := range all {
		s.seedToken(s.typeFilter, typeToken(site.Type))
		s.seedToken(s.poleFilter, s.resolver.ResolveSiteToken(site, idToName))
	}

	visible := func(site types.Site) bool {
		return visibility.IsVisible(
			typeToken(site.Type),
			s.resolver.ResolveSiteToken(site, idToName),
			s.typeFilter,
			s.poleFilter,
		)
	}

	result := s.reconciler.Sync(ctx, all, styles, visible)
	s.reconciler.ApplyViewport(result)

	return result, nil
}

// seedToken records a token in a filter mapping the first time it is seen, so
// that set-all operations cover it. Known tokens keep their state.
func (s *service) seedToken(m visibility.Mapping, token string) {
	if token == "" {
		return
	}
	if _, ok := m[token]; !ok {
		m[token] = true
	}
}

func courierSite(p types.CourierPosition) types.Site {
	name := p.Name
	if name == "" {
		name = p.CourierID
	}
	loc := p.Location
	return types.Site{
		ID:       "courier-" + p.CourierID,
		Name:     name,
		Type:     CourierType,
		Location: &loc,
	}
}

func typeToken(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func copyMapping(m visibility.Mapping) visibility.Mapping {
	out := make(visibility.Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

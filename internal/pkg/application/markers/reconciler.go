// Package markers reconciles the live marker set of a map view against the
// desired state computed from sites, styles and filter visibility. Markers are
// created, updated and removed only when something actually changed.
package markers

import (
	"context"
	"fmt"

	"github.com/courseo/cartosync/internal/pkg/infrastructure/maprender"
	"github.com/courseo/cartosync/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

// CloseUpZoom is applied instead of a bounds fit when exactly one marker is
// visible; fitting bounds on a single point is visually degenerate.
const CloseUpZoom = 17

// SyncResult reports what one reconciliation pass did, plus the viewport the
// caller should apply once the pass is complete.
type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Removed int `json:"removed"`
	Skipped int `json:"skipped"`
	Visible int `json:"visible"`

	Bounds *types.Bounds   `json:"bounds,omitempty"`
	Single *types.Location `json:"single,omitempty"`
}

type record struct {
	marker  maprender.Marker
	visible bool
	lat     float64
	lon     float64
	shape   string
	color   string
}

// Reconciler owns the MarkerRecord set of one map view. It is not safe for
// concurrent syncs; the owning service serializes passes.
type Reconciler struct {
	renderer maprender.Renderer
	records  map[string]*record
}

func NewReconciler(renderer maprender.Renderer) *Reconciler {
	return &Reconciler{
		renderer: renderer,
		records:  map[string]*record{},
	}
}

// Sync diffs the desired marker set against the rendered one. Stale markers
// are removed before anything is created. A failure on one site is logged and
// skipped; it never aborts the rest of the batch.
func (r *Reconciler) Sync(ctx context.Context, sites []types.Site, styles []types.StylePreference, visible func(types.Site) bool) SyncResult {
	log := logging.GetFromContext(ctx)

	result := SyncResult{}

	present := make(map[string]struct{}, len(sites))
	for _, site := range sites {
		present[site.ID] = struct{}{}
	}

	for id, rec := range r.records {
		if _, ok := present[id]; !ok {
			rec.marker.Remove()
			delete(r.records, id)
			result.Removed++
		}
	}

	var bounds types.Bounds
	var lastVisible *types.Location

	for _, site := range sites {
		if !site.HasPosition() {
			result.Skipped++
			continue
		}

		style := MatchStyle(site.Type, styles)
		isVisible := visible(site)
		pos := *site.Location

		rec, exists := r.records[site.ID]
		if exists && rec.lat == pos.Latitude && rec.lon == pos.Longitude && rec.shape == style.Shape && rec.color == style.Color {
			if rec.visible != isVisible {
				rec.marker.SetVisible(isVisible)
				rec.visible = isVisible
				result.Updated++
			}
		} else {
			if exists {
				// position or style changed; replace the marker
				rec.marker.Remove()
				delete(r.records, site.ID)
				result.Removed++
			}

			marker, err := r.addMarker(site, style, isVisible)
			if err != nil {
				log.Warn("could not create marker", "site_id", site.ID, "err", err.Error())
				result.Skipped++
				continue
			}

			r.records[site.ID] = &record{
				marker:  marker,
				visible: isVisible,
				lat:     pos.Latitude,
				lon:     pos.Longitude,
				shape:   style.Shape,
				color:   style.Color,
			}
			result.Created++
		}

		if isVisible {
			bounds.Extend(pos.Latitude, pos.Longitude)
			lastVisible = &pos
			result.Visible++
		}
	}

	if result.Visible == 1 {
		result.Single = lastVisible
	} else if result.Visible > 1 {
		result.Bounds = &bounds
	}

	return result
}

// ApplyViewport issues the view instruction computed by a sync, after the
// whole batch has been processed.
func (r *Reconciler) ApplyViewport(result SyncResult) {
	if result.Single != nil {
		r.renderer.SetView(result.Single.Latitude, result.Single.Longitude, CloseUpZoom)
		return
	}
	if result.Bounds != nil {
		r.renderer.FitBounds(*result.Bounds)
	}
}

// Reset drops every record and removes its marker, for view teardown.
func (r *Reconciler) Reset() {
	for id, rec := range r.records {
		rec.marker.Remove()
		delete(r.records, id)
	}
}

func (r *Reconciler) addMarker(site types.Site, style types.StylePreference, visible bool) (maprender.Marker, error) {
	var marker maprender.Marker

	popup := site.Name
	if popup == "" {
		popup = site.ID
	}
	if site.Address != "" {
		popup = fmt.Sprintf("%s - %s, %s %s", popup, site.Address, site.PostalCode, site.City)
	}

	spec := maprender.MarkerSpec{
		ID:           site.ID,
		Latitude:     site.Location.Latitude,
		Longitude:    site.Location.Longitude,
		Shape:        style.Shape,
		Color:        style.Color,
		Visible:      visible,
		PopupContent: popup,
		OnClick: func() {
			// only one popup may be open at a time
			r.renderer.CloseAllPopups()
			if marker != nil {
				marker.OpenPopup()
			}
		},
	}

	m, err := r.renderer.AddMarker(spec)
	if err != nil {
		return nil, err
	}
	marker = m
	return m, nil
}

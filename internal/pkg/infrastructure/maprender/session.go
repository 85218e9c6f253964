package maprender

import (
	"sync"

	"github.com/courseo/cartosync/pkg/types"
)

// Viewport is the last view instruction issued to the map.
type Viewport struct {
	Bounds *types.Bounds   `json:"bounds,omitempty"`
	Center *types.Location `json:"center,omitempty"`
	Zoom   int             `json:"zoom,omitempty"`
}

// Stats counts the display writes a session has received. Reconciliation
// minimality shows up here: a no-op sync adds, removes and rewrites nothing.
type Stats struct {
	Added            int `json:"added"`
	Removed          int `json:"removed"`
	VisibilityWrites int `json:"visibilityWrites"`
	BoundsFits       int `json:"boundsFits"`
	ViewSets         int `json:"viewSets"`
}

// Session is an in-memory Renderer. One session backs one map view.
type Session struct {
	mu       sync.Mutex
	markers  map[string]*sessionMarker
	viewport Viewport
	stats    Stats
}

func NewSession() *Session {
	return &Session{markers: map[string]*sessionMarker{}}
}

type sessionMarker struct {
	session   *Session
	spec      MarkerSpec
	popupOpen bool
}

func (s *Session) AddMarker(spec MarkerSpec) (Marker, error) {
	if spec.ID == "" || !validCoordinates(spec.Latitude, spec.Longitude) {
		return nil, ErrBadCoordinates
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := &sessionMarker{session: s, spec: spec}
	s.markers[spec.ID] = m
	s.stats.Added++
	return m, nil
}

func (s *Session) CloseAllPopups() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.markers {
		m.popupOpen = false
	}
}

func (s *Session) FitBounds(b types.Bounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bounds := b
	s.viewport = Viewport{Bounds: &bounds}
	s.stats.BoundsFits++
}

func (s *Session) SetView(lat, lon float64, zoom int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = Viewport{Center: &types.Location{Latitude: lat, Longitude: lon}, Zoom: zoom}
	s.stats.ViewSets++
}

// Click simulates a user clicking a marker, running its click handler.
func (s *Session) Click(markerID string) bool {
	s.mu.Lock()
	m, ok := s.markers[markerID]
	s.mu.Unlock()

	if !ok || m.spec.OnClick == nil {
		return ok
	}
	m.spec.OnClick()
	return true
}

// Markers returns the current marker specs, for the API snapshot.
func (s *Session) Markers() []MarkerSpec {
	s.mu.Lock()
	defer s.mu.Unlock()

	specs := make([]MarkerSpec, 0, len(s.markers))
	for _, m := range s.markers {
		specs = append(specs, m.spec)
	}
	return specs
}

// OpenPopupID returns the id of the marker whose popup is open, if any.
func (s *Session) OpenPopupID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range s.markers {
		if m.popupOpen {
			return id, true
		}
	}
	return "", false
}

func (s *Session) Viewport() Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (m *sessionMarker) SetVisible(visible bool) {
	m.session.mu.Lock()
	defer m.session.mu.Unlock()
	m.spec.Visible = visible
	m.session.stats.VisibilityWrites++
}

func (m *sessionMarker) OpenPopup() {
	m.session.mu.Lock()
	defer m.session.mu.Unlock()
	m.popupOpen = true
}

func (m *sessionMarker) Remove() {
	m.session.mu.Lock()
	defer m.session.mu.Unlock()
	delete(m.session.markers, m.spec.ID)
	m.session.stats.Removed++
}

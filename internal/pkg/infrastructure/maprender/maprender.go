// Package maprender defines the minimal marker lifecycle contract the engine
// needs from a map renderer, plus an in-memory session renderer that keeps the
// authoritative marker state server side so UI clients only have to draw it.
package maprender

import (
	"errors"
	"math"

	"github.com/courseo/cartosync/pkg/types"
)

var ErrBadCoordinates = errors.New("marker coordinates are not usable")

// MarkerSpec is everything needed to place one marker.
type MarkerSpec struct {
	ID           string  `json:"id"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Shape        string  `json:"shape"`
	Color        string  `json:"color"`
	Visible      bool    `json:"visible"`
	PopupContent string  `json:"popupContent,omitempty"`

	// OnClick runs when the marker is clicked. The reconciler uses it to
	// enforce the single-open-popup rule.
	OnClick func() `json:"-"`
}

// Marker is a live marker on the map.
type Marker interface {
	SetVisible(visible bool)
	OpenPopup()
	Remove()
}

// Renderer is the boundary to the map display.
type Renderer interface {
	AddMarker(spec MarkerSpec) (Marker, error)
	CloseAllPopups()
	FitBounds(b types.Bounds)
	SetView(lat, lon float64, zoom int)
}

func validCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

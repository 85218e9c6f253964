package types

import (
	"math"
	"time"
)

// Site is a logistics site as stored in the remote document store. The Pole
// field is ambiguous by design: older records carry the display name of the
// pole, newer records carry the id of a Pole document. Use the poles package
// to resolve it into a filter token instead of reading it directly.
type Site struct {
	ID         string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	Type       string    `json:"type,omitempty"`
	Pole       string    `json:"pole,omitempty"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	PostalCode string    `json:"postalCode,omitempty"`
	Location   *Location `json:"location,omitempty"`
	ModifiedOn time.Time `json:"modifiedOn,omitempty"`
}

// HasPosition reports whether the site carries usable coordinates.
func (s Site) HasPosition() bool {
	if s.Location == nil {
		return false
	}
	return !math.IsNaN(s.Location.Latitude) && !math.IsNaN(s.Location.Longitude)
}

// Pole is one value of the regional classification dimension.
type Pole struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StylePreference maps a site type to its rendering on the map. Matching
// against site types is fuzzy, see markers.MatchStyle.
type StylePreference struct {
	Type  string `json:"type" yaml:"type"`
	Shape string `json:"shape" yaml:"shape"`
	Color string `json:"color" yaml:"color"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CourierPosition struct {
	CourierID  string    `json:"courierID"`
	Name       string    `json:"name,omitempty"`
	Location   Location  `json:"location"`
	ObservedAt time.Time `json:"observedAt"`
}

type Bounds struct {
	MinLon float64 `json:"minLon"`
	MaxLon float64 `json:"maxLon"`
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
}

// Extend grows the bounds to include the given coordinate. The zero value
// adopts the first coordinate as both corners.
func (b *Bounds) Extend(lat, lon float64) {
	if b.MinLat == 0 && b.MaxLat == 0 && b.MinLon == 0 && b.MaxLon == 0 {
		b.MinLat, b.MaxLat = lat, lat
		b.MinLon, b.MaxLon = lon, lon
		return
	}
	b.MinLat = math.Min(b.MinLat, lat)
	b.MaxLat = math.Max(b.MaxLat, lat)
	b.MinLon = math.Min(b.MinLon, lon)
	b.MaxLon = math.Max(b.MaxLon, lon)
}

type Collection[T any] struct {
	Data       []T
	Count      uint64
	Offset     uint64
	Limit      uint64
	TotalCount uint64
}

// NewCollection pages a result set. A limit of zero means no limit.
func NewCollection[T any](data []T, offset, limit uint64) Collection[T] {
	total := uint64(len(data))

	if offset > total {
		offset = total
	}

	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	page := data[offset:end]

	return Collection[T]{
		Data:       page,
		Count:      uint64(len(page)),
		Offset:     offset,
		Limit:      limit,
		TotalCount: total,
	}
}

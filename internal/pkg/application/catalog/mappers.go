package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/courseo/cartosync/internal/pkg/infrastructure/documentstore"
	"github.com/courseo/cartosync/pkg/types"
)

// mapSite turns a raw document into a typed site, tolerating missing fields
// and string-encoded numbers. A coordinate survives only if both halves parse
// to a real number.
func mapSite(doc documentstore.Document) types.Site {
	site := types.Site{
		ID:         doc.ID,
		Name:       asString(doc.Data["name"]),
		Type:       asString(doc.Data["type"]),
		Pole:       asString(doc.Data["pole"]),
		Address:    asString(doc.Data["address"]),
		City:       asString(doc.Data["city"]),
		PostalCode: asString(doc.Data["postalCode"]),
	}

	if t, ok := doc.Data["modifiedOn"].(time.Time); ok {
		site.ModifiedOn = t
	}

	lat, latOK := asCoordinate(doc.Data["latitude"])
	lon, lonOK := asCoordinate(doc.Data["longitude"])
	if latOK && lonOK {
		site.Location = &types.Location{Latitude: lat, Longitude: lon}
	}

	return site
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asCoordinate(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil && !math.IsNaN(f)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(n, ",", "."))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil && !math.IsNaN(f)
	}
	return 0, false
}

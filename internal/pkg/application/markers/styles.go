package markers

import (
	"strings"

	"github.com/courseo/cartosync/pkg/types"
)

// DefaultStyle renders sites whose type matches no configured preference.
var DefaultStyle = types.StylePreference{Shape: "pin", Color: "#2a6f97"}

// MatchStyle picks the rendering style for a site type: exact match first,
// then substring containment in either direction, then the default. Matching
// is case-insensitive since the type field is free text.
func MatchStyle(siteType string, styles []types.StylePreference) types.StylePreference {
	needle := strings.ToLower(strings.TrimSpace(siteType))
	if needle == "" {
		return DefaultStyle
	}

	for _, s := range styles {
		if strings.ToLower(s.Type) == needle {
			return s
		}
	}

	for _, s := range styles {
		styleType := strings.ToLower(s.Type)
		if styleType == "" {
			continue
		}
		if strings.Contains(needle, styleType) || strings.Contains(styleType, needle) {
			return s
		}
	}

	return DefaultStyle
}

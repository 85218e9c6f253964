package geocoding

import (
	"regexp"
	"strings"
)

// placeholderTokens are values operators type into address fields when the
// real value is unknown. A field made of nothing else is treated as empty.
var placeholderTokens = map[string]struct{}{
	"n/a":       {},
	"na":        {},
	"nc":        {},
	"undefined": {},
	"null":      {},
	"inconnu":   {},
	"inconnue":  {},
	"-":         {},
	"x":         {},
	"xx":        {},
	"?":         {},
	".":         {},
}

var (
	// habitation details the geocoder chokes on: floor, building, flat,
	// staircase and residence prefixes common in French addresses
	noiseParts = regexp.MustCompile(`(?i)\b(rdc|rez[- ]de[- ]chauss[ée]e|b[âa]t(iment)?\.?\s*\w*|appt?\.?\s*\w*|appartement\s*\w*|esc(alier)?\.?\s*\w*|[ée]tage\s*\w*|r[ée]sidence)\b`)
	spaces     = regexp.MustCompile(`\s+`)
	separators = regexp.MustCompile(`[,;]+`)
)

// isUsable reports whether a field carries real content once placeholder
// tokens are discounted.
func isUsable(field string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(field))
	if cleaned == "" {
		return false
	}

	for _, token := range strings.Fields(separators.ReplaceAllString(cleaned, " ")) {
		if _, ok := placeholderTokens[token]; !ok {
			return true
		}
	}

	return false
}

// cleanAddress strips habitation noise and collapses whitespace so the
// external provider sees a plain street address.
func cleanAddress(address string) string {
	cleaned := noiseParts.ReplaceAllString(address, " ")
	cleaned = separators.ReplaceAllString(cleaned, ", ")
	cleaned = spaces.ReplaceAllString(cleaned, " ")
	return strings.Trim(strings.TrimSpace(cleaned), ", ")
}

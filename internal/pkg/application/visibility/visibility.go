// Package visibility keeps the per-token visibility state for the two filter
// dimensions of the map (site type and pole). It holds no entity data; callers
// resolve tokens and ask for the combined verdict.
package visibility

// Mapping is the visibility state for one filter dimension. An empty mapping
// means no filter has been configured yet, so everything is visible. In a
// populated mapping a token that is missing defaults to visible as well; only
// an explicit false hides. Freshly observed tokens must never vanish while the
// mapping catches up.
type Mapping map[string]bool

// Initialize returns a mapping with every token visible.
func Initialize(tokens []string) Mapping {
	m := make(Mapping, len(tokens))
	for _, t := range tokens {
		m[t] = true
	}
	return m
}

// Toggle flips one token and returns the mapping. Toggling a token that is
// not present hides it, since absence reads as visible.
func Toggle(m Mapping, token string) Mapping {
	if m == nil {
		m = Mapping{}
	}
	visible, ok := m[token]
	if !ok {
		visible = true
	}
	m[token] = !visible
	return m
}

// SetAll flips every known token to the given value. The key set is
// preserved; no tokens are added or dropped.
func SetAll(m Mapping, visible bool) Mapping {
	for t := range m {
		m[t] = visible
	}
	return m
}

// visibleIn applies the default-visible rule for a single dimension.
func visibleIn(m Mapping, token string) bool {
	if len(m) == 0 || token == "" {
		return true
	}
	visible, ok := m[token]
	if !ok {
		return true
	}
	return visible
}

// IsVisible combines both dimensions; an entity shows only when neither its
// type token nor its pole token is explicitly hidden.
func IsVisible(typeToken, poleToken string, typeMapping, poleMapping Mapping) bool {
	return visibleIn(typeMapping, typeToken) && visibleIn(poleMapping, poleToken)
}

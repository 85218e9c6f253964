// Package poles resolves the ambiguous pole field on a site into the
// canonical token used by the visibility filters. Sites created before the
// pole collection existed store the display name directly, newer ones store
// the id of a pole document. Every read of the pole field goes through
// ResolveSiteToken so the two representations stay interchangeable.
package poles

import (
	"strings"

	"github.com/courseo/cartosync/pkg/types"
)

// DefaultVocabulary holds the region words a pole name is reduced to when one
// of them appears as a whole word in the name.
var DefaultVocabulary = []string{"nord", "sud", "est", "ouest", "centre"}

type Resolver struct {
	vocabulary []string
}

func NewResolver(vocabulary ...string) *Resolver {
	if len(vocabulary) == 0 {
		vocabulary = DefaultVocabulary
	}
	return &Resolver{vocabulary: vocabulary}
}

// BuildIDToNameMap indexes pole display names by document id.
func BuildIDToNameMap(poles []types.Pole) map[string]string {
	m := make(map[string]string, len(poles))
	for _, p := range poles {
		if p.ID != "" {
			m[p.ID] = p.Name
		}
	}
	return m
}

// CanonicalToken lowercases and trims the name, folds common French accents,
// and reduces it to the first vocabulary word found as a whole word. Names
// without a vocabulary word keep their full lowercased form so they still
// participate in filtering, just without the shorthand grouping.
func (r *Resolver) CanonicalToken(raw string) string {
	name := foldAccents(strings.ToLower(strings.TrimSpace(raw)))
	if name == "" {
		return ""
	}

	for _, word := range r.vocabulary {
		if containsWord(name, word) {
			return word
		}
	}

	return name
}

// ResolveSiteToken maps a site to its pole filter token, resolving the id
// indirection first when the pole field matches a known pole document.
func (r *Resolver) ResolveSiteToken(site types.Site, idToName map[string]string) string {
	if name, ok := idToName[site.Pole]; ok {
		return r.CanonicalToken(name)
	}
	return r.CanonicalToken(site.Pole)
}

func containsWord(s, word string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		if (start == 0 || !isWordChar(s[start-1])) && (end == len(s) || !isWordChar(s[end])) {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

var accentReplacer = strings.NewReplacer(
	"à", "a", "â", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
	"ç", "c",
)

func foldAccents(s string) string {
	return accentReplacer.Replace(s)
}

package poles

import (
	"testing"

	"github.com/courseo/cartosync/pkg/types"
	"github.com/matryer/is"
)

func TestCanonicalTokenExtractsRegionWord(t *testing.T) {
	is := is.New(t)
	r := NewResolver()

	is.Equal(r.CanonicalToken("Pôle Nord Régional"), "nord")
	is.Equal(r.CanonicalToken("  PÔLE SUD  "), "sud")
	is.Equal(r.CanonicalToken("Pôle Centre-Ville"), "centre")
}

func TestCanonicalTokenRequiresWholeWordMatches(t *testing.T) {
	is := is.New(t)
	r := NewResolver()

	// "est" appears inside "ouest" but only as part of the larger word
	is.Equal(r.CanonicalToken("Pôle Ouest"), "ouest")
	is.Equal(r.CanonicalToken("Pôle Est"), "est")
	is.Equal(r.CanonicalToken("Prestation"), "prestation")
}

func TestCanonicalTokenFallsBackToFullName(t *testing.T) {
	is := is.New(t)
	r := NewResolver()

	is.Equal(r.CanonicalToken("  Plateforme Urbaine  "), "plateforme urbaine")
	is.Equal(r.CanonicalToken(""), "")
}

func TestCanonicalTokenIsIdempotent(t *testing.T) {
	is := is.New(t)
	r := NewResolver()

	for _, input := range []string{"Pôle Nord Régional", "Plateforme Urbaine", "nord", "", "Dépôt Sécurisé"} {
		once := r.CanonicalToken(input)
		is.Equal(r.CanonicalToken(once), once)
	}
}

func TestResolveSiteTokenHandlesBothRepresentations(t *testing.T) {
	is := is.New(t)
	r := NewResolver()

	idToName := BuildIDToNameMap([]types.Pole{
		{ID: "poleIdA", Name: "Pôle Nord Régional"},
		{ID: "poleIdB", Name: "Pôle Sud"},
	})

	// newer site referencing the pole by id
	is.Equal(r.ResolveSiteToken(types.Site{ID: "1", Type: "Laboratoire", Pole: "poleIdA"}, idToName), "nord")

	// legacy site carrying the display name directly
	is.Equal(r.ResolveSiteToken(types.Site{ID: "2", Pole: "Pôle Sud"}, idToName), "sud")

	// unknown value participates with its lowercased form
	is.Equal(r.ResolveSiteToken(types.Site{ID: "3", Pole: "Antenne Mobile"}, idToName), "antenne mobile")
}

func TestCustomVocabulary(t *testing.T) {
	is := is.New(t)
	r := NewResolver("littoral", "montagne")

	is.Equal(r.CanonicalToken("Pôle Littoral Atlantique"), "littoral")
	is.Equal(r.CanonicalToken("Pôle Nord"), "pole nord")
}

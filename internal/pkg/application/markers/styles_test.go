package markers

import (
	"testing"

	"github.com/courseo/cartosync/pkg/types"
	"github.com/matryer/is"
)

var testStyles = []types.StylePreference{
	{Type: "Laboratoire", Shape: "flask", Color: "#7b2d8b"},
	{Type: "Clinique", Shape: "cross", Color: "#c0392b"},
	{Type: "Labo", Shape: "drop", Color: "#16a085"},
}

func TestExactTypeMatchWinsOverContainment(t *testing.T) {
	is := is.New(t)

	s := MatchStyle("Laboratoire", testStyles)
	is.Equal(s.Shape, "flask")
}

func TestMatchIsCaseInsensitive(t *testing.T) {
	is := is.New(t)

	s := MatchStyle("CLINIQUE", testStyles)
	is.Equal(s.Shape, "cross")
}

func TestStyleTypeContainedInSiteType(t *testing.T) {
	is := is.New(t)

	// no exact match, but "clinique" is contained in the site type
	s := MatchStyle("Clinique Vétérinaire", testStyles)
	is.Equal(s.Shape, "cross")
}

func TestSiteTypeContainedInStyleType(t *testing.T) {
	is := is.New(t)

	s := MatchStyle("aborat", testStyles)
	is.Equal(s.Shape, "flask")
}

func TestUnknownTypeFallsBackToDefault(t *testing.T) {
	is := is.New(t)

	is.Equal(MatchStyle("Entrepôt", testStyles), DefaultStyle)
	is.Equal(MatchStyle("", testStyles), DefaultStyle)
	is.Equal(MatchStyle("Laboratoire", nil), DefaultStyle)
}

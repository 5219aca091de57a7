package analysis

import (
	"strings"

	"github.com/jmcortes/harmonia/internal/chord"
)

// Function is the harmonic function of a chord.
type Function string

// The three functional families.
const (
	Tonic       Function = "T"
	Subdominant Function = "S"
	Dominant    Function = "D"
)

// functionForDegree maps a scale degree to its default function. The
// mediant is ambiguous and reads as tonic.
func functionForDegree(degree int) Function {
	switch degree {
	case 1, 6:
		return Tonic
	case 2, 4:
		return Subdominant
	case 5, 7:
		return Dominant
	}
	return Tonic
}

// Special tags the chromatic special cases.
type Special string

// Special chord tags. SpecialNone marks an ordinary diatonic reading.
const (
	SpecialNone              Special = ""
	SpecialNeapolitan        Special = "neapolitan"
	SpecialItalianSixth      Special = "italian_sixth"
	SpecialFrenchSixth       Special = "french_sixth"
	SpecialGermanSixth       Special = "german_sixth"
	SpecialSecondaryDominant Special = "secondary_dominant"
	SpecialBorrowed          Special = "borrowed"
)

// Analysis is a chord labeled in a key.
type Analysis struct {
	Chord chord.Chord `json:"-"`

	// Degree is the roman-numeral label, including any secondary slash
	// ("V/V"), flat prefix ("bVI") or quality glyph ("vii°").
	Degree string `json:"degree"`
	// DegreeNum is the 1-7 scale degree of the root, 0 when the root
	// sits on no namable degree.
	DegreeNum int `json:"degree_num"`
	// Cipher is the figured-bass inversion cipher ("6,4", "7,+", "9").
	Cipher string `json:"cipher,omitempty"`
	// Text is the full display label, Degree and Cipher combined.
	Text string `json:"text"`

	Function   Function `json:"function"`
	Diatonic   bool     `json:"diatonic"`
	Special    Special  `json:"special,omitempty"`
	HasSeventh bool     `json:"has_seventh,omitempty"`
	HasNinth   bool     `json:"has_ninth,omitempty"`
	Inversion  int      `json:"inversion"`
	Cadence    Cadence  `json:"cadence,omitempty"`
}

// IsDominantShape reports whether the label reads as a dominant-family
// chord: V and its inversions, the leading-tone chord, or any secondary
// dominant.
func (a Analysis) IsDominantShape() bool {
	return strings.HasPrefix(a.Degree, "V") ||
		strings.HasPrefix(a.Degree, "vii°") ||
		strings.HasPrefix(a.Degree, "viiø")
}

// IsSecondary reports whether the label is a secondary dominant or
// secondary leading-tone chord.
func (a Analysis) IsSecondary() bool {
	return a.Special == SpecialSecondaryDominant
}

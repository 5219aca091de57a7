package analysis

import (
	"github.com/jmcortes/harmonia/internal/chord"
	"github.com/jmcortes/harmonia/internal/key"
)

var (
	upperNumerals = [7]string{"I", "II", "III", "IV", "V", "VI", "VII"}
	lowerNumerals = [7]string{"i", "ii", "iii", "iv", "v", "vi", "vii"}

	// Expected diatonic readings per degree, used when the sonority's
	// quality could not be inferred. The minor row follows harmonic
	// minor: a major dominant and a diminished leading-tone chord.
	expectedMajor = [7]string{"I", "ii", "iii", "IV", "V", "vi", "vii°"}
	expectedMinor = [7]string{"i", "ii°", "III", "iv", "V", "VI", "vii°"}
)

func qualityGlyph(q chord.Quality) string {
	switch q {
	case chord.QualityHalfDim7:
		return "ø"
	case chord.QualityDiminished, chord.QualityDiminished7:
		return "°"
	case chord.QualityAugmented:
		return "+"
	}
	return ""
}

// numeralFor renders the roman numeral of a degree: case follows the
// chord's actual third, glyphs mark diminished, half-diminished and
// augmented qualities. Unknown qualities fall back to the mode's expected
// reading for that degree.
func numeralFor(degree int, q chord.Quality, mode key.Mode) string {
	if q == chord.QualityUnknown {
		if mode == key.Minor {
			return expectedMinor[degree-1]
		}
		return expectedMajor[degree-1]
	}
	switch q {
	case chord.QualityMinor, chord.QualityMinor7,
		chord.QualityDiminished, chord.QualityDiminished7, chord.QualityHalfDim7:
		return lowerNumerals[degree-1] + qualityGlyph(q)
	}
	return upperNumerals[degree-1] + qualityGlyph(q)
}

// degreeLabel places a root pitch class on a scale degree and renders the
// numeral. Chromatic roots a semitone above a diatonic degree read as a
// flattened degree (bII, bIII, bVI, bVII); in minor, a root a semitone
// below the tonic reads as the raised leading tone. A root on no namable
// degree yields "?" and degree 0.
func degreeLabel(k *key.Context, rootPC int, q chord.Quality) (string, int) {
	if d, ok := k.DegreeOfClass(rootPC); ok {
		return numeralFor(d, q, k.Mode()), d
	}
	if k.Mode() == key.Minor && (rootPC-k.TonicClass()+12)%12 == 11 {
		return numeralFor(7, q, k.Mode()), 7
	}
	if d, ok := k.DegreeOfClass((rootPC + 1) % 12); ok {
		return "b" + numeralFor(d, q, k.Mode()), d
	}
	return "?", 0
}

package analysis

import "github.com/jmcortes/harmonia/internal/chord"

// Figured-bass ciphers in the European conservatory convention, keyed by
// inversion. The dominant-seventh family carries the "+" marking the
// leading tone.
var (
	triadCipher     = map[int]string{0: "", 1: "6", 2: "6,4"}
	dominant7Cipher = map[int]string{0: "7,+", 1: "6,5t", 2: "+6", 3: "+4"}
	dim7Cipher      = map[int]string{0: "7t", 1: "+6,5t", 2: "+4,3", 3: "+2"}
	halfDim7Cipher  = map[int]string{0: "7,5t", 1: "+6,5", 2: "+4,3", 3: "4,+2"}
	seventh7Cipher  = map[int]string{0: "7", 1: "6,5", 2: "4,3", 3: "2"}

	// Secondary leading-tone sevenths cite the seventh plainly; the
	// slash already names the function.
	secondaryDim7Cipher = map[int]string{0: "7t", 1: "6,5t", 2: "4,3t", 3: "2"}
)

func cipherAt(m map[int]string, inversion, fallbackInv int) string {
	if c, ok := m[inversion]; ok {
		return c
	}
	return m[fallbackInv]
}

// cipherFor picks the figured-bass cipher for a diatonic reading. The
// dominant cipher applies to any seventh chord on the fifth degree, not
// only textbook dominant sevenths, as long as the chord is not one of the
// diminished shapes.
func cipherFor(q chord.Quality, degree, inversion int) string {
	if !q.IsSeventh() {
		return cipherAt(triadCipher, inversion, 0)
	}
	switch {
	case q == chord.QualityDiminished7:
		return cipherAt(dim7Cipher, inversion, 0)
	case q == chord.QualityHalfDim7:
		return cipherAt(halfDim7Cipher, inversion, 0)
	case q == chord.QualityDominant7 || degree == 5:
		return cipherAt(dominant7Cipher, inversion, 0)
	}
	return cipherAt(seventh7Cipher, inversion, 0)
}

package pitch

import "fmt"

// Interval is the spelled interval between two pitches, reduced to its
// simple (within-one-octave) name. Semitones keeps the original signed,
// unreduced distance so direction survives the reduction.
type Interval struct {
	// Semitones is the signed, compound distance (positive = ascending).
	Semitones int
	// Size is the simple generic size, 1-8 (compound sizes reduce: 12th -> 5th).
	Size int
	// Quality is "P", "M", "m", "A", "d", "AA", or "dd".
	Quality string
}

// diatonicSemitones gives the reference semitone span for each simple size:
// perfect/major qualities. Index by size 1-8.
var diatonicSemitones = [9]int{0, 0, 2, 4, 5, 7, 9, 11, 12}

// perfectSize reports whether a generic size takes perfect (vs major/minor)
// qualities.
func perfectSize(size int) bool {
	return size == 1 || size == 4 || size == 5 || size == 8
}

// Between computes the interval from p to q. The name is always simple and
// direction-insensitive; Semitones carries direction.
func Between(p, q Pitch) Interval {
	semis := Semitones(p, q)

	steps := q.Step() - p.Step()
	if steps < 0 {
		steps = -steps
	}
	size := steps + 1

	span := semis
	if span < 0 {
		span = -span
	}
	// Reduce compound intervals to simple: a 12th is a 5th an octave up.
	// An exact octave stays size 8 with its full 12-semitone span.
	for size > 8 {
		size -= 7
		span -= 12
	}

	return Interval{
		Semitones: semis,
		Size:      size,
		Quality:   qualityFor(size, span),
	}
}

func qualityFor(size, span int) string {
	dev := span - diatonicSemitones[size]
	if perfectSize(size) {
		switch dev {
		case 0:
			return "P"
		case -1:
			return "d"
		case -2:
			return "dd"
		case 1:
			return "A"
		case 2:
			return "AA"
		}
		return "?"
	}
	switch dev {
	case 0:
		return "M"
	case -1:
		return "m"
	case -2:
		return "d"
	case -3:
		return "dd"
	case 1:
		return "A"
	case 2:
		return "AA"
	}
	return "?"
}

// Name returns the simple interval name, e.g. "P5", "d5", "A5", "m3", "P8".
func (iv Interval) Name() string {
	return fmt.Sprintf("%s%d", iv.Quality, iv.Size)
}

// IsPerfectFifth reports a perfect fifth by name (P5, or a compound P12).
func (iv Interval) IsPerfectFifth() bool { return iv.Quality == "P" && iv.Size == 5 }

// IsAugmentedFifth reports an augmented fifth by name.
func (iv Interval) IsAugmentedFifth() bool { return iv.Quality == "A" && iv.Size == 5 }

// IsDiminishedFifth reports a diminished fifth by name.
func (iv Interval) IsDiminishedFifth() bool { return iv.Quality == "d" && iv.Size == 5 }

// IsFifth reports a perfect or augmented fifth. Diminished fifths are
// excluded on purpose: they carry their own voice-leading rules.
func (iv Interval) IsFifth() bool { return iv.IsPerfectFifth() || iv.IsAugmentedFifth() }

// IsOctave reports a perfect octave or unison by name (P8 or P1).
func (iv Interval) IsOctave() bool {
	return iv.Quality == "P" && (iv.Size == 8 || iv.Size == 1)
}

// IsThird reports a major, minor, or augmented third (simple form of a
// tenth). Used by the parallel-tenths exception.
func (iv Interval) IsThird() bool {
	return iv.Size == 3 && (iv.Quality == "M" || iv.Quality == "m" || iv.Quality == "A")
}

// Motion classifies how two voices move between consecutive chords.
type Motion string

// Motion values.
const (
	MotionParallel Motion = "parallel"
	MotionContrary Motion = "contrary"
	MotionOblique  Motion = "oblique"
	MotionStatic   Motion = "static"
)

// ClassifyMotion determines the motion type between two voices, each given
// as its pitch in the first and second chord.
func ClassifyMotion(v1From, v1To, v2From, v2To Pitch) Motion {
	d1 := Semitones(v1From, v1To)
	d2 := Semitones(v2From, v2To)

	switch {
	case d1 == 0 && d2 == 0:
		return MotionStatic
	case d1 == 0 || d2 == 0:
		return MotionOblique
	case (d1 > 0) == (d2 > 0):
		return MotionParallel
	default:
		return MotionContrary
	}
}

// IsLeap reports whether the move from p to q exceeds a whole step.
func IsLeap(p, q Pitch) bool {
	d := Semitones(p, q)
	if d < 0 {
		d = -d
	}
	return d > 2
}

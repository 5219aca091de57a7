package pitch

import (
	"fmt"
	"strconv"
	"strings"
)

// Pitch is an immutable spelled pitch: a diatonic letter, an accidental
// count (positive = sharps, negative = flats), and an octave in scientific
// pitch notation (C4 = middle C).
type Pitch struct {
	Letter     Letter
	Accidental int
	Octave     int
}

// Letter is a diatonic letter name, C through B.
type Letter int

// Diatonic letters in scale order from C.
const (
	LetterC Letter = iota
	LetterD
	LetterE
	LetterF
	LetterG
	LetterA
	LetterB
)

// letterSemitones maps each letter to its semitone offset above C.
var letterSemitones = [7]int{0, 2, 4, 5, 7, 9, 11}

var letterNames = [7]string{"C", "D", "E", "F", "G", "A", "B"}

// String returns the letter name.
func (l Letter) String() string {
	if l < LetterC || l > LetterB {
		return "?"
	}
	return letterNames[l]
}

// New constructs a pitch from its components.
func New(letter Letter, accidental, octave int) Pitch {
	return Pitch{Letter: letter, Accidental: accidental, Octave: octave}
}

// Class returns the pitch class (0-11), C = 0.
func (p Pitch) Class() int {
	pc := (letterSemitones[p.Letter] + p.Accidental) % 12
	if pc < 0 {
		pc += 12
	}
	return pc
}

// Value returns the continuous semitone value with octave, anchored so that
// C4 = 60. Used for register comparisons and signed melodic distances.
func (p Pitch) Value() int {
	return (p.Octave+1)*12 + letterSemitones[p.Letter] + p.Accidental
}

// Step returns the diatonic step index with octave (C4 = 28). Letter
// distance between two pitches is the difference of their steps; it drives
// the generic interval size independently of accidentals.
func (p Pitch) Step() int {
	return p.Octave*7 + int(p.Letter)
}

// Name returns the pitch name without octave, e.g. "F#", "Bb", "C".
func (p Pitch) Name() string {
	var b strings.Builder
	b.WriteString(p.Letter.String())
	switch {
	case p.Accidental > 0:
		b.WriteString(strings.Repeat("#", p.Accidental))
	case p.Accidental < 0:
		b.WriteString(strings.Repeat("b", -p.Accidental))
	}
	return b.String()
}

// String returns the full scientific name, e.g. "F#4".
func (p Pitch) String() string {
	return fmt.Sprintf("%s%d", p.Name(), p.Octave)
}

// Semitones returns the signed semitone distance from p to q
// (positive when q is higher).
func Semitones(p, q Pitch) int {
	return q.Value() - p.Value()
}

// ParseError reports a malformed note name. Callers exclude the affected
// voice or chord from analysis; a parse failure never aborts a batch.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid pitch %q: %s", e.Input, e.Reason)
}

// Parse reads a note name in scientific notation: a letter A-G, optional
// accidentals ("#", "b", or music21-style "-" for flat), and an octave
// number. Examples: "C4", "F#3", "Bb2", "B-2", "Cx5" is not supported;
// double accidentals are written "##" or "bb".
func Parse(s string) (Pitch, error) {
	if s == "" {
		return Pitch{}, &ParseError{Input: s, Reason: "empty"}
	}
	rest := s

	var letter Letter
	switch rest[0] {
	case 'C', 'c':
		letter = LetterC
	case 'D', 'd':
		letter = LetterD
	case 'E', 'e':
		letter = LetterE
	case 'F', 'f':
		letter = LetterF
	case 'G', 'g':
		letter = LetterG
	case 'A', 'a':
		letter = LetterA
	case 'B', 'b':
		letter = LetterB
	default:
		return Pitch{}, &ParseError{Input: s, Reason: "unknown letter"}
	}
	rest = rest[1:]

	accidental := 0
loop:
	for len(rest) > 0 {
		switch rest[0] {
		case '#':
			accidental++
		case 'b', '-':
			accidental--
		default:
			break loop
		}
		rest = rest[1:]
	}

	if rest == "" {
		return Pitch{}, &ParseError{Input: s, Reason: "missing octave"}
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Pitch{}, &ParseError{Input: s, Reason: "bad octave"}
	}
	return Pitch{Letter: letter, Accidental: accidental, Octave: octave}, nil
}

// MustParse is Parse for fixtures and tests; it panics on malformed input.
func MustParse(s string) Pitch {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

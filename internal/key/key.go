// Package key maintains the active tonal context: tonic, mode, and the
// derived diatonic pitch-class set used to gate diatonic-only logic.
package key

import (
	"fmt"

	"github.com/jmcortes/harmonia/internal/pitch"
)

// Mode is the tonal mode of a key.
type Mode string

// Supported modes.
const (
	Major Mode = "major"
	Minor Mode = "minor"
)

// majorSteps and minorSteps are the semitone offsets of the seven scale
// degrees above the tonic. The minor set is natural minor; harmonic-minor
// alterations (raised 7) register as chromatic, which is what the secondary
// dominant detector relies on.
var (
	majorSteps = [7]int{0, 2, 4, 5, 7, 9, 11}
	minorSteps = [7]int{0, 2, 3, 5, 7, 8, 10}
)

// Context holds the key for one analysis session. It is mutable only
// through SetTonality, which recomputes the diatonic set. Concurrent
// analyses under different tonalities must each hold their own Context.
type Context struct {
	tonic    pitch.Pitch
	mode     Mode
	degrees  [7]int      // degree (0-based) -> pitch class
	diatonic map[int]int // pitch class -> degree (1-7)
}

// New creates a key context. The tonic's octave is irrelevant; only its
// spelled pitch class matters.
func New(tonic pitch.Pitch, mode Mode) *Context {
	c := &Context{}
	c.SetTonality(tonic, mode)
	return c
}

// SetTonality replaces the active key and recomputes the diatonic set.
func (c *Context) SetTonality(tonic pitch.Pitch, mode Mode) {
	if mode != Minor {
		mode = Major
	}
	c.tonic = tonic
	c.mode = mode

	steps := majorSteps
	if mode == Minor {
		steps = minorSteps
	}
	c.diatonic = make(map[int]int, 7)
	for i, s := range steps {
		pc := (tonic.Class() + s) % 12
		c.degrees[i] = pc
		c.diatonic[pc] = i + 1
	}
}

// Tonic returns the tonic pitch (octave is not meaningful).
func (c *Context) Tonic() pitch.Pitch { return c.tonic }

// Mode returns the active mode.
func (c *Context) Mode() Mode { return c.mode }

// TonicClass returns the tonic pitch class.
func (c *Context) TonicClass() int { return c.tonic.Class() }

// String returns a readable key name, e.g. "C major".
func (c *Context) String() string {
	return fmt.Sprintf("%s %s", c.tonic.Name(), c.mode)
}

// ScaleDegree returns the 1-7 scale degree of a pitch, or false when the
// pitch class is not a member of the diatonic set.
func (c *Context) ScaleDegree(p pitch.Pitch) (int, bool) {
	return c.DegreeOfClass(p.Class())
}

// DegreeOfClass is ScaleDegree for a bare pitch class.
func (c *Context) DegreeOfClass(pc int) (int, bool) {
	d, ok := c.diatonic[pc%12]
	return d, ok
}

// DegreeClass returns the pitch class of a 1-7 scale degree.
func (c *Context) DegreeClass(degree int) int {
	return c.degrees[(degree-1)%7]
}

// IsDiatonic reports whether a pitch class belongs to the diatonic set.
func (c *Context) IsDiatonic(pc int) bool {
	_, ok := c.diatonic[pc%12]
	return ok
}

// IsLeadingTone reports whether the pitch sits a semitone below the tonic,
// regardless of spelling. The leading tone of a minor key is chromatic
// against the natural-minor diatonic set.
func (c *Context) IsLeadingTone(p pitch.Pitch) bool {
	return (p.Class()-c.TonicClass()+12)%12 == 11
}

// ParallelMinor returns a fresh context on the same tonic in minor mode.
// Used to reinterpret candidate borrowed chords.
func (c *Context) ParallelMinor() *Context {
	return New(c.tonic, Minor)
}

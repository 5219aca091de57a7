package chord

import (
	"sort"
	"strings"

	"github.com/jmcortes/harmonia/internal/pitch"
)

// Voice identifies one of the four SATB parts.
type Voice string

// The four conventional choral parts.
const (
	Soprano Voice = "S"
	Alto    Voice = "A"
	Tenor   Voice = "T"
	Bass    Voice = "B"
)

// VoicesHighToLow lists the parts in score order (top staff first).
var VoicesHighToLow = []Voice{Soprano, Alto, Tenor, Bass}

// VoicesLowToHigh lists the parts from the bottom up; adjacent entries are
// the pairs checked for crossing, spacing, and overlap.
var VoicesLowToHigh = []Voice{Bass, Tenor, Alto, Soprano}

// Snapshot is one analyzed beat: a mapping of voice to sounding pitch.
// Voices may be absent (fewer than four sounding parts). Immutable once
// built.
type Snapshot struct {
	pitches map[Voice]pitch.Pitch
}

// NewSnapshot builds a snapshot from the sounding voices. The input map is
// copied.
func NewSnapshot(voices map[Voice]pitch.Pitch) Snapshot {
	m := make(map[Voice]pitch.Pitch, len(voices))
	for v, p := range voices {
		m[v] = p
	}
	return Snapshot{pitches: m}
}

// Pitch returns the pitch of a voice and whether the voice is sounding.
func (s Snapshot) Pitch(v Voice) (pitch.Pitch, bool) {
	p, ok := s.pitches[v]
	return p, ok
}

// Len returns the number of sounding voices.
func (s Snapshot) Len() int { return len(s.pitches) }

// Classes returns the distinct pitch classes present, sorted ascending.
func (s Snapshot) Classes() []int {
	seen := make(map[int]bool, len(s.pitches))
	for _, p := range s.pitches {
		seen[p.Class()] = true
	}
	out := make([]int, 0, len(seen))
	for pc := range seen {
		out = append(out, pc)
	}
	sort.Ints(out)
	return out
}

// HasClass reports whether a pitch class sounds in any voice.
func (s Snapshot) HasClass(pc int) bool {
	for _, p := range s.pitches {
		if p.Class() == pc%12 {
			return true
		}
	}
	return false
}

// SamePitchClasses reports whether two snapshots contain exactly the same
// pitch-class set.
func (s Snapshot) SamePitchClasses(o Snapshot) bool {
	a, b := s.Classes(), o.Classes()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SameVoicing reports whether two snapshots assign identical concrete
// pitches to identical voices.
func (s Snapshot) SameVoicing(o Snapshot) bool {
	if len(s.pitches) != len(o.pitches) {
		return false
	}
	for v, p := range s.pitches {
		q, ok := o.pitches[v]
		if !ok || p != q {
			return false
		}
	}
	return true
}

// bassUpClasses returns pitch classes ordered from the lowest sounding
// pitch upward, duplicates removed. Candidate roots are tried in this
// order so inference stays deterministic.
func (s Snapshot) bassUpClasses() []int {
	type vp struct {
		val int
		pc  int
	}
	all := make([]vp, 0, len(s.pitches))
	for _, p := range s.pitches {
		all = append(all, vp{val: p.Value(), pc: p.Class()})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].val < all[j].val })

	seen := make(map[int]bool, len(all))
	out := make([]int, 0, len(all))
	for _, e := range all {
		if !seen[e.pc] {
			seen[e.pc] = true
			out = append(out, e.pc)
		}
	}
	return out
}

// String renders the snapshot for logs, e.g. "S:G4 A:D4 T:B3 B:G2".
func (s Snapshot) String() string {
	var b strings.Builder
	for _, v := range VoicesHighToLow {
		if p, ok := s.pitches[v]; ok {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(string(v))
			b.WriteByte(':')
			b.WriteString(p.String())
		}
	}
	return b.String()
}

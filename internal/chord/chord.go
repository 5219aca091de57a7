package chord

import (
	"fmt"
	"sort"

	"github.com/jmcortes/harmonia/internal/pitch"
)

// Factor names a chord member by its role above the root.
type Factor string

// Chord factors. FactorOther covers tones that bucket into no slot.
const (
	FactorRoot    Factor = "1"
	FactorThird   Factor = "3"
	FactorFifth   Factor = "5"
	FactorSeventh Factor = "7"
	FactorNinth   Factor = "9"
	FactorOther   Factor = "?"
)

// factorFor buckets a semitone distance above the root (mod 12) into a
// chord factor. The fifth bucket is wide enough to absorb diminished and
// augmented fifths, the third bucket both third qualities.
func factorFor(semis int) Factor {
	switch semis {
	case 0:
		return FactorRoot
	case 3, 4:
		return FactorThird
	case 6, 7, 8:
		return FactorFifth
	case 10, 11:
		return FactorSeventh
	case 1, 2:
		return FactorNinth
	}
	return FactorOther
}

// inversionFor maps the bass voice's factor to an inversion index. A bass
// carrying anything else (a ninth, an unbucketed tone) reads as root
// position.
var inversionFor = map[Factor]int{
	FactorRoot:    0,
	FactorThird:   1,
	FactorFifth:   2,
	FactorSeventh: 3,
}

// Chord is a classified four-voice sonority: the snapshot it came from
// plus root, quality, per-voice factors and inversion.
type Chord struct {
	Snapshot  Snapshot
	RootPC    int
	Quality   Quality
	Factors   map[Voice]Factor
	Inversion int
	HasNinth  bool
}

// Analyze classifies a snapshot. When no template matches, the chord comes
// back with QualityUnknown and the bass pitch class standing in as root so
// downstream factor queries still have an anchor.
func Analyze(s Snapshot) Chord {
	root, quality := inferRoot(s)
	if quality == QualityUnknown {
		if bp, ok := s.Pitch(Bass); ok {
			root = bp.Class()
		} else {
			root = 0
		}
	}

	c := Chord{
		Snapshot: s,
		RootPC:   root,
		Quality:  quality,
		Factors:  make(map[Voice]Factor, s.Len()),
	}
	for _, v := range VoicesLowToHigh {
		p, ok := s.Pitch(v)
		if !ok {
			continue
		}
		semis := ((p.Class() - root) % 12 + 12) % 12
		c.Factors[v] = factorFor(semis)
	}

	if f, ok := c.Factors[Bass]; ok {
		if inv, known := inversionFor[f]; known {
			c.Inversion = inv
		}
	}

	c.HasNinth = c.detectNinth()
	return c
}

// detectNinth looks for a voice sounding a major or minor ninth, 13 or 14
// semitones, above the lowest root-class pitch in the snapshot.
func (c Chord) detectNinth() bool {
	lowest, found := pitch.Pitch{}, false
	for _, v := range VoicesLowToHigh {
		p, ok := c.Snapshot.Pitch(v)
		if !ok || p.Class() != c.RootPC {
			continue
		}
		if !found || p.Value() < lowest.Value() {
			lowest, found = p, true
		}
	}
	if !found {
		return false
	}
	for _, v := range VoicesLowToHigh {
		p, ok := c.Snapshot.Pitch(v)
		if !ok {
			continue
		}
		if d := p.Value() - lowest.Value(); d == 13 || d == 14 {
			return true
		}
	}
	return false
}

// HasSeventh reports whether the matched quality carries a seventh.
func (c Chord) HasSeventh() bool { return c.Quality.IsSeventh() }

// Factor returns the factor sung by a voice.
func (c Chord) Factor(v Voice) (Factor, bool) {
	f, ok := c.Factors[v]
	return f, ok
}

// VoicesWithFactor lists the voices carrying a factor, ordered bass up.
func (c Chord) VoicesWithFactor(f Factor) []Voice {
	var out []Voice
	for _, v := range VoicesLowToHigh {
		if c.Factors[v] == f {
			out = append(out, v)
		}
	}
	return out
}

// DoubledFactors lists factors sung by more than one voice. Unbucketed
// tones never count as doublings.
func (c Chord) DoubledFactors() []Factor {
	counts := make(map[Factor]int, len(c.Factors))
	for _, f := range c.Factors {
		if f == FactorOther {
			continue
		}
		counts[f]++
	}
	var out []Factor
	for f, n := range counts {
		if n > 1 {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MissingFactors lists the factors the quality calls for that no voice
// sings. Triads expect 1-3-5, seventh chords 1-3-5-7. Unknown qualities
// expect nothing.
func (c Chord) MissingFactors() []Factor {
	if c.Quality == QualityUnknown {
		return nil
	}
	want := []Factor{FactorRoot, FactorThird, FactorFifth}
	if c.HasSeventh() {
		want = append(want, FactorSeventh)
	}
	have := make(map[Factor]bool, len(c.Factors))
	for _, f := range c.Factors {
		have[f] = true
	}
	var out []Factor
	for _, f := range want {
		if !have[f] {
			out = append(out, f)
		}
	}
	return out
}

// IsComplete reports whether the triad core, root, third and fifth, is
// all present. A seventh chord missing only its seventh still reads as
// complete here; MissingFactors reports the seventh separately.
func (c Chord) IsComplete() bool {
	have := make(map[Factor]bool, len(c.Factors))
	for _, f := range c.Factors {
		have[f] = true
	}
	return have[FactorRoot] && have[FactorThird] && have[FactorFifth]
}

// IntervalsFromRoot returns the distinct semitone distances above the root
// sounded by the snapshot, sorted ascending.
func (c Chord) IntervalsFromRoot() []int {
	seen := make(map[int]bool, c.Snapshot.Len())
	for _, v := range VoicesLowToHigh {
		p, ok := c.Snapshot.Pitch(v)
		if !ok {
			continue
		}
		seen[((p.Class()-c.RootPC)%12+12)%12] = true
	}
	out := make([]int, 0, len(seen))
	for iv := range seen {
		out = append(out, iv)
	}
	sort.Ints(out)
	return out
}

func (c Chord) String() string {
	return fmt.Sprintf("root=%d quality=%s inv=%d %s", c.RootPC, c.Quality, c.Inversion, c.Snapshot)
}

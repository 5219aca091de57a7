package rules

import (
	"strings"

	"github.com/jmcortes/harmonia/internal/chord"
	"github.com/jmcortes/harmonia/internal/key"
	"github.com/jmcortes/harmonia/internal/pitch"
)

// plainDiatonicLabels are analyzer labels that rule out a local
// leading-tone reading: an ordinary diatonic chord tonicizes nothing.
var plainDiatonicLabels = map[string]bool{
	"I": true, "ii": true, "iii": true, "IV": true, "V": true,
	"vi": true, "vii°": true,
	"i": true, "II°": true, "III": true, "iv": true, "VII": true, "VI": true,
}

// detectLeadingToneResolution flags a leading tone that fails to resolve.
// Two candidacies: the key's own leading tone inside a dominant-function
// chord, and a local leading tone, the major third of a chord resolving
// down a fifth when its label is secondary or otherwise not plainly
// diatonic. Resolution means arriving on the tonic pitch class or rising
// a semitone; a ladder of pardons covers deceptive cadences, dominant
// pairs, the V6 bass fall to vi, and covered inner-voice resolutions.
func detectLeadingToneResolution(s Step) (*finding, error) {
	k := s.Key
	root1 := s.First.Chord.RootPC
	root2 := s.Second.Chord.RootPC
	degree1 := coarseDegree(k, root1)
	dest := coarseDegree(k, root2)

	for _, v := range chord.VoicesHighToLow {
		n1, ok := s.First.Chord.Snapshot.Pitch(v)
		if !ok {
			continue
		}

		candidate, local := false, false

		if k.IsLeadingTone(n1) && (degree1 == "V" || degree1 == "vii°") {
			candidate = true
		}
		if !candidate {
			rootMove := (root2 - root1 + 12) % 12
			if rootMove == 5 || rootMove == 7 {
				label := s.First.Degree
				if strings.Contains(label, "/") || !plainDiatonicLabels[label] {
					if (n1.Class()-root1+12)%12 == 4 {
						candidate, local = true, true
					}
				}
			}
		}
		if !candidate {
			continue
		}

		// On the mediant the leading tone is merely the chord's fifth.
		if degree1 == "III" || degree1 == "iii" {
			continue
		}

		n2, ok := s.Second.Chord.Snapshot.Pitch(v)
		if !ok {
			continue
		}

		if n2.Class() == k.TonicClass() {
			continue
		}
		if pitch.Semitones(n1, n2) == 1 {
			continue
		}

		// Only arrivals on the submediant or the tonic chord keep the
		// obligation alive for a tonal leading tone; local ones stay
		// strict everywhere.
		submediant := dest == "vi" || dest == "VI"
		if !submediant && dest != "I" && dest != "i" && !local {
			continue
		}

		if IsDominantPair(s) {
			continue
		}

		// V6 deceptive cadence: the bass leading tone may fall to the
		// root of vi in major.
		if v == chord.Bass && !local && k.Mode() == key.Major && dest == "vi" {
			if f, ok := s.Second.Chord.Factor(v); ok && f == chord.FactorRoot {
				continue
			}
		}

		// Covered (indirect) resolution: an inner leading tone drops to
		// the fifth while the next voice up takes the tonic.
		if v == chord.Alto || v == chord.Tenor {
			if f, ok := s.Second.Chord.Factor(v); ok && f == chord.FactorFifth {
				upper := chord.Soprano
				if v == chord.Tenor {
					upper = chord.Alto
				}
				if uf, ok := s.Second.Chord.Factor(upper); ok && uf == chord.FactorRoot {
					continue
				}
			}
		}

		return &finding{voices: []chord.Voice{v}}, nil
	}
	return nil, nil
}

// detectSeventhResolution flags a chordal seventh that does not fall by
// step (one or two semitones). The voicing-change exception is registered
// on the definition.
func detectSeventhResolution(s Step) (*finding, error) {
	for _, v := range s.First.Chord.VoicesWithFactor(chord.FactorSeventh) {
		n1, ok := s.First.Chord.Snapshot.Pitch(v)
		if !ok {
			continue
		}
		n2, ok := s.Second.Chord.Snapshot.Pitch(v)
		if !ok {
			continue
		}
		if d := pitch.Semitones(n1, n2); d == -1 || d == -2 {
			continue
		}
		return &finding{voices: []chord.Voice{v}}, nil
	}
	return nil, nil
}

package rules

import (
	"strings"

	"github.com/jmcortes/harmonia/internal/analysis"
	"github.com/jmcortes/harmonia/internal/chord"
)

// isDominantLabel reports whether an analyzed degree marks a dominant-
// family chord for doubling purposes: plain V or vii°, or any secondary
// dominant slash label.
func isDominantLabel(degree string) bool {
	if degree == "V" || degree == "vii°" {
		return true
	}
	if strings.HasPrefix(degree, "V/") {
		return true
	}
	return strings.HasPrefix(degree, "vii") && strings.Contains(degree, "/")
}

// detectDuplicatedLeadingTone flags a doubled chord third in a dominant-
// family chord, where the third is the leading tone. Both chords of the
// step are checked independently; the first one in error wins.
func detectDuplicatedLeadingTone(s Step) (*finding, error) {
	for i := 0; i < 2; i++ {
		a := s.chordAt(i)
		if !isDominantLabel(a.Degree) {
			continue
		}
		voices := a.Chord.VoicesWithFactor(chord.FactorThird)
		if len(voices) > 1 {
			return &finding{chordIndex: i, voices: voices}, nil
		}
	}
	return nil, nil
}

// detectDuplicatedSeventh flags a doubled chordal seventh in either chord
// of the step. Dissonances resolve; two copies cannot both resolve
// cleanly.
func detectDuplicatedSeventh(s Step) (*finding, error) {
	for i := 0; i < 2; i++ {
		a := s.chordAt(i)
		if a.Chord.Snapshot.Len() < 2 {
			continue
		}
		voices := a.Chord.VoicesWithFactor(chord.FactorSeventh)
		if len(voices) > 1 {
			return &finding{chordIndex: i, voices: voices}, nil
		}
	}
	return nil, nil
}

// detectImproperOmission flags a chord missing an essential factor: the
// third always, the seventh when the quality calls for one. Only the first
// chord of the step is checked; overlapping pairs cover the second.
// Chromatic specials are exempt, as is anything whose interval content
// reads as an augmented-sixth shape.
func detectImproperOmission(s Step) (*finding, error) {
	a := s.First
	if a.Special != analysis.SpecialNone {
		return nil, nil
	}
	if looksChromatic(a.Chord) {
		return nil, nil
	}

	have := make(map[chord.Factor]bool, len(a.Chord.Factors))
	for _, f := range a.Chord.Factors {
		if f != chord.FactorOther {
			have[f] = true
		}
	}

	if !have[chord.FactorThird] {
		return &finding{
			voices:   nil,
			missing:  chord.FactorThird,
			severity: SeverityCritical,
		}, nil
	}
	if a.Chord.HasSeventh() && !have[chord.FactorSeventh] {
		return &finding{
			voices:   nil,
			missing:  chord.FactorSeventh,
			severity: SeverityWarning,
		}, nil
	}
	return nil, nil
}

// looksChromatic recognizes augmented-sixth interval shapes by content:
// an augmented sixth above the root, or a tritone without a perfect fifth
// in a chord of three or more distinct tones. Such chords do not follow
// the 1-3-5(-7) morphology the omission rule assumes.
func looksChromatic(c chord.Chord) bool {
	intervals := c.IntervalsFromRoot()
	if len(intervals) == 0 {
		return false
	}
	hasTritone, hasFifth, hasAugSixth := false, false, false
	for _, iv := range intervals {
		switch iv {
		case 6:
			hasTritone = true
		case 7:
			hasFifth = true
		case 10:
			hasAugSixth = true
		}
	}
	if hasAugSixth {
		return true
	}
	return hasTritone && len(intervals) >= 3 && !hasFifth
}

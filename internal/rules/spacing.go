package rules

import (
	"github.com/jmcortes/harmonia/internal/chord"
	"github.com/jmcortes/harmonia/internal/pitch"
)

// detectVoiceCrossing flags adjacent voices out of their natural low-to-
// high order within the first chord of the step.
func detectVoiceCrossing(s Step) (*finding, error) {
	snap := s.First.Chord.Snapshot
	for _, pr := range adjacentPairs {
		lower, ok := snap.Pitch(pr[0])
		if !ok {
			continue
		}
		upper, ok := snap.Pitch(pr[1])
		if !ok {
			continue
		}
		if lower.Value() > upper.Value() {
			return &finding{voices: []chord.Voice{pr[0], pr[1]}}, nil
		}
	}
	return nil, nil
}

// upperAdjacentPairs are the spacing-limited neighbors; tenor and bass may
// spread freely.
var upperAdjacentPairs = [2][2]chord.Voice{
	{chord.Alto, chord.Soprano},
	{chord.Tenor, chord.Alto},
}

// detectMaximumDistance flags adjacent upper voices more than an octave
// apart in the first chord.
func detectMaximumDistance(s Step) (*finding, error) {
	snap := s.First.Chord.Snapshot
	for _, pr := range upperAdjacentPairs {
		lower, ok := snap.Pitch(pr[0])
		if !ok {
			continue
		}
		upper, ok := snap.Pitch(pr[1])
		if !ok {
			continue
		}
		if abs(pitch.Semitones(lower, upper)) > 12 {
			return &finding{voices: []chord.Voice{pr[0], pr[1]}}, nil
		}
	}
	return nil, nil
}

// detectVoiceOverlap flags a voice invading the register its neighbor held
// in the previous chord: the upper voice dropping below where the lower
// one was, or the lower rising above where the upper one was.
func detectVoiceOverlap(s Step) (*finding, error) {
	for _, pr := range adjacentPairs {
		l1, l2, ok := s.notes(pr[0])
		if !ok {
			continue
		}
		u1, u2, ok := s.notes(pr[1])
		if !ok {
			continue
		}
		if u2.Value() < l1.Value() || l2.Value() > u1.Value() {
			return &finding{voices: []chord.Voice{pr[0], pr[1]}}, nil
		}
	}
	return nil, nil
}

// detectExcessiveMelodicMotion flags any voice leaping more than an
// octave. All offending voices are reported together, attributed to the
// arrival chord.
func detectExcessiveMelodicMotion(s Step) (*finding, error) {
	var offenders []chord.Voice
	for _, v := range chord.VoicesHighToLow {
		n1, n2, ok := s.notes(v)
		if !ok {
			continue
		}
		if abs(pitch.Semitones(n1, n2)) > 12 {
			offenders = append(offenders, v)
		}
	}
	if len(offenders) == 0 {
		return nil, nil
	}
	return &finding{chordIndex: 1, voices: offenders}, nil
}

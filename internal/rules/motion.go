package rules

import (
	"github.com/jmcortes/harmonia/internal/chord"
	"github.com/jmcortes/harmonia/internal/pitch"
)

// detectParallelFifths flags two consecutive fifths (perfect or augmented,
// judged by interval name) between the same pair of voices, in parallel or
// contrary motion. The first offending pair wins.
func detectParallelFifths(s Step) (*finding, error) {
	for _, pr := range upperFirstPairs {
		a1, a2, ok := s.notes(pr[0])
		if !ok {
			continue
		}
		b1, b2, ok := s.notes(pr[1])
		if !ok {
			continue
		}
		if !pitch.Between(a1, b1).IsFifth() || !pitch.Between(a2, b2).IsFifth() {
			continue
		}
		m := pitch.ClassifyMotion(a1, a2, b1, b2)
		if m == pitch.MotionParallel || m == pitch.MotionContrary {
			return &finding{voices: []chord.Voice{pr[0], pr[1]}, motion: m}, nil
		}
	}
	return nil, nil
}

// detectParallelOctaves is the octave counterpart of detectParallelFifths.
// Unisons count as octaves.
func detectParallelOctaves(s Step) (*finding, error) {
	for _, pr := range upperFirstPairs {
		a1, a2, ok := s.notes(pr[0])
		if !ok {
			continue
		}
		b1, b2, ok := s.notes(pr[1])
		if !ok {
			continue
		}
		if !pitch.Between(a1, b1).IsOctave() || !pitch.Between(a2, b2).IsOctave() {
			continue
		}
		m := pitch.ClassifyMotion(a1, a2, b1, b2)
		if m == pitch.MotionParallel || m == pitch.MotionContrary {
			return &finding{voices: []chord.Voice{pr[0], pr[1]}, motion: m}, nil
		}
	}
	return nil, nil
}

// detectDirectFifths flags a pair of voices reaching a perfect fifth in
// similar motion. A fifth already sounding belongs to the parallel rule,
// and a diminished start belongs to the unequal-fifths rule. The outer
// pair (bass and soprano) is pardoned when the soprano moves by step and
// the bass by a third, fourth or fifth; any other pair when exactly one of
// the two voices moves by step.
func detectDirectFifths(s Step) (*finding, error) {
	for _, pr := range upperFirstPairs {
		a1, a2, ok := s.notes(pr[0])
		if !ok {
			continue
		}
		b1, b2, ok := s.notes(pr[1])
		if !ok {
			continue
		}
		if !pitch.Between(a2, b2).IsPerfectFifth() {
			continue
		}
		initial := pitch.Between(a1, b1)
		if initial.IsPerfectFifth() || initial.IsDiminishedFifth() {
			continue
		}
		if pitch.ClassifyMotion(a1, a2, b1, b2) != pitch.MotionParallel {
			continue
		}

		moveA := abs(pitch.Semitones(a1, a2))
		moveB := abs(pitch.Semitones(b1, b2))
		stepA := moveA <= 2
		stepB := moveB <= 2

		if pairHas(pr, chord.Bass) && pairHas(pr, chord.Soprano) {
			sopranoStep, bassMove := stepA, moveB
			if pr[0] != chord.Soprano {
				sopranoStep, bassMove = stepB, moveA
			}
			if sopranoStep && bassMove >= 3 && bassMove <= 7 {
				continue
			}
		} else if stepA != stepB {
			continue
		}

		return &finding{voices: []chord.Voice{pr[0], pr[1]}, motion: pitch.MotionParallel}, nil
	}
	return nil, nil
}

// detectDirectOctaves flags a pair of voices reaching an octave or unison
// in similar motion. The outer-pair pardon is stricter than for fifths:
// the soprano must rise exactly a semitone while the bass rises a perfect
// fourth.
func detectDirectOctaves(s Step) (*finding, error) {
	for _, pr := range upperFirstPairs {
		a1, a2, ok := s.notes(pr[0])
		if !ok {
			continue
		}
		b1, b2, ok := s.notes(pr[1])
		if !ok {
			continue
		}
		if !pitch.Between(a2, b2).IsOctave() {
			continue
		}
		if pitch.Between(a1, b1).IsOctave() {
			continue
		}
		if pitch.ClassifyMotion(a1, a2, b1, b2) != pitch.MotionParallel {
			continue
		}

		moveA := pitch.Semitones(a1, a2)
		moveB := pitch.Semitones(b1, b2)
		stepA := abs(moveA) <= 2
		stepB := abs(moveB) <= 2

		if pairHas(pr, chord.Bass) && pairHas(pr, chord.Soprano) {
			sopranoMove, bassMove := moveA, moveB
			if pr[0] != chord.Soprano {
				sopranoMove, bassMove = moveB, moveA
			}
			if sopranoMove == 1 && bassMove == 5 {
				continue
			}
		} else if stepA != stepB {
			continue
		}

		return &finding{voices: []chord.Voice{pr[0], pr[1]}, motion: pitch.MotionParallel}, nil
	}
	return nil, nil
}

// bassPairs restricts unequal-fifths detection to pairs involving the bass.
var bassPairs = [3][2]chord.Voice{
	{chord.Bass, chord.Soprano},
	{chord.Bass, chord.Alto},
	{chord.Bass, chord.Tenor},
}

// detectUnequalFifths flags a diminished fifth opening onto a perfect
// fifth against the bass. The parallel-tenths exception is registered on
// the definition rather than checked here.
func detectUnequalFifths(s Step) (*finding, error) {
	for _, pr := range bassPairs {
		a1, a2, ok := s.notes(pr[0])
		if !ok {
			continue
		}
		b1, b2, ok := s.notes(pr[1])
		if !ok {
			continue
		}
		if !pitch.Between(a1, b1).IsDiminishedFifth() {
			continue
		}
		if !pitch.Between(a2, b2).IsPerfectFifth() {
			continue
		}
		return &finding{voices: []chord.Voice{pr[0], pr[1]}}, nil
	}
	return nil, nil
}

// hasParallelTenths reports whether bass and soprano move in parallel
// thirds or tenths across the step.
func hasParallelTenths(s Step) bool {
	b1, b2, ok := s.notes(chord.Bass)
	if !ok {
		return false
	}
	s1, s2, ok := s.notes(chord.Soprano)
	if !ok {
		return false
	}
	if !pitch.Between(b1, s1).IsThird() || !pitch.Between(b2, s2).IsThird() {
		return false
	}
	return pitch.ClassifyMotion(b1, b2, s1, s2) == pitch.MotionParallel
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

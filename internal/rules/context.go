package rules

import (
	"fmt"

	"github.com/jmcortes/harmonia/internal/analysis"
	"github.com/jmcortes/harmonia/internal/key"
)

// IsVoicingChange reports whether the two chords of a step are the same
// harmony redistributed: same root, quality and inversion, identical pitch
// classes, but a different concrete pitch assignment.
func IsVoicingChange(s Step) bool {
	c1, c2 := s.First.Chord, s.Second.Chord
	if c1.RootPC != c2.RootPC || c1.Quality != c2.Quality || c1.Inversion != c2.Inversion {
		return false
	}
	if !c1.Snapshot.SamePitchClasses(c2.Snapshot) {
		return false
	}
	return !c1.Snapshot.SameVoicing(c2.Snapshot)
}

// IsDominantPair reports whether the step moves between the fifth and
// seventh degrees, in either order. Both chords sharing the dominant
// function confirms the pair; a missing function on either side counts in
// its favor rather than against.
func IsDominantPair(s Step) bool {
	d1, d2 := s.First.DegreeNum, s.Second.DegreeNum
	if !(d1 == 5 && d2 == 7) && !(d1 == 7 && d2 == 5) {
		return false
	}
	f1, f2 := s.First.Function, s.Second.Function
	if f1 == analysis.Dominant && f2 == analysis.Dominant {
		return true
	}
	if f1 == "" || f2 == "" {
		return true
	}
	return f1 == analysis.Dominant || f2 == analysis.Dominant
}

// DetectModulation reports the new key when the surrounding progression
// modulates.
//
// TODO: infer local tonicizations from accumulated chromatic evidence.
// Until then no modulation is ever reported.
func DetectModulation(s Step) (string, bool) {
	return "", false
}

// IsInPattern reports whether the step sits inside a melodic/harmonic
// sequence, where some rules relax.
//
// TODO: detect sequences by comparing transposition intervals across
// adjacent pairs. Until then no step is considered sequential.
func IsInPattern(s Step) bool {
	return false
}

// knownExceptions lists the exception kinds evalException can dispatch.
// Definitions referencing anything else are rejected at engine build time.
var knownExceptions = map[ExceptionKind]bool{
	ExceptionVoicingChange:         true,
	ExceptionDominantPair:          true,
	ExceptionSecondFifthDiminished: true,
	ExceptionParallelTenths:        true,
}

// evalException dispatches a registered exception kind. Returning true
// suppresses the violation under evaluation.
func evalException(kind ExceptionKind, s Step) (bool, error) {
	switch kind {
	case ExceptionVoicingChange:
		return IsVoicingChange(s), nil
	case ExceptionDominantPair:
		return IsDominantPair(s), nil
	case ExceptionSecondFifthDiminished:
		// Predicate pending; never applies.
		return false, nil
	case ExceptionParallelTenths:
		return hasParallelTenths(s), nil
	}
	return false, fmt.Errorf("unregistered exception kind %q", kind)
}

// Coarse degree reading used by rule-side heuristics: every pitch class
// maps onto a nearby degree, chromatic ones rounding to a neighbor. This
// deliberately ignores the analyzer's chromatic labels.
var coarseDegreeOf = map[int]int{
	0: 1, 1: 2, 2: 2, 3: 3, 4: 3, 5: 4, 6: 4,
	7: 5, 8: 6, 9: 6, 10: 7, 11: 7,
}

var (
	coarseMajorNumerals = [7]string{"I", "ii", "iii", "IV", "V", "vi", "vii°"}
	coarseMinorNumerals = [7]string{"i", "ii°", "III", "iv", "V", "VI", "vii°"}
)

// coarseDegree names the diatonic degree a root pitch class approximates
// in the step's key.
func coarseDegree(k *key.Context, rootPC int) string {
	d := coarseDegreeOf[(rootPC-k.TonicClass()+12)%12]
	if k.Mode() == key.Minor {
		return coarseMinorNumerals[d-1]
	}
	return coarseMajorNumerals[d-1]
}

package rules

import (
	"fmt"

	"github.com/jmcortes/harmonia/internal/analysis"
	"github.com/jmcortes/harmonia/internal/chord"
	"github.com/jmcortes/harmonia/internal/key"
	"github.com/jmcortes/harmonia/internal/pitch"
)

// Tier ranks rules by pedagogical priority.
type Tier int

// Rule tiers. Lower is more severe.
const (
	TierCritical  Tier = 1
	TierImportant Tier = 2
	TierAdvanced  Tier = 3
)

// Severity distinguishes omission findings.
type Severity string

// Omission severities.
const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// ExceptionKind names a registered exception predicate. Definitions refer
// to exceptions by kind; the engine dispatches on it.
type ExceptionKind string

// Registered exception kinds.
const (
	// ExceptionVoicingChange suppresses a violation when both chords are
	// the same harmony redistributed across the voices.
	ExceptionVoicingChange ExceptionKind = "voicing_change"
	// ExceptionDominantPair suppresses a violation between V and vii°,
	// which share the dominant function and its tritone.
	ExceptionDominantPair ExceptionKind = "v_vii_pair"
	// ExceptionSecondFifthDiminished would allow P5 moving to d5. The
	// predicate is not implemented yet and never applies.
	ExceptionSecondFifthDiminished ExceptionKind = "second_fifth_diminished"
	// ExceptionParallelTenths allows unequal fifths covered by parallel
	// tenths between bass and soprano.
	ExceptionParallelTenths ExceptionKind = "parallel_tenths"
)

// Definition is the declarative half of a rule: identity, messages and
// the exception kinds that may suppress it. The detector logic is bound
// by name at engine construction.
type Definition struct {
	Name       string
	Tier       Tier
	Color      string
	ShortMsg   string
	FullMsg    string
	Exceptions []ExceptionKind
	Enabled    bool
}

// Violation is one detected rule breach.
type Violation struct {
	Rule       string `json:"rule"`
	Tier       Tier   `json:"tier"`
	Color      string `json:"color"`
	ShortMsg   string `json:"short_msg"`
	FullMsg    string `json:"full_msg,omitempty"`
	Confidence int    `json:"confidence"`
	// ChordIndex locates the offending chord: within a pair it is 0 or
	// 1; ValidateProgression rewrites it to the absolute position.
	ChordIndex int           `json:"chord_index"`
	Voices     []chord.Voice `json:"voices,omitempty"`
	// Motion is set by the rules that distinguish parallel from
	// contrary movement, empty elsewhere.
	Motion pitch.Motion `json:"motion,omitempty"`
	// MissingFactor and Severity are set by the omission rule only.
	MissingFactor chord.Factor `json:"missing_factor,omitempty"`
	Severity      Severity     `json:"severity,omitempty"`
}

// EvalError is a typed evaluation failure, reported alongside violations
// rather than aborting the run.
type EvalError struct {
	Code      string
	Rule      string
	Exception ExceptionKind
	Err       error
}

// EvalError codes.
const (
	CodeDetectorFailed   = "detector_failed"
	CodeExceptionFailed  = "exception_failed"
	CodeUnknownException = "unknown_exception"
)

func (e *EvalError) Error() string {
	if e.Exception != "" {
		return fmt.Sprintf("rules: %s: rule %q exception %q: %v", e.Code, e.Rule, e.Exception, e.Err)
	}
	return fmt.Sprintf("rules: %s: rule %q: %v", e.Code, e.Rule, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// Step is the unit the detectors inspect: two consecutive analyzed chords
// in a key.
type Step struct {
	Key    *key.Context
	First  analysis.Analysis
	Second analysis.Analysis
}

// notes returns a voice's pitch in both chords of the step.
func (s Step) notes(v chord.Voice) (p1, p2 pitch.Pitch, ok bool) {
	p1, ok1 := s.First.Chord.Snapshot.Pitch(v)
	p2, ok2 := s.Second.Chord.Snapshot.Pitch(v)
	return p1, p2, ok1 && ok2
}

func (s Step) chordAt(i int) analysis.Analysis {
	if i == 1 {
		return s.Second
	}
	return s.First
}

// finding is the raw detector output before messages and confidence are
// attached.
type finding struct {
	chordIndex int
	voices     []chord.Voice
	motion     pitch.Motion
	missing    chord.Factor
	severity   Severity
}

// Voice pairs in detection order. upperFirstPairs lists every pair with
// the higher voice first; adjacentPairs lists neighbors low to high.
var (
	upperFirstPairs = [6][2]chord.Voice{
		{chord.Soprano, chord.Alto},
		{chord.Soprano, chord.Tenor},
		{chord.Soprano, chord.Bass},
		{chord.Alto, chord.Tenor},
		{chord.Alto, chord.Bass},
		{chord.Tenor, chord.Bass},
	}
	adjacentPairs = [3][2]chord.Voice{
		{chord.Bass, chord.Tenor},
		{chord.Tenor, chord.Alto},
		{chord.Alto, chord.Soprano},
	}
)

func pairHas(pr [2]chord.Voice, v chord.Voice) bool {
	return pr[0] == v || pr[1] == v
}

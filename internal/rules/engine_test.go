package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcortes/harmonia/internal/analysis"
	"github.com/jmcortes/harmonia/internal/chord"
	"github.com/jmcortes/harmonia/internal/key"
	"github.com/jmcortes/harmonia/internal/pitch"
)

// Voicings are given bass to soprano.
type voicing [4]string

func mustSnapshot(t *testing.T, v voicing) chord.Snapshot {
	t.Helper()
	m := make(map[chord.Voice]pitch.Pitch, 4)
	for i, name := range v {
		if name == "" {
			continue
		}
		p, err := pitch.Parse(name)
		require.NoError(t, err)
		m[chord.VoicesLowToHigh[i]] = p
	}
	return chord.NewSnapshot(m)
}

func stepIn(t *testing.T, tonic string, mode key.Mode, first, second voicing) Step {
	t.Helper()
	k := key.New(pitch.MustParse(tonic+"4"), mode)
	az := analysis.NewAnalyzer(k, nil)
	return Step{
		Key:    k,
		First:  az.Analyze(mustSnapshot(t, first)),
		Second: az.Analyze(mustSnapshot(t, second)),
	}
}

func stepInC(t *testing.T, first, second voicing) Step {
	t.Helper()
	return stepIn(t, "C", key.Major, first, second)
}

func testDefs() []Definition {
	return []Definition{
		{Name: "parallel_fifths", Tier: TierCritical, Color: "#FF0000", ShortMsg: "Parallel fifths", Enabled: true,
			Exceptions: []ExceptionKind{ExceptionDominantPair, ExceptionVoicingChange, ExceptionSecondFifthDiminished}},
		{Name: "parallel_octaves", Tier: TierCritical, Color: "#FF0000", ShortMsg: "Parallel octaves", Enabled: true},
		{Name: "direct_fifths", Tier: TierCritical, Color: "#FFFF00", ShortMsg: "Direct fifth", Enabled: true,
			Exceptions: []ExceptionKind{ExceptionVoicingChange}},
		{Name: "direct_octaves", Tier: TierCritical, Color: "#FFFF00", ShortMsg: "Direct octave", Enabled: true},
		{Name: "unequal_fifths", Tier: TierCritical, Color: "#FFA500", ShortMsg: "Unequal fifths", Enabled: true,
			Exceptions: []ExceptionKind{ExceptionParallelTenths}},
		{Name: "leading_tone_resolution", Tier: TierCritical, Color: "#CD853F", ShortMsg: "Unresolved leading tone", Enabled: true},
		{Name: "seventh_resolution", Tier: TierCritical, Color: "#FF0000", ShortMsg: "Unresolved seventh", Enabled: true,
			Exceptions: []ExceptionKind{ExceptionVoicingChange}},
		{Name: "voice_crossing", Tier: TierCritical, Color: "#FF0000", ShortMsg: "Voice crossing", Enabled: true},
		{Name: "maximum_distance", Tier: TierImportant, Color: "#FFFF00", ShortMsg: "Excessive spacing", Enabled: true},
		{Name: "voice_overlap", Tier: TierImportant, Color: "#FFFF00", ShortMsg: "Voice overlap", Enabled: true},
		{Name: "duplicated_leading_tone", Tier: TierCritical, Color: "#FF0000", ShortMsg: "Doubled leading tone", Enabled: true},
		{Name: "duplicated_seventh", Tier: TierCritical, Color: "#DC143C", ShortMsg: "Doubled seventh", Enabled: true},
		{Name: "excessive_melodic_motion", Tier: TierImportant, Color: "#FF8C00", ShortMsg: "Excessive melodic leap", Enabled: true},
		{Name: "improper_omission", Tier: TierImportant, Color: "#FF8C00", ShortMsg: "Omitted chord factor", Enabled: true},
	}
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(testDefs(), nil)
	require.NoError(t, err)
	return e
}

func rulesOf(vs []Violation) []string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.Rule
	}
	return names
}

func TestValidatePair_CanonicalDominantResolution(t *testing.T) {
	// G7 resolving to an incomplete tonic, every tendency tone handled:
	// leading tone up, seventh down, bass to the root.
	s := stepInC(t,
		voicing{"G2", "D3", "B3", "F4"},
		voicing{"C3", "C3", "C4", "E4"},
	)
	vs, errs := testEngine(t).ValidatePair(s)
	assert.Empty(t, vs)
	assert.Empty(t, errs)
}

func TestDetectParallelFifths(t *testing.T) {
	s := stepInC(t,
		voicing{"C3", "G3", "E4", "C5"},
		voicing{"D3", "A3", "F4", "D5"},
	)
	f, err := detectParallelFifths(s)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, []chord.Voice{chord.Tenor, chord.Bass}, f.voices)
	assert.Equal(t, pitch.MotionParallel, f.motion)
}

func TestDetectParallelFifths_ObliqueIsClean(t *testing.T) {
	// The fifth persists but only one voice moves.
	s := stepInC(t,
		voicing{"C3", "G3", "E4", "C5"},
		voicing{"C3", "G3", "E4", "E5"},
	)
	f, err := detectParallelFifths(s)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestValidatePair_VoicingChangeSuppressesParallels(t *testing.T) {
	// The same root-position tonic triad shifted up an octave in three
	// voices. The tenor-bass fifth moves in parallel, but nothing new is
	// sounded.
	s := stepInC(t,
		voicing{"C3", "G3", "E4", "C5"},
		voicing{"C4", "G4", "E5", "C5"},
	)

	f, err := detectParallelFifths(s)
	require.NoError(t, err)
	require.NotNil(t, f, "detector itself should fire")

	assert.True(t, IsVoicingChange(s))

	vs, errs := testEngine(t).ValidatePair(s)
	assert.Empty(t, errs)
	assert.NotContains(t, rulesOf(vs), "parallel_fifths")
}

func TestIsVoicingChange_DifferentHarmony(t *testing.T) {
	s := stepInC(t,
		voicing{"C3", "G3", "E4", "C5"},
		voicing{"D3", "A3", "F4", "D5"},
	)
	assert.False(t, IsVoicingChange(s))
}

func TestIsDominantPair(t *testing.T) {
	vToViiDim := stepInC(t,
		voicing{"G2", "D3", "B3", "G4"},
		voicing{"B2", "D3", "F3", "B3"},
	)
	assert.True(t, IsDominantPair(vToViiDim))

	iToV := stepInC(t,
		voicing{"C3", "G3", "E4", "C5"},
		voicing{"G2", "D3", "B3", "G4"},
	)
	assert.False(t, IsDominantPair(iToV))
}

func TestDetectParallelOctaves_ContraryMotion(t *testing.T) {
	s := stepInC(t,
		voicing{"C3", "E3", "G3", "C4"},
		voicing{"G2", "D3", "B3", "G4"},
	)
	f, err := detectParallelOctaves(s)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, []chord.Voice{chord.Soprano, chord.Bass}, f.voices)
	assert.Equal(t, pitch.MotionContrary, f.motion)

	// At the engine level contrary motion rewrites the message.
	vs, errs := testEngine(t).ValidatePair(s)
	assert.Empty(t, errs)
	require.Len(t, vs, 1)
	assert.Equal(t, "parallel_octaves", vs[0].Rule)
	assert.Equal(t, "Consecutive octaves", vs[0].ShortMsg)
	assert.Equal(t, 100, vs[0].Confidence)
}

func TestDetectDirectFifths(t *testing.T) {
	t.Run("inner pair both stepping", func(t *testing.T) {
		s := stepInC(t,
			voicing{"C3", "G3", "Eb4", "C5"},
			voicing{"C3", "A3", "E4", "C5"},
		)
		f, err := detectDirectFifths(s)
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, []chord.Voice{chord.Alto, chord.Tenor}, f.voices)
	})

	t.Run("horn fifths pardon", func(t *testing.T) {
		// Soprano by step, bass by a fourth, onto an outer fifth.
		s := stepInC(t,
			voicing{"C3", "A3", "F4", "B4"},
			voicing{"F3", "A3", "F4", "C5"},
		)
		f, err := detectDirectFifths(s)
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("outer pair soprano leaping", func(t *testing.T) {
		s := stepInC(t,
			voicing{"C3", "A3", "F4", "A4"},
			voicing{"F3", "A3", "F4", "C5"},
		)
		f, err := detectDirectFifths(s)
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, []chord.Voice{chord.Soprano, chord.Bass}, f.voices)
	})
}

func TestDirectFifths_ConfidenceByPair(t *testing.T) {
	e := testEngine(t)

	outer := stepInC(t,
		voicing{"C3", "A3", "F4", "A4"},
		voicing{"F3", "A3", "F4", "C5"},
	)
	vs, _ := e.ValidatePair(outer)
	require.Contains(t, rulesOf(vs), "direct_fifths")
	for _, v := range vs {
		if v.Rule == "direct_fifths" {
			assert.Equal(t, 100, v.Confidence)
		}
	}

	inner := stepInC(t,
		voicing{"C3", "G3", "Eb4", "C5"},
		voicing{"C3", "A3", "E4", "C5"},
	)
	vs, _ = e.ValidatePair(inner)
	require.Contains(t, rulesOf(vs), "direct_fifths")
	for _, v := range vs {
		if v.Rule == "direct_fifths" {
			assert.Equal(t, 70, v.Confidence)
		}
	}
}

func TestDetectDirectOctaves(t *testing.T) {
	t.Run("outer pair pardon", func(t *testing.T) {
		// Soprano up a semitone against the bass up a fourth.
		s := stepInC(t,
			voicing{"C3", "G3", "A3", "E4"},
			voicing{"F3", "G3", "A3", "F4"},
		)
		f, err := detectDirectOctaves(s)
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("outer pair soprano whole step", func(t *testing.T) {
		s := stepInC(t,
			voicing{"C3", "G3", "A3", "Eb4"},
			voicing{"F3", "G3", "A3", "F4"},
		)
		f, err := detectDirectOctaves(s)
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, []chord.Voice{chord.Soprano, chord.Bass}, f.voices)
	})
}

func TestUnequalFifths(t *testing.T) {
	// viio6-flavored half-diminished sonority opening its tritone onto a
	// perfect fifth with the bass.
	fire := stepInC(t,
		voicing{"B2", "F3", "A3", "G4"},
		voicing{"C3", "G3", "G3", "G4"},
	)
	f, err := detectUnequalFifths(fire)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, []chord.Voice{chord.Bass, chord.Tenor}, f.voices)

	vs, errs := testEngine(t).ValidatePair(fire)
	assert.Empty(t, errs)
	require.Contains(t, rulesOf(vs), "unequal_fifths")
	for _, v := range vs {
		if v.Rule == "unequal_fifths" {
			assert.Equal(t, 90, v.Confidence)
		}
	}

	// With the soprano carrying tenths against the bass the registered
	// exception absorbs the violation.
	covered := stepInC(t,
		voicing{"B2", "F3", "A3", "D4"},
		voicing{"C3", "G3", "G3", "E4"},
	)
	f, err = detectUnequalFifths(covered)
	require.NoError(t, err)
	require.NotNil(t, f, "detector itself should fire")
	assert.True(t, hasParallelTenths(covered))

	vs, errs = testEngine(t).ValidatePair(covered)
	assert.Empty(t, errs)
	assert.NotContains(t, rulesOf(vs), "unequal_fifths")
}

func TestDetectLeadingToneResolution(t *testing.T) {
	t.Run("soprano leading tone abandoned at vi", func(t *testing.T) {
		s := stepInC(t,
			voicing{"G2", "D3", "G3", "B4"},
			voicing{"A2", "E3", "C4", "A4"},
		)
		f, err := detectLeadingToneResolution(s)
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, []chord.Voice{chord.Soprano}, f.voices)
	})

	t.Run("resolution up a semitone", func(t *testing.T) {
		s := stepInC(t,
			voicing{"G2", "D3", "G3", "B4"},
			voicing{"A2", "E3", "E4", "C5"},
		)
		f, err := detectLeadingToneResolution(s)
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("deceptive bass fall from V6", func(t *testing.T) {
		s := stepInC(t,
			voicing{"B2", "G3", "D4", "G4"},
			voicing{"A2", "A3", "C4", "E4"},
		)
		f, err := detectLeadingToneResolution(s)
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("covered inner resolution", func(t *testing.T) {
		// Tenor leading tone drops to the fifth while the alto takes the
		// tonic.
		s := stepInC(t,
			voicing{"G2", "B3", "D4", "F4"},
			voicing{"C3", "G3", "C4", "E4"},
		)
		f, err := detectLeadingToneResolution(s)
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("obligation lapses toward the subdominant", func(t *testing.T) {
		s := stepInC(t,
			voicing{"G2", "D3", "B3", "G4"},
			voicing{"F3", "A3", "A3", "C5"},
		)
		f, err := detectLeadingToneResolution(s)
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("secondary leading tone stays strict", func(t *testing.T) {
		// F# in V/V must resolve even though the goal chord is V.
		s := stepInC(t,
			voicing{"D3", "F#3", "A3", "D4"},
			voicing{"G2", "D3", "B3", "G4"},
		)
		f, err := detectLeadingToneResolution(s)
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, []chord.Voice{chord.Tenor}, f.voices)
	})
}

func TestDetectSeventhResolution(t *testing.T) {
	rising := stepInC(t,
		voicing{"G2", "D3", "B3", "F4"},
		voicing{"C3", "E3", "C4", "G4"},
	)
	f, err := detectSeventhResolution(rising)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, []chord.Voice{chord.Soprano}, f.voices)

	// A revoiced dominant may pass its seventh around.
	revoiced := stepInC(t,
		voicing{"G2", "D3", "B3", "F4"},
		voicing{"G2", "F3", "B3", "D4"},
	)
	f, err = detectSeventhResolution(revoiced)
	require.NoError(t, err)
	require.NotNil(t, f, "detector itself should fire")
	assert.True(t, IsVoicingChange(revoiced))

	vs, errs := testEngine(t).ValidatePair(revoiced)
	assert.Empty(t, errs)
	assert.NotContains(t, rulesOf(vs), "seventh_resolution")
}

func TestDetectVoiceCrossing(t *testing.T) {
	s := stepInC(t,
		voicing{"C3", "A3", "F3", "C4"},
		voicing{"C3", "A3", "F4", "C5"},
	)
	f, err := detectVoiceCrossing(s)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, []chord.Voice{chord.Tenor, chord.Alto}, f.voices)
	assert.Equal(t, 0, f.chordIndex)
}

func TestDetectMaximumDistance(t *testing.T) {
	s := stepInC(t,
		voicing{"C3", "G3", "B3", "C5"},
		voicing{"C3", "G3", "B3", "C5"},
	)
	f, err := detectMaximumDistance(s)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, []chord.Voice{chord.Alto, chord.Soprano}, f.voices)
}

func TestDetectVoiceOverlap(t *testing.T) {
	s := stepInC(t,
		voicing{"C3", "E3", "G3", "C4"},
		voicing{"C3", "A3", "C4", "E4"},
	)
	f, err := detectVoiceOverlap(s)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, []chord.Voice{chord.Tenor, chord.Alto}, f.voices)
}

func TestDetectExcessiveMelodicMotion(t *testing.T) {
	s := stepInC(t,
		voicing{"C3", "E3", "G3", "C4"},
		voicing{"C3", "E3", "G3", "D5"},
	)
	f, err := detectExcessiveMelodicMotion(s)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, 1, f.chordIndex)
	assert.Equal(t, []chord.Voice{chord.Soprano}, f.voices)
}

func TestDetectDuplicatedLeadingTone(t *testing.T) {
	s := stepInC(t,
		voicing{"G2", "B3", "D4", "B4"},
		voicing{"C3", "C4", "E4", "G4"},
	)
	f, err := detectDuplicatedLeadingTone(s)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, 0, f.chordIndex)
	assert.Equal(t, []chord.Voice{chord.Tenor, chord.Soprano}, f.voices)
}

func TestDetectDuplicatedSeventh(t *testing.T) {
	s := stepInC(t,
		voicing{"G2", "F3", "B3", "F4"},
		voicing{"C3", "E3", "C4", "G4"},
	)
	f, err := detectDuplicatedSeventh(s)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, 0, f.chordIndex)
	assert.Equal(t, []chord.Voice{chord.Tenor, chord.Soprano}, f.voices)
}

func TestDetectImproperOmission(t *testing.T) {
	t.Run("missing third", func(t *testing.T) {
		s := stepInC(t,
			voicing{"C3", "G3", "C4", "G4"},
			voicing{"C3", "G3", "C4", "G4"},
		)
		f, err := detectImproperOmission(s)
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, chord.FactorThird, f.missing)
		assert.Equal(t, SeverityCritical, f.severity)
		assert.Nil(t, f.voices)
	})

	t.Run("augmented sixth exempt", func(t *testing.T) {
		s := stepInC(t,
			voicing{"Ab2", "C3", "C4", "F#4"},
			voicing{"G2", "D3", "B3", "G4"},
		)
		require.Equal(t, analysis.SpecialItalianSixth, s.First.Special)
		f, err := detectImproperOmission(s)
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("complete triad clean", func(t *testing.T) {
		s := stepInC(t,
			voicing{"C3", "E3", "G3", "C4"},
			voicing{"C3", "E3", "G3", "C4"},
		)
		f, err := detectImproperOmission(s)
		require.NoError(t, err)
		assert.Nil(t, f)
	})
}

func TestValidateProgression_RewritesChordIndex(t *testing.T) {
	k := key.New(pitch.MustParse("C4"), key.Major)
	az := analysis.NewAnalyzer(k, nil)
	chords := []voicing{
		{"C3", "E3", "G3", "C4"},
		{"C3", "E3", "G3", "C4"},
		{"C3", "E3", "G3", "D5"},
	}
	analyses := make([]analysis.Analysis, len(chords))
	for i, c := range chords {
		analyses[i] = az.Analyze(mustSnapshot(t, c))
	}

	vs, errs := testEngine(t).ValidateProgression(k, analyses)
	assert.Empty(t, errs)
	require.Len(t, vs, 1)
	assert.Equal(t, "excessive_melodic_motion", vs[0].Rule)
	assert.Equal(t, 2, vs[0].ChordIndex)
	assert.Equal(t, 90, vs[0].Confidence)
}

func TestNewEngine_Validation(t *testing.T) {
	_, err := NewEngine([]Definition{{Name: "no_such_rule", Enabled: true}}, nil)
	assert.ErrorContains(t, err, "no detector")

	_, err = NewEngine([]Definition{{
		Name:       "parallel_fifths",
		Enabled:    true,
		Exceptions: []ExceptionKind{"phase_of_the_moon"},
	}}, nil)
	assert.ErrorContains(t, err, "unregistered exception kind")
}

func TestEngine_SnapshotIsImmutable(t *testing.T) {
	e := testEngine(t)

	defs := e.Definitions()
	for i := range defs {
		defs[i].Enabled = false
	}
	for _, d := range e.Definitions() {
		assert.True(t, d.Enabled, "mutating the returned slice must not affect the engine")
	}
}

func TestEngine_WithRulesDisabled(t *testing.T) {
	base := testEngine(t)
	quiet := base.WithRulesDisabled("parallel_octaves")

	s := stepInC(t,
		voicing{"C3", "E3", "G3", "C4"},
		voicing{"G2", "D3", "B3", "G4"},
	)

	vs, _ := quiet.ValidatePair(s)
	assert.NotContains(t, rulesOf(vs), "parallel_octaves")

	vs, _ = base.ValidatePair(s)
	assert.Contains(t, rulesOf(vs), "parallel_octaves")
}

func TestValidatePair_DetectorFailureIsNonFatal(t *testing.T) {
	detectors["always_fails"] = func(Step) (*finding, error) {
		return nil, errors.New("boom")
	}
	t.Cleanup(func() { delete(detectors, "always_fails") })

	defs := append(testDefs(), Definition{
		Name: "always_fails", Tier: TierCritical, ShortMsg: "Boom", Enabled: true,
	})
	e, err := NewEngine(defs, nil)
	require.NoError(t, err)

	s := stepInC(t,
		voicing{"C3", "G3", "E4", "C5"},
		voicing{"D3", "A3", "F4", "D5"},
	)
	vs, errs := e.ValidatePair(s)

	require.Len(t, errs, 1)
	assert.Equal(t, CodeDetectorFailed, errs[0].Code)
	assert.Equal(t, "always_fails", errs[0].Rule)
	assert.ErrorContains(t, errs[0], "boom")

	// The failing rule does not stop the others.
	assert.Contains(t, rulesOf(vs), "parallel_fifths")
}

func TestEvalError_Format(t *testing.T) {
	inner := errors.New("boom")
	e := &EvalError{Code: CodeExceptionFailed, Rule: "parallel_fifths", Exception: ExceptionVoicingChange, Err: inner}
	assert.Contains(t, e.Error(), "parallel_fifths")
	assert.Contains(t, e.Error(), "voicing_change")
	assert.ErrorIs(t, e, inner)
}

func TestCoarseDegree(t *testing.T) {
	cMajor := key.New(pitch.MustParse("C4"), key.Major)
	assert.Equal(t, "V", coarseDegree(cMajor, 7))
	assert.Equal(t, "vii°", coarseDegree(cMajor, 11))
	// Chromatic roots round to a neighboring degree.
	assert.Equal(t, "ii", coarseDegree(cMajor, 1))

	aMinor := key.New(pitch.MustParse("A3"), key.Minor)
	assert.Equal(t, "V", coarseDegree(aMinor, 4))
	assert.Equal(t, "III", coarseDegree(aMinor, 0))
}

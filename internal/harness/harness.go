// Package harness runs conformance scenarios end to end: it parses a
// keyed progression, analyzes every chord, evaluates the rule engine over
// the result, and checks the scenario's expectations. Goldens capture the
// full analysis for regression comparison.
package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jmcortes/harmonia/internal/analysis"
	"github.com/jmcortes/harmonia/internal/catalog"
	"github.com/jmcortes/harmonia/internal/chord"
	"github.com/jmcortes/harmonia/internal/key"
	"github.com/jmcortes/harmonia/internal/pitch"
	"github.com/jmcortes/harmonia/internal/rules"
)

// Run executes a scenario and returns its result. Scenario-level problems
// (bad key, unparsable notes) are errors; expectation mismatches and rule
// evaluation errors are recorded on the result instead.
func Run(scenario *Scenario) (*Result, error) {
	k, err := scenarioKey(scenario)
	if err != nil {
		return nil, err
	}

	snapshots, err := scenarioSnapshots(scenario)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	defs, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("loading rule catalogue: %w", err)
	}
	engine, err := rules.NewEngine(defs, logger)
	if err != nil {
		return nil, fmt.Errorf("building rule engine: %w", err)
	}
	if len(scenario.DisableRules) > 0 {
		engine = engine.WithRulesDisabled(scenario.DisableRules...)
	}

	analyzer := analysis.NewAnalyzer(k, logger)

	result := NewResult(scenario.SessionID)
	result.Key = k.String()
	result.Analyses = analyzer.AnalyzeProgression(snapshots)

	violations, evalErrs := engine.ValidateProgression(k, result.Analyses)
	result.Violations = violations
	for _, ee := range evalErrs {
		result.AddError(ee.Error())
	}

	for _, msg := range evaluateExpectations(result, scenario.Expect) {
		result.AddError(msg)
	}
	return result, nil
}

func scenarioKey(scenario *Scenario) (*key.Context, error) {
	tonic, err := pitch.Parse(scenario.Key.Tonic + "4")
	if err != nil {
		return nil, fmt.Errorf("key tonic: %w", err)
	}
	return key.New(tonic, key.Mode(scenario.Key.Mode)), nil
}

func scenarioSnapshots(scenario *Scenario) ([]chord.Snapshot, error) {
	snapshots := make([]chord.Snapshot, 0, len(scenario.Chords))
	for i, spec := range scenario.Chords {
		voices := map[chord.Voice]string{
			chord.Bass:    spec.B,
			chord.Tenor:   spec.T,
			chord.Alto:    spec.A,
			chord.Soprano: spec.S,
		}
		m := make(map[chord.Voice]pitch.Pitch, len(voices))
		for v, name := range voices {
			if name == "" {
				continue
			}
			p, err := pitch.Parse(name)
			if err != nil {
				return nil, fmt.Errorf("chord %d voice %s: %w", i, v, err)
			}
			m[v] = p
		}
		snapshots = append(snapshots, chord.NewSnapshot(m))
	}
	return snapshots, nil
}

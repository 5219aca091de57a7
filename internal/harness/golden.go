package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/jmcortes/harmonia/internal/analysis"
	"github.com/jmcortes/harmonia/internal/rules"
)

// Snapshot is the golden-file view of a scenario run. The session id is
// deliberately excluded so fresh ids do not churn goldens.
type Snapshot struct {
	ScenarioName string
	Key          string
	Analyses     []analysis.Analysis
	Violations   []rules.Violation
}

// toCanonicalMap flattens the snapshot into canonical-JSON-safe values.
// Empty optional fields are omitted rather than serialized as zero values.
func (s *Snapshot) toCanonicalMap() map[string]any {
	analyses := make([]any, len(s.Analyses))
	for i, a := range s.Analyses {
		m := map[string]any{
			"index":     i,
			"degree":    a.Degree,
			"text":      a.Text,
			"function":  string(a.Function),
			"diatonic":  a.Diatonic,
			"inversion": a.Inversion,
		}
		if a.Cipher != "" {
			m["cipher"] = a.Cipher
		}
		if a.Special != analysis.SpecialNone {
			m["special"] = string(a.Special)
		}
		if a.HasSeventh {
			m["has_seventh"] = true
		}
		if a.HasNinth {
			m["has_ninth"] = true
		}
		if a.Cadence != analysis.CadenceNone {
			m["cadence"] = string(a.Cadence)
		}
		analyses[i] = m
	}

	violations := make([]any, len(s.Violations))
	for i, v := range s.Violations {
		m := map[string]any{
			"rule":        v.Rule,
			"tier":        int(v.Tier),
			"color":       v.Color,
			"short_msg":   v.ShortMsg,
			"confidence":  v.Confidence,
			"chord_index": v.ChordIndex,
		}
		if len(v.Voices) > 0 {
			voices := make([]any, len(v.Voices))
			for j, voice := range v.Voices {
				voices[j] = string(voice)
			}
			m["voices"] = voices
		}
		if v.Motion != "" {
			m["motion"] = string(v.Motion)
		}
		if v.MissingFactor != "" {
			m["missing_factor"] = string(v.MissingFactor)
		}
		if v.Severity != "" {
			m["severity"] = string(v.Severity)
		}
		violations[i] = m
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"key":           s.Key,
		"analyses":      analyses,
		"violations":    violations,
	}
}

// RunWithGolden executes a scenario and compares the canonical snapshot
// against testdata/golden/{scenario.Name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// GoldenBytes renders a result as the canonical bytes stored in golden
// files, for callers that manage golden files themselves.
func GoldenBytes(scenarioName string, result *Result) ([]byte, error) {
	snapshot := Snapshot{
		ScenarioName: scenarioName,
		Key:          result.Key,
		Analyses:     result.Analyses,
		Violations:   result.Violations,
	}
	return marshalCanonical(snapshot.toCanonicalMap())
}

// AssertGolden compares an already-computed result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := GoldenBytes(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}

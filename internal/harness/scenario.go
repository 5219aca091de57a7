package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jmcortes/harmonia/internal/key"
)

// Scenario defines one conformance case: a keyed progression and the
// analyses and violations it must produce.
type Scenario struct {
	// Name uniquely identifies the scenario; goldens are keyed by it.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Key is the tonal context for every chord.
	Key KeySpec `yaml:"key"`

	// SessionID fixes the result's session id for deterministic output.
	// If empty a fresh one is generated per run.
	SessionID string `yaml:"session_id,omitempty"`

	// DisableRules names rules to switch off for this scenario.
	DisableRules []string `yaml:"disable_rules,omitempty"`

	// Chords is the progression, in order.
	Chords []ChordSpec `yaml:"chords"`

	// Expect holds the assertions evaluated after the run.
	Expect Expectations `yaml:"expect"`
}

// KeySpec names a key by tonic and mode, e.g. {tonic: Eb, mode: major}.
type KeySpec struct {
	Tonic string `yaml:"tonic"`
	Mode  string `yaml:"mode"`
}

// ChordSpec is one four-voice sonority in scientific notation. A voice may
// be left empty; the analyzer degrades instead of failing.
type ChordSpec struct {
	B string `yaml:"b,omitempty"`
	T string `yaml:"t,omitempty"`
	A string `yaml:"a,omitempty"`
	S string `yaml:"s,omitempty"`
}

// Expectations are the scenario's assertions. All are subset matches:
// only the fields given are checked.
type Expectations struct {
	// Analyses asserts on labeled chords by index.
	Analyses []ExpectAnalysis `yaml:"analyses,omitempty"`

	// Violations asserts that each entry matches at least one detected
	// violation.
	Violations []ExpectViolation `yaml:"violations,omitempty"`

	// Clean asserts that no violations were detected at all.
	Clean bool `yaml:"clean,omitempty"`
}

// ExpectAnalysis asserts on the analysis of one chord.
type ExpectAnalysis struct {
	Index    int    `yaml:"index"`
	Text     string `yaml:"text,omitempty"`
	Degree   string `yaml:"degree,omitempty"`
	Function string `yaml:"function,omitempty"`
	Special  string `yaml:"special,omitempty"`
}

// ExpectViolation asserts on one detected violation. ChordIndex is a
// pointer so that index zero can be asserted explicitly.
type ExpectViolation struct {
	Rule       string   `yaml:"rule"`
	ChordIndex *int     `yaml:"chord_index,omitempty"`
	Voices     []string `yaml:"voices,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected to catch typos like "expects:".
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Key.Tonic == "" {
		return fmt.Errorf("key.tonic is required")
	}
	switch key.Mode(s.Key.Mode) {
	case key.Major, key.Minor:
	default:
		return fmt.Errorf("key.mode must be %q or %q, got %q", key.Major, key.Minor, s.Key.Mode)
	}
	if len(s.Chords) == 0 {
		return fmt.Errorf("chords list is required and must be non-empty")
	}
	for i, exp := range s.Expect.Analyses {
		if exp.Index < 0 || exp.Index >= len(s.Chords) {
			return fmt.Errorf("expect.analyses[%d]: index %d out of range", i, exp.Index)
		}
	}
	for i, exp := range s.Expect.Violations {
		if exp.Rule == "" {
			return fmt.Errorf("expect.violations[%d]: rule is required", i)
		}
	}
	if s.Expect.Clean && len(s.Expect.Violations) > 0 {
		return fmt.Errorf("expect.clean contradicts expect.violations")
	}
	return nil
}

package harness

import (
	"fmt"
	"strings"

	"github.com/jmcortes/harmonia/internal/chord"
	"github.com/jmcortes/harmonia/internal/rules"
)

// AssertionError describes one expectation mismatch with enough context
// to debug it without re-running the scenario.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  actual:   %s", e.Actual)
	return buf.String()
}

// evaluateExpectations checks a result against the scenario's assertions
// and returns every mismatch; it never fails fast.
func evaluateExpectations(res *Result, exp Expectations) []string {
	var msgs []string

	for _, ea := range exp.Analyses {
		if err := assertAnalysis(res, ea); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	for _, ev := range exp.Violations {
		if err := assertViolation(res, ev); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	if exp.Clean && len(res.Violations) > 0 {
		msgs = append(msgs, (&AssertionError{
			Type:     "clean",
			Expected: "no violations",
			Actual:   summarizeViolations(res.Violations),
		}).Error())
	}
	return msgs
}

func assertAnalysis(res *Result, exp ExpectAnalysis) error {
	if exp.Index >= len(res.Analyses) {
		return &AssertionError{
			Type:     "analysis",
			Expected: fmt.Sprintf("chord %d analyzed", exp.Index),
			Actual:   fmt.Sprintf("%d chords", len(res.Analyses)),
		}
	}
	a := res.Analyses[exp.Index]

	check := func(field, want, got string) error {
		if want != "" && want != got {
			return &AssertionError{
				Type:     "analysis",
				Expected: fmt.Sprintf("chord %d %s %q", exp.Index, field, want),
				Actual:   fmt.Sprintf("%s %q (text %q)", field, got, a.Text),
			}
		}
		return nil
	}

	if err := check("text", exp.Text, a.Text); err != nil {
		return err
	}
	if err := check("degree", exp.Degree, a.Degree); err != nil {
		return err
	}
	if err := check("function", exp.Function, string(a.Function)); err != nil {
		return err
	}
	return check("special", exp.Special, string(a.Special))
}

// assertViolation passes when at least one detected violation matches the
// expectation: same rule, and, when given, same chord index and voices.
func assertViolation(res *Result, exp ExpectViolation) error {
	for _, v := range res.Violations {
		if v.Rule != exp.Rule {
			continue
		}
		if exp.ChordIndex != nil && v.ChordIndex != *exp.ChordIndex {
			continue
		}
		if len(exp.Voices) > 0 && !sameVoices(exp.Voices, v.Voices) {
			continue
		}
		return nil
	}
	want := exp.Rule
	if exp.ChordIndex != nil {
		want = fmt.Sprintf("%s at chord %d", want, *exp.ChordIndex)
	}
	if len(exp.Voices) > 0 {
		want = fmt.Sprintf("%s in voices %s", want, strings.Join(exp.Voices, "-"))
	}
	return &AssertionError{
		Type:     "violation",
		Expected: want,
		Actual:   summarizeViolations(res.Violations),
	}
}

func sameVoices(want []string, got []chord.Voice) bool {
	if len(want) != len(got) {
		return false
	}
	for i, v := range got {
		if want[i] != string(v) {
			return false
		}
	}
	return true
}

func summarizeViolations(vs []rules.Violation) string {
	if len(vs) == 0 {
		return "no violations"
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("%s@%d", v.Rule, v.ChordIndex)
	}
	return strings.Join(parts, ", ")
}

package rules

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jmcortes/harmonia/internal/analysis"
	"github.com/jmcortes/harmonia/internal/key"
	"github.com/jmcortes/harmonia/internal/pitch"
)

// Engine evaluates a fixed set of rule definitions. The definition slice
// is snapshotted at construction and never mutated; enabling or disabling
// rules produces a new engine rather than changing a shared one.
type Engine struct {
	defs   []Definition
	logger *slog.Logger
}

// NewEngine builds an engine over a definition snapshot. Every definition
// must name a known detector and known exception kinds. A nil logger
// disables logging.
func NewEngine(defs []Definition, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	snapshot := make([]Definition, len(defs))
	copy(snapshot, defs)

	for _, def := range snapshot {
		if _, ok := detectors[def.Name]; !ok {
			return nil, fmt.Errorf("rules: no detector for rule %q", def.Name)
		}
		for _, exc := range def.Exceptions {
			if !knownExceptions[exc] {
				return nil, fmt.Errorf("rules: rule %q: unregistered exception kind %q", def.Name, exc)
			}
		}
	}
	return &Engine{defs: snapshot, logger: logger}, nil
}

// Definitions returns a copy of the engine's definition snapshot.
func (e *Engine) Definitions() []Definition {
	out := make([]Definition, len(e.defs))
	copy(out, e.defs)
	return out
}

// WithRulesDisabled returns a new engine whose snapshot has the named
// rules disabled. Unknown names are ignored.
func (e *Engine) WithRulesDisabled(names ...string) *Engine {
	disabled := make(map[string]bool, len(names))
	for _, n := range names {
		disabled[n] = true
	}
	defs := e.Definitions()
	for i := range defs {
		if disabled[defs[i].Name] {
			defs[i].Enabled = false
		}
	}
	return &Engine{defs: defs, logger: e.logger}
}

// ValidatePair runs every enabled rule against one step. Violations and
// evaluation errors come back side by side; an error in a detector yields
// no violation for that rule, and an error in an exception predicate
// leaves the violation standing.
func (e *Engine) ValidatePair(s Step) ([]Violation, []*EvalError) {
	var violations []Violation
	var errs []*EvalError

	for _, def := range e.defs {
		if !def.Enabled {
			continue
		}
		f, err := detectors[def.Name](s)
		if err != nil {
			ee := &EvalError{Code: CodeDetectorFailed, Rule: def.Name, Err: err}
			errs = append(errs, ee)
			e.logger.Error("detector failed", "rule", def.Name, "err", err)
			continue
		}
		if f == nil {
			continue
		}

		suppressed := false
		for _, exc := range def.Exceptions {
			applies, err := evalException(exc, s)
			if err != nil {
				ee := &EvalError{Code: CodeExceptionFailed, Rule: def.Name, Exception: exc, Err: err}
				errs = append(errs, ee)
				e.logger.Error("exception failed", "rule", def.Name, "exception", exc, "err", err)
				continue
			}
			if applies {
				e.logger.Debug("exception applied", "rule", def.Name, "exception", exc)
				suppressed = true
				break
			}
		}
		if suppressed {
			continue
		}

		violations = append(violations, e.buildViolation(def, f))
	}
	return violations, errs
}

// ValidateProgression runs every consecutive pair of a progression and
// rewrites each violation's ChordIndex to its absolute position.
func (e *Engine) ValidateProgression(k *key.Context, analyses []analysis.Analysis) ([]Violation, []*EvalError) {
	var violations []Violation
	var errs []*EvalError

	for i := 0; i+1 < len(analyses); i++ {
		step := Step{Key: k, First: analyses[i], Second: analyses[i+1]}
		vs, es := e.ValidatePair(step)
		for _, v := range vs {
			v.ChordIndex += i
			violations = append(violations, v)
		}
		errs = append(errs, es...)
	}
	return violations, errs
}

func (e *Engine) buildViolation(def Definition, f *finding) Violation {
	short := def.ShortMsg
	if f.motion == pitch.MotionContrary {
		// Parallel motion keeps the base message; contrary motion gets
		// the consecutive variant.
		short = strings.Replace(short, "Parallel", "Consecutive", 1)
	}
	return Violation{
		Rule:          def.Name,
		Tier:          def.Tier,
		Color:         def.Color,
		ShortMsg:      short,
		FullMsg:       def.FullMsg,
		Confidence:    confidenceFor(def.Name, f),
		ChordIndex:    f.chordIndex,
		Voices:        f.voices,
		Motion:        f.motion,
		MissingFactor: f.missing,
		Severity:      f.severity,
	}
}

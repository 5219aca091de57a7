package harness

import (
	"github.com/google/uuid"

	"github.com/jmcortes/harmonia/internal/analysis"
	"github.com/jmcortes/harmonia/internal/rules"
)

// Result is the outcome of one scenario run.
type Result struct {
	// SessionID identifies the run. Scenarios may pin it for
	// deterministic output.
	SessionID string `json:"session_id"`

	// Key is the readable key name the progression was analyzed in.
	Key string `json:"key"`

	// Pass is true when every expectation matched.
	Pass bool `json:"pass"`

	// Analyses are the labeled chords, index-aligned with the input.
	Analyses []analysis.Analysis `json:"analyses"`

	// Violations are the rule breaches over the whole progression.
	Violations []rules.Violation `json:"violations"`

	// Errors collects expectation failures and evaluation errors.
	// Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result with a fresh or pinned session id.
func NewResult(sessionID string) *Result {
	if sessionID == "" {
		sessionID = uuid.Must(uuid.NewV7()).String()
	}
	return &Result{
		SessionID: sessionID,
		Pass:      true,
		Errors:    []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

package harness

import "github.com/roach88/criteria/internal/bind"

// Result is the outcome of a scenario run.
type Result struct {
	// Scenario is the scenario name.
	Scenario string `json:"scenario"`

	// Pass is true when every expectation matched.
	Pass bool `json:"pass"`

	SQL         string       `json:"sql,omitempty"`
	Params      []bind.Param `json:"params,omitempty"`
	Fingerprint string       `json:"fingerprint,omitempty"`

	// Warnings holds unresolvable column references.
	Warnings []string `json:"warnings,omitempty"`

	// Errors contains mismatch messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result for the named scenario.
func NewResult(name string) *Result {
	return &Result{
		Scenario: name,
		Pass:     true,
		Errors:   []string{},
	}
}

// AddError records a mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

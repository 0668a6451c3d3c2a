package harness

import "github.com/roach88/replacelib/internal/dedup"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if every expectation holds.
	Pass bool `json:"pass"`

	// Failures contains one message per failed expectation.
	// Empty if Pass is true.
	Failures []string `json:"failures,omitempty"`

	// Report is the load cycle report. Nil in lazy mode.
	Report *dedup.Report `json:"report,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Failures: []string{},
	}
}

// AddFailure adds a failure message and marks the result as failed.
func (r *Result) AddFailure(msg string) {
	r.Failures = append(r.Failures, msg)
	r.Pass = false
}

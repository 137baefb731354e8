package model

import "fmt"

// EvaluationStatus is the outcome of evaluating an injected bug.
type EvaluationStatus string

const (
	// EvaluationSuccess means the mutation was kept.
	EvaluationSuccess EvaluationStatus = "success"
	// EvaluationFailure means the mutation was rolled back.
	EvaluationFailure EvaluationStatus = "failure"
)

// EvaluationResult reports how the last mutation fared.
type EvaluationResult struct {
	Status EvaluationStatus `json:"status" yaml:"status"`
	Error  *string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// Validate rejects unknown statuses and errors attached to a success.
func (r EvaluationResult) Validate() error {
	switch r.Status {
	case EvaluationSuccess:
		if r.Error != nil {
			return fmt.Errorf("successful evaluation carries error %q", *r.Error)
		}
	case EvaluationFailure:
	default:
		return fmt.Errorf("unknown evaluation status %q", r.Status)
	}

	return nil
}

// BugFrequency counts how often a bug class was injected.
type BugFrequency struct {
	Name   string `json:"name" yaml:"name"`
	Amount int    `json:"amount" yaml:"amount"`
}

// Stats aggregates injection attempts.
type Stats struct {
	BugStats      []BugFrequency `json:"bugStats" yaml:"bugStats"`
	Successes     int            `json:"successes" yaml:"successes"`
	TotalAttempts int            `json:"totalAttempts" yaml:"totalAttempts"`
}

// Validate rejects negative counters.
func (s Stats) Validate() error {
	if s.Successes < 0 || s.TotalAttempts < 0 {
		return fmt.Errorf("negative attempt counters (%d/%d)", s.Successes, s.TotalAttempts)
	}

	for _, freq := range s.BugStats {
		if freq.Amount < 0 {
			return fmt.Errorf("bug %q: negative amount %d", freq.Name, freq.Amount)
		}
	}

	return nil
}

// SuccessRate returns successes as a percentage of attempts in [0, 100].
// No attempts yields 0.
func (s Stats) SuccessRate() float64 {
	if s.TotalAttempts <= 0 {
		return 0
	}

	rate := float64(s.Successes) / float64(s.TotalAttempts) * 100

	switch {
	case rate < 0:
		return 0
	case rate > 100:
		return 100
	}

	return rate
}

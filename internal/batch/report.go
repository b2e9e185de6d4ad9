package batch

import (
	"time"

	"github.com/google/uuid"

	"github.com/moplots/moplots/internal/plan"
)

// Status classifies the result of one job.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Outcome records the result of executing one plot job.
type Outcome struct {
	Job    plan.Job
	Status Status
	// ExitCode is the external process exit status, or LaunchExitCode when
	// the process could not be started.
	ExitCode int
	// Diagnostic holds captured stderr text or a locally raised reason.
	// Empty when the job succeeded.
	Diagnostic string
}

// Report aggregates one batch run. It is assembled once, after the last job,
// and immutable afterwards: outcomes appear in execution order, one per job.
type Report struct {
	ID        uuid.UUID
	Outcomes  []Outcome
	StartedAt time.Time
	Duration  time.Duration
}

func newReport() *Report {
	return &Report{ID: uuid.New(), StartedAt: time.Now()}
}

// Succeeded counts outcomes with StatusSucceeded.
func (r *Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusSucceeded {
			n++
		}
	}
	return n
}

// Failed counts outcomes with StatusFailed.
func (r *Report) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// FailedOutcomes returns the failed subset in execution order, so callers can
// show exactly which (MO, spin) pairs need a re-run.
func (r *Report) FailedOutcomes() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

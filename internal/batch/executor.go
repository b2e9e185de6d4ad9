// Package batch executes a plan of orca_plot jobs strictly in order and
// collects per-job outcomes into an aggregate run report.
//
// Execution is sequential and blocking: one external process at a time, in
// plan order. orca_plot's batch mode expects single-writer access to its
// working state, and serial execution keeps report order identical to the
// MO/spin enumeration. A failed job never aborts the batch; every remaining
// job is still attempted and the failure surfaces only in the report.
package batch

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/moplots/moplots/internal/plan"
)

// EventKind tags executor progress events.
type EventKind int

const (
	EventJobStarted EventKind = iota
	EventJobFinished
)

// Event notifies observers (the progress view) about per-job lifecycle.
type Event struct {
	Kind    EventKind
	Index   int // zero-based position in the plan
	Total   int
	Job     plan.Job
	Outcome *Outcome // set on EventJobFinished
}

// Executor runs plot jobs against an Environment.
type Executor struct {
	env Environment
	// Events, when non-nil, receives one started and one finished event per
	// job. Sends are blocking; the consumer must keep draining.
	Events chan<- Event

	debug bool
}

// NewExecutor returns an executor bound to env. Debug chatter is gated on
// MOPLOTS_DEBUG.
func NewExecutor(env Environment) *Executor {
	return &Executor{env: env, debug: os.Getenv("MOPLOTS_DEBUG") != ""}
}

// Execute runs every job in plan order and returns the aggregate report.
//
// Fatal conditions (unusable output directory, context already cancelled)
// abort before any process is launched and are returned as errors distinct
// from per-job failures. After the first job has started the only error
// Execute returns is ctx.Err(): cancellation is honored at job granularity,
// between jobs, never by killing the executor's own bookkeeping.
func (e *Executor) Execute(ctx context.Context, outputDir string, jobs []plan.Job) (*Report, error) {
	if err := ensureOutputDir(outputDir); err != nil {
		return nil, err
	}

	report := newReport()
	runner := e.env.runner()
	total := len(jobs)

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			// Stop before sequencing the next job.
			report.Duration = time.Since(report.StartedAt)
			return report, err
		}

		e.emit(Event{Kind: EventJobStarted, Index: i, Total: total, Job: job})
		outcome := e.runJob(ctx, runner, job)
		report.Outcomes = append(report.Outcomes, outcome)
		e.emit(Event{Kind: EventJobFinished, Index: i, Total: total, Job: job, Outcome: &outcome})
	}

	report.Duration = time.Since(report.StartedAt)
	return report, nil
}

func (e *Executor) runJob(ctx context.Context, runner Runner, job plan.Job) Outcome {
	if e.debug {
		fmt.Fprintf(os.Stderr, "[DEBUG Execute] %s -> %s\n", job.Label(), job.TargetPath)
	}

	exitCode, stderr, err := runner.Run(ctx, job)
	if err == nil && exitCode == 0 {
		return Outcome{Job: job, Status: StatusSucceeded, ExitCode: 0}
	}

	diagnostic := stderr
	if diagnostic == "" && err != nil {
		diagnostic = err.Error()
	}
	return Outcome{Job: job, Status: StatusFailed, ExitCode: exitCode, Diagnostic: diagnostic}
}

func (e *Executor) emit(ev Event) {
	if e.Events != nil {
		e.Events <- ev
	}
}

// ensureOutputDir creates dir if missing and verifies it is a writable
// directory. Pre-existing artifacts at target paths are overwritten on the
// next run; orca_plot output is idempotent per MO/spin, so overwrite is the
// documented policy.
func ensureOutputDir(dir string) error {
	if dir == "" {
		dir = "."
	}

	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("%w: %s exists and is not a directory", ErrOutputPath, dir)
		}
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", ErrOutputPath, err)
		}
	default:
		return fmt.Errorf("%w: %v", ErrOutputPath, err)
	}

	// Writability probe: creating files is exactly what the batch will do.
	probe, err := os.CreateTemp(dir, ".moplots-*")
	if err != nil {
		return fmt.Errorf("%w: %s is not writable", ErrOutputPath, dir)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}

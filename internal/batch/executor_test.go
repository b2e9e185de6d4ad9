package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moplots/moplots/internal/plan"
)

// fakeRunner records jobs and fails the ones whose label appears in failOn.
type fakeRunner struct {
	ran       []plan.Job
	failOn    map[string]bool
	launchErr error
	cancel    context.CancelFunc // invoked after the first job when set
}

func (f *fakeRunner) Run(_ context.Context, job plan.Job) (int, string, error) {
	f.ran = append(f.ran, job)
	if f.cancel != nil && len(f.ran) == 1 {
		f.cancel()
	}
	if f.launchErr != nil {
		return LaunchExitCode, "", f.launchErr
	}
	if f.failOn[job.Label()] {
		return 1, "orca_plot: cannot read orbital\n", errors.New("exit status 1")
	}
	return 0, "", nil
}

func mustPlan(t *testing.T, spin plan.Spin, lower, upper int, dir string) []plan.Job {
	t.Helper()
	jobs, err := plan.BuildPlan(plan.Request{
		InputFile: "water.gbw",
		MOLower:   lower, MOUpper: upper,
		Spin: spin, OutputDir: dir, Format: plan.FormatCube,
	})
	require.NoError(t, err)
	return jobs
}

func TestExecute_ReportsAllSucceeded_When_EveryJobSucceeds(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jobs := mustPlan(t, plan.SpinBoth, 1, 3, dir)
	runner := &fakeRunner{}
	ex := NewExecutor(Environment{ToolPath: "orca_plot", Runner: runner})

	rep, err := ex.Execute(context.Background(), dir, jobs)

	require.NoError(t, err)
	require.Len(t, rep.Outcomes, 6)
	assert.Equal(t, 6, rep.Succeeded())
	assert.Equal(t, 0, rep.Failed())
	assert.Len(t, runner.ran, 6)
	assert.NotEqual(t, "", rep.ID.String())
}

func TestExecute_ContinuesPastFailure_When_MiddleJobFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jobs := mustPlan(t, plan.SpinBoth, 1, 3, dir)
	k := 2 // third job, MO 2 alpha
	runner := &fakeRunner{failOn: map[string]bool{jobs[k].Label(): true}}
	ex := NewExecutor(Environment{ToolPath: "orca_plot", Runner: runner})

	rep, err := ex.Execute(context.Background(), dir, jobs)

	require.NoError(t, err)
	require.Len(t, rep.Outcomes, len(jobs), "every job must be attempted")
	assert.Equal(t, len(jobs)-1, rep.Succeeded())
	assert.Equal(t, 1, rep.Failed())

	// Execution order preserved, failure attributed to job k.
	for i, o := range rep.Outcomes {
		assert.Equal(t, jobs[i].MOIndex, o.Job.MOIndex)
		assert.Equal(t, jobs[i].Channel, o.Job.Channel)
	}
	failed := rep.FailedOutcomes()
	require.Len(t, failed, 1)
	assert.Equal(t, jobs[k], failed[0].Job)
	assert.Equal(t, 1, failed[0].ExitCode)
	assert.Contains(t, failed[0].Diagnostic, "cannot read orbital")
}

func TestExecute_RecordsSentinel_When_LaunchFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jobs := mustPlan(t, plan.SpinAlpha, 0, 0, dir)
	runner := &fakeRunner{launchErr: errors.New("fork/exec: permission denied")}
	ex := NewExecutor(Environment{ToolPath: "orca_plot", Runner: runner})

	rep, err := ex.Execute(context.Background(), dir, jobs)

	require.NoError(t, err)
	require.Len(t, rep.Outcomes, 1)
	o := rep.Outcomes[0]
	assert.Equal(t, StatusFailed, o.Status)
	assert.Equal(t, LaunchExitCode, o.ExitCode)
	assert.Contains(t, o.Diagnostic, "permission denied")
}

func TestExecute_Fails_When_OutputPathIsAFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "out")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	jobs := mustPlan(t, plan.SpinAlpha, 1, 2, blocker)
	runner := &fakeRunner{}
	ex := NewExecutor(Environment{ToolPath: "orca_plot", Runner: runner})

	rep, err := ex.Execute(context.Background(), blocker, jobs)

	assert.ErrorIs(t, err, ErrOutputPath)
	assert.Nil(t, rep)
	assert.Empty(t, runner.ran, "no jobs may run after a fatal error")
}

func TestExecute_CreatesOutputDir_When_Missing(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "plots", "run1")
	jobs := mustPlan(t, plan.SpinAlpha, 1, 1, dir)
	ex := NewExecutor(Environment{ToolPath: "orca_plot", Runner: &fakeRunner{}})

	_, err := ex.Execute(context.Background(), dir, jobs)

	require.NoError(t, err)
	info, statErr := os.Stat(dir)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestExecute_StopsBeforeNextJob_When_ContextCancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jobs := mustPlan(t, plan.SpinBoth, 1, 5, dir)
	ctx, cancel := context.WithCancel(context.Background())
	runner := &fakeRunner{cancel: cancel}
	ex := NewExecutor(Environment{ToolPath: "orca_plot", Runner: runner})

	rep, err := ex.Execute(ctx, dir, jobs)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, rep)
	// The in-flight job finishes; nothing after it is sequenced.
	assert.Len(t, rep.Outcomes, 1)
	assert.Len(t, runner.ran, 1)
}

func TestExecute_EmitsLifecycleEvents_When_ChannelSet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jobs := mustPlan(t, plan.SpinAlpha, 1, 3, dir)
	ex := NewExecutor(Environment{ToolPath: "orca_plot", Runner: &fakeRunner{}})

	events := make(chan Event)
	ex.Events = events

	var got []Event
	done := make(chan struct{})
	go func() {
		for ev := range events {
			got = append(got, ev)
		}
		close(done)
	}()

	_, err := ex.Execute(context.Background(), dir, jobs)
	close(events)
	<-done

	require.NoError(t, err)
	require.Len(t, got, 2*len(jobs))
	for i := 0; i < len(jobs); i++ {
		assert.Equal(t, EventJobStarted, got[2*i].Kind)
		assert.Equal(t, EventJobFinished, got[2*i+1].Kind)
		assert.Equal(t, i, got[2*i].Index)
		require.NotNil(t, got[2*i+1].Outcome)
		assert.Equal(t, StatusSucceeded, got[2*i+1].Outcome.Status)
	}
}

func TestResolveTool_Fails_When_ToolMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	env, err := ResolveTool("water.gbw")

	assert.ErrorIs(t, err, ErrToolNotFound)
	assert.Empty(t, env.ToolPath)
}

func TestReport_CountsSplitByStatus(t *testing.T) {
	t.Parallel()

	rep := newReport()
	rep.Outcomes = []Outcome{
		{Status: StatusSucceeded},
		{Status: StatusFailed, ExitCode: 1},
		{Status: StatusSucceeded},
	}

	assert.Equal(t, 2, rep.Succeeded())
	assert.Equal(t, 1, rep.Failed())
	assert.Len(t, rep.FailedOutcomes(), 1)
}

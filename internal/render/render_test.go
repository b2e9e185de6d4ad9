package render

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moplots/moplots/internal/batch"
	"github.com/moplots/moplots/internal/design"
	"github.com/moplots/moplots/internal/plan"
)

func sampleRequest() plan.Request {
	return plan.Request{
		InputFile: "water.gbw",
		MOLower:   1,
		MOUpper:   3,
		Spin:      plan.SpinBoth,
		OutputDir: "out",
		Grid:      80,
		Format:    plan.FormatCube,
	}
}

func sampleReport(t *testing.T) *batch.Report {
	t.Helper()
	jobs, err := plan.BuildPlan(sampleRequest())
	require.NoError(t, err)

	rep := &batch.Report{ID: uuid.New(), Duration: 1500 * time.Millisecond}
	for i, j := range jobs {
		o := batch.Outcome{Job: j, Status: batch.StatusSucceeded}
		if i == 2 {
			o = batch.Outcome{
				Job: j, Status: batch.StatusFailed, ExitCode: 1,
				Diagnostic: "orca_plot: cannot read orbital\nmore detail",
			}
		}
		rep.Outcomes = append(rep.Outcomes, o)
	}
	return rep
}

func TestPlain_Report_ListsFailuresWithDetail(t *testing.T) {
	t.Parallel()

	out := NewPlain().Report(sampleReport(t))

	assert.Contains(t, out, "ok   MO 1 alpha")
	assert.Contains(t, out, "FAIL MO 2 alpha (exit 1): orca_plot: cannot read orbital")
	assert.NotContains(t, out, "more detail", "diagnostics collapse to one line")
	assert.Contains(t, out, "5 succeeded, 1 failed")
}

func TestPlain_Selection_SummarizesRequest(t *testing.T) {
	t.Parallel()

	out := NewPlain().Selection(sampleRequest())

	assert.Contains(t, out, "input=water.gbw")
	assert.Contains(t, out, "mo=1..3")
	assert.Contains(t, out, "spin=both")
	assert.Contains(t, out, "jobs=6")
}

func TestJSON_Report_RoundTrips(t *testing.T) {
	t.Parallel()

	rep := sampleReport(t)
	out := NewJSON().Report(rep)

	var doc struct {
		RunID     string `json:"run_id"`
		Succeeded int    `json:"succeeded"`
		Failed    int    `json:"failed"`
		Outcomes  []struct {
			MOIndex    int    `json:"mo_index"`
			Spin       string `json:"spin"`
			Status     string `json:"status"`
			ExitCode   int    `json:"exit_code"`
			Diagnostic string `json:"diagnostic"`
		} `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, rep.ID.String(), doc.RunID)
	assert.Equal(t, 5, doc.Succeeded)
	assert.Equal(t, 1, doc.Failed)
	require.Len(t, doc.Outcomes, 6)
	assert.Equal(t, "failed", doc.Outcomes[2].Status)
	assert.Contains(t, doc.Outcomes[2].Diagnostic, "more detail", "JSON keeps the full text")
}

func TestJSON_Selection_IsSuppressed(t *testing.T) {
	t.Parallel()

	assert.Empty(t, NewJSON().Selection(sampleRequest()))
}

func TestTerminal_Report_ShowsOutcomesAndSummary(t *testing.T) {
	t.Parallel()

	r := NewTerminal(design.MonoTheme(), 100)
	out := r.Report(sampleReport(t))

	assert.Contains(t, out, "Result")
	assert.Contains(t, out, "fail")
	assert.Contains(t, out, "cannot read orbital")
	assert.Contains(t, out, "5 succeeded, 1 failed in 1.5s")
}

func TestTerminal_Selection_ShowsRequestFields(t *testing.T) {
	t.Parallel()

	r := NewTerminal(design.MonoTheme(), 100)
	out := r.Selection(sampleRequest())

	assert.Contains(t, out, "Active Selection")
	assert.Contains(t, out, "water.gbw")
	assert.Contains(t, out, "both")
	assert.Contains(t, out, "CUBE")
}

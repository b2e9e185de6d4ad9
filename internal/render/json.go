package render

import (
	"encoding/json"

	"github.com/moplots/moplots/internal/batch"
	"github.com/moplots/moplots/internal/plan"
)

// JSON renders structured output for automation. Selection is suppressed:
// the report document carries everything a consumer needs.
type JSON struct{}

// NewJSON returns a JSON renderer.
func NewJSON() *JSON { return &JSON{} }

func (j *JSON) Selection(plan.Request) string { return "" }

func (j *JSON) Report(rep *batch.Report) string {
	type jsonOutcome struct {
		MOIndex    int    `json:"mo_index"`
		Spin       string `json:"spin"`
		Target     string `json:"target"`
		Status     string `json:"status"`
		ExitCode   int    `json:"exit_code"`
		Diagnostic string `json:"diagnostic,omitempty"`
	}
	type jsonReport struct {
		Version    string        `json:"version"`
		RunID      string        `json:"run_id"`
		Succeeded  int           `json:"succeeded"`
		Failed     int           `json:"failed"`
		DurationMs int64         `json:"duration_ms"`
		Outcomes   []jsonOutcome `json:"outcomes"`
	}

	doc := jsonReport{
		Version:    "1.0",
		RunID:      rep.ID.String(),
		Succeeded:  rep.Succeeded(),
		Failed:     rep.Failed(),
		DurationMs: rep.Duration.Milliseconds(),
		Outcomes:   make([]jsonOutcome, 0, len(rep.Outcomes)),
	}
	for _, o := range rep.Outcomes {
		doc.Outcomes = append(doc.Outcomes, jsonOutcome{
			MOIndex:    o.Job.MOIndex,
			Spin:       string(o.Job.Channel),
			Target:     o.Job.TargetPath,
			Status:     string(o.Status),
			ExitCode:   o.ExitCode,
			Diagnostic: o.Diagnostic,
		})
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "{}\n"
	}
	return string(out) + "\n"
}

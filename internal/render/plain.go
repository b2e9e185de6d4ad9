package render

import (
	"fmt"
	"strings"

	"github.com/moplots/moplots/internal/batch"
	"github.com/moplots/moplots/internal/plan"
)

// Plain renders terse unstyled text for pipes and logs.
type Plain struct{}

// NewPlain returns a plain-text renderer.
func NewPlain() *Plain { return &Plain{} }

func (p *Plain) Selection(req plan.Request) string {
	return fmt.Sprintf("input=%s mo=%d..%d spin=%s output=%s dir=%s jobs=%d\n",
		req.InputFile, req.MOLower, req.MOUpper, req.Spin,
		req.Format, req.OutputDir, spinTotal(req))
}

func (p *Plain) Report(rep *batch.Report) string {
	var sb strings.Builder
	for _, o := range rep.Outcomes {
		if o.Status == batch.StatusSucceeded {
			fmt.Fprintf(&sb, "ok   %s -> %s\n", o.Job.Label(), o.Job.TargetPath)
			continue
		}
		detail := diagnosticFirstLine(o.Diagnostic)
		if detail == "" {
			detail = fmt.Sprintf("exit code %d", o.ExitCode)
		}
		fmt.Fprintf(&sb, "FAIL %s (exit %d): %s\n", o.Job.Label(), o.ExitCode, detail)
	}
	sb.WriteString(summaryLine(rep))
	sb.WriteString("\n")
	return sb.String()
}

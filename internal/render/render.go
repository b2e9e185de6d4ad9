// Package render turns structured moplots data (the plot request and the run
// report) into user-facing output. The core stays presentation-free; these
// renderers own all formatting.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/moplots/moplots/internal/batch"
	"github.com/moplots/moplots/internal/plan"
)

// Renderer presents the active selection and the aggregate run report.
type Renderer interface {
	// Selection renders the request summary shown before execution.
	Selection(req plan.Request) string
	// Report renders the aggregate outcome of one batch.
	Report(rep *batch.Report) string
}

// spinTotal returns the number of jobs implied by the request.
func spinTotal(req plan.Request) int {
	n := req.MOUpper - req.MOLower + 1
	if req.Spin == plan.SpinBoth {
		n *= 2
	}
	return n
}

// summaryLine is shared phrasing across the terminal and plain renderers.
func summaryLine(rep *batch.Report) string {
	return fmt.Sprintf("%d succeeded, %d failed in %s",
		rep.Succeeded(), rep.Failed(), rep.Duration.Round(time.Millisecond))
}

// diagnosticFirstLine collapses captured stderr to its first line for table
// cells; the full text stays available in JSON output.
func diagnosticFirstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}

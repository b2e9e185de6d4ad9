package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/moplots/moplots/internal/batch"
	"github.com/moplots/moplots/internal/design"
	"github.com/moplots/moplots/internal/plan"
)

// Terminal renders styled Unicode output for interactive sessions.
type Terminal struct {
	theme *design.Theme
	width int
	title cases.Caser
}

// NewTerminal returns a terminal renderer for the given theme and width.
func NewTerminal(theme *design.Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width, title: cases.Title(language.English)}
}

// Selection renders the "Active Selection" panel shown before the batch runs.
func (t *Terminal) Selection(req plan.Request) string {
	th := t.theme

	rows := [][2]string{
		{"Input", th.Value.Render(req.InputFile)},
		{"MO Total", th.Value.Render(strconv.Itoa(spinTotal(req)))},
		{"MO Range", fmt.Sprintf("%s %s %s",
			th.Value.Render(strconv.Itoa(req.MOLower)),
			th.Muted.Render("to"),
			th.Value.Render(strconv.Itoa(req.MOUpper)))},
		{"Spin", th.SpinStyle(string(req.Spin)).Render(string(req.Spin))},
		{"Output", th.Value.Render(req.Format.String())},
		{"Directory", th.Value.Render(req.OutputDir)},
	}
	if req.Prefix != "" {
		rows = append(rows, [2]string{"Prefix", th.Value.Render(req.Prefix)})
	}

	labelWidth := 0
	for _, r := range rows {
		if w := runewidth.StringWidth(r[0]); w > labelWidth {
			labelWidth = w
		}
	}

	var body strings.Builder
	body.WriteString(th.Title.Render(t.title.String("active selection")))
	body.WriteString("\n")
	for _, r := range rows {
		pad := strings.Repeat(" ", labelWidth-runewidth.StringWidth(r[0]))
		fmt.Fprintf(&body, "%s%s  %s\n", th.Label.Render(r[0]), pad, r[1])
	}

	return th.Panel.Width(min(t.width-2, 56)).Render(strings.TrimRight(body.String(), "\n")) + "\n"
}

// Report renders the outcome table plus a summary line.
func (t *Terminal) Report(rep *batch.Report) string {
	th := t.theme

	headers := []string{"Result", "MO", "Spin", "Target", "Detail"}
	rows := make([][]string, 0, len(rep.Outcomes))
	for _, o := range rep.Outcomes {
		result := th.Success.Render("ok")
		detail := ""
		if o.Status == batch.StatusFailed {
			result = th.Error.Render("fail")
			detail = diagnosticFirstLine(o.Diagnostic)
			if detail == "" {
				detail = fmt.Sprintf("exit code %d", o.ExitCode)
			}
		}
		rows = append(rows, []string{
			result,
			strconv.Itoa(o.Job.MOIndex),
			th.SpinStyle(string(o.Job.Channel)).Render(string(o.Job.Channel)),
			th.Muted.Render(o.Job.TargetPath),
			th.Error.Render(detail),
		})
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(renderTable(th, headers, rows))

	sb.WriteString("\n")
	style := th.Success
	if rep.Failed() > 0 {
		style = th.Error
	}
	sb.WriteString(style.Render(summaryLine(rep)))
	sb.WriteString("\n")
	return sb.String()
}

// renderTable lays out a simple padded table. Column widths come from the
// visual width of cell content (runewidth over stripped styling), not byte
// length, so styled cells line up.
func renderTable(th *design.Theme, headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := visualWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	for i, h := range headers {
		sb.WriteString(th.Header.Render(h))
		sb.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(h)+2))
	}
	sb.WriteString("\n")
	for _, row := range rows {
		for i, cell := range row {
			sb.WriteString(cell)
			sb.WriteString(strings.Repeat(" ", widths[i]-visualWidth(cell)+2))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func visualWidth(s string) int {
	return lipgloss.Width(s)
}

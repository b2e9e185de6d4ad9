// Package tui shows a live progress bar while a batch executes. It consumes
// executor events from a channel and quits when the channel closes, so the
// executor itself never depends on terminal state.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moplots/moplots/internal/batch"
	"github.com/moplots/moplots/internal/design"
)

type eventMsg batch.Event

type doneMsg struct{}

type model struct {
	theme    *design.Theme
	bar      progress.Model
	events   <-chan batch.Event
	total    int
	finished int
	failed   int
	current  string
	done     bool
}

func newModel(events <-chan batch.Event, total int, theme *design.Theme) model {
	bar := progress.New(progress.WithDefaultGradient())
	if theme.Mono {
		bar = progress.New(progress.WithSolidFill("7"))
	}
	return model{theme: theme, bar: bar, events: events, total: total}
}

func (m model) Init() tea.Cmd {
	return m.listen()
}

// listen re-arms itself after every event; a closed channel ends the program.
func (m model) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 30
		if width < 10 {
			width = 10
		}
		m.bar.Width = width
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case eventMsg:
		ev := batch.Event(msg)
		switch ev.Kind {
		case batch.EventJobStarted:
			m.current = ev.Job.Label()
		case batch.EventJobFinished:
			m.finished++
			if ev.Outcome != nil && ev.Outcome.Status == batch.StatusFailed {
				m.failed++
			}
		}
		return m, m.listen()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	if m.done {
		return ""
	}

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.finished) / float64(m.total)
	}

	var sb strings.Builder
	sb.WriteString(m.theme.Title.Render("Generating MO plots"))
	sb.WriteString("  ")
	sb.WriteString(m.bar.ViewAs(percent))
	fmt.Fprintf(&sb, "  %s", m.theme.Muted.Render(fmt.Sprintf("%d/%d", m.finished, m.total)))
	if m.failed > 0 {
		sb.WriteString("  ")
		sb.WriteString(m.theme.Error.Render(fmt.Sprintf("%d failed", m.failed)))
	}
	if m.current != "" {
		sb.WriteString("  ")
		sb.WriteString(m.theme.Muted.Render(m.current))
	}
	sb.WriteString("\n")
	return sb.String()
}

// Run blocks until the events channel closes. It owns the terminal for the
// duration; callers render the final report after it returns.
func Run(events <-chan batch.Event, total int, theme *design.Theme) error {
	program := tea.NewProgram(newModel(events, total, theme))
	_, err := program.Run()
	return err
}

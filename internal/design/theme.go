// Package design defines the moplots terminal theming system.
//
// Colors use lipgloss format (hex strings); styles are composed with lipgloss
// methods, never manual ANSI escapes. A Theme is compiled once from a named
// color scheme and shared read-only by the renderers.
package design

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Scheme is a raw terminal color palette.
type Scheme struct {
	Foreground lipgloss.Color
	Comment    lipgloss.Color
	Cyan       lipgloss.Color
	Green      lipgloss.Color
	Orange     lipgloss.Color
	Pink       lipgloss.Color
	Purple     lipgloss.Color
	Red        lipgloss.Color
	Yellow     lipgloss.Color
}

// schemes holds the built-in palettes, keyed by user-facing name.
var schemes = map[string]Scheme{
	"dracula": {
		Foreground: "#f8f8f2", Comment: "#6272a4", Cyan: "#8be9fd",
		Green: "#50fa7b", Orange: "#ffb86c", Pink: "#ff79c6",
		Purple: "#bd93f9", Red: "#ff5555", Yellow: "#f1fa8c",
	},
	"monokai": {
		Foreground: "#f8f8f2", Comment: "#75715e", Cyan: "#66d9ef",
		Green: "#a6e22e", Orange: "#fd971f", Pink: "#f92672",
		Purple: "#ae81ff", Red: "#e74c3c", Yellow: "#e6db74",
	},
	"material": {
		Foreground: "#eceff1", Comment: "#546e7a", Cyan: "#80cbc4",
		Green: "#c3e88d", Orange: "#ffcb6b", Pink: "#f48fb1",
		Purple: "#b48ead", Red: "#ff5370", Yellow: "#ffcb6b",
	},
	"nord": {
		Foreground: "#d8dee9", Comment: "#4c566a", Cyan: "#88c0d0",
		Green: "#a3be8c", Orange: "#d08770", Pink: "#b48ead",
		Purple: "#81a1c1", Red: "#bf616a", Yellow: "#ebcb8b",
	},
	"one_dark": {
		Foreground: "#abb2bf", Comment: "#5c6370", Cyan: "#56b6c2",
		Green: "#98c379", Orange: "#d19a66", Pink: "#c678dd",
		Purple: "#c678dd", Red: "#e06c75", Yellow: "#e5c07b",
	},
	"solarized_dark": {
		Foreground: "#839496", Comment: "#586e75", Cyan: "#2aa198",
		Green: "#859900", Orange: "#cb4b16", Pink: "#d33682",
		Purple: "#6c71c4", Red: "#dc322f", Yellow: "#b58900",
	},
}

// ErrUnknownScheme is returned for scheme names outside SchemeNames.
var ErrUnknownScheme = errors.New("unknown color scheme")

// SchemeNames lists the available scheme names, sorted.
func SchemeNames() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Theme bundles the pre-built styles used across moplots output.
type Theme struct {
	Name string

	// Panel and table chrome
	Panel  lipgloss.Style // rounded box around the selection summary
	Title  lipgloss.Style // panel/report titles
	Header lipgloss.Style // table column headers
	Label  lipgloss.Style // left-hand parameter names

	// Semantic text styles
	Value     lipgloss.Style // plain values
	Muted     lipgloss.Style // de-emphasized text
	Success   lipgloss.Style
	Error     lipgloss.Style
	SpinAlpha lipgloss.Style
	SpinBeta  lipgloss.Style
	SpinBoth  lipgloss.Style

	// Mono disables all coloring (NO_COLOR, pipes, CI).
	Mono bool
}

// ThemeByName compiles the named scheme into a Theme. Unknown names return
// ErrUnknownScheme along with the valid options.
func ThemeByName(name string) (*Theme, error) {
	scheme, ok := schemes[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (options are %s)",
			ErrUnknownScheme, name, strings.Join(SchemeNames(), ", "))
	}
	return compile(strings.ToLower(name), scheme), nil
}

func compile(name string, s Scheme) *Theme {
	return &Theme{
		Name: name,

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(s.Comment).
			Padding(0, 1),
		Title:  lipgloss.NewStyle().Foreground(s.Purple).Bold(true),
		Header: lipgloss.NewStyle().Foreground(s.Pink).Bold(true),
		Label:  lipgloss.NewStyle().Foreground(s.Purple).Bold(true),

		Value:     lipgloss.NewStyle().Foreground(s.Foreground),
		Muted:     lipgloss.NewStyle().Foreground(s.Comment),
		Success:   lipgloss.NewStyle().Foreground(s.Green),
		Error:     lipgloss.NewStyle().Foreground(s.Red),
		SpinAlpha: lipgloss.NewStyle().Foreground(s.Green).Italic(true),
		SpinBeta:  lipgloss.NewStyle().Foreground(s.Red).Italic(true),
		SpinBoth:  lipgloss.NewStyle().Foreground(s.Cyan).Italic(true),
	}
}

// MonoTheme returns an uncolored theme for NO_COLOR and non-TTY output.
func MonoTheme() *Theme {
	plain := lipgloss.NewStyle()
	return &Theme{
		Name:  "mono",
		Mono:  true,
		Panel: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
		Title: plain, Header: plain, Label: plain,
		Value: plain, Muted: plain, Success: plain, Error: plain,
		SpinAlpha: plain, SpinBeta: plain, SpinBoth: plain,
	}
}

// SpinStyle picks the style for a spin selection string.
func (t *Theme) SpinStyle(spin string) lipgloss.Style {
	switch spin {
	case "alpha":
		return t.SpinAlpha
	case "beta":
		return t.SpinBeta
	default:
		return t.SpinBoth
	}
}

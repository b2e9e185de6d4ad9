// Package plan expands a plot request into an ordered sequence of orca_plot
// invocations. Building a plan is pure: no filesystem or process I/O happens
// until the batch executor consumes the jobs.
package plan

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Spin selects the electron spin channel(s) to plot.
type Spin string

const (
	SpinAlpha Spin = "alpha"
	SpinBeta  Spin = "beta"
	SpinBoth  Spin = "both"
)

// ErrInvalidSpin is returned for spin selections outside alpha/beta/both.
var ErrInvalidSpin = errors.New("invalid spin selection")

// ErrInvalidRange is returned for malformed MO index bounds.
var ErrInvalidRange = errors.New("invalid MO range")

// ParseSpin parses a user-supplied spin selection, case-insensitively.
func ParseSpin(s string) (Spin, error) {
	switch Spin(strings.ToLower(s)) {
	case SpinAlpha:
		return SpinAlpha, nil
	case SpinBeta:
		return SpinBeta, nil
	case SpinBoth:
		return SpinBoth, nil
	}
	return "", fmt.Errorf("%w: %q (expected alpha, beta, or both)", ErrInvalidSpin, s)
}

// operator is the orca_plot spin operator menu value.
func (s Spin) operator() string {
	if s == SpinBeta {
		return "1"
	}
	return "0"
}

// suffix is the single-letter channel tag used in output file names.
func (s Spin) suffix() string {
	if s == SpinBeta {
		return "b"
	}
	return "a"
}

// Format is the orca_plot output format menu value.
type Format int

const (
	FormatBinary Format = 5
	FormatASCII  Format = 6
	FormatCube   Format = 7
)

// ErrInvalidFormat is returned for unrecognized output format names.
var ErrInvalidFormat = errors.New("invalid output format")

// ParseFormat parses an output format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(s) {
	case "BINARY":
		return FormatBinary, nil
	case "ASCII":
		return FormatASCII, nil
	case "CUBE":
		return FormatCube, nil
	}
	return 0, fmt.Errorf("%w: %q (expected BINARY, ASCII, or CUBE)", ErrInvalidFormat, s)
}

func (f Format) String() string {
	switch f {
	case FormatASCII:
		return "ASCII"
	case FormatCube:
		return "CUBE"
	default:
		return "BINARY"
	}
}

// Ext returns the artifact file extension for the format.
func (f Format) Ext() string {
	switch f {
	case FormatASCII:
		return ".dat"
	case FormatCube:
		return ".cube"
	default:
		return ".plt"
	}
}

// DefaultGrid is the orca_plot grid resolution used when none is given.
const DefaultGrid = 80

// InputSuffixes lists the ORCA orbital file types orca_plot accepts.
var InputSuffixes = []string{".gbw", ".qro", ".uno", ".uco"}

// ValidInputSuffix reports whether name carries a recognized orbital suffix.
func ValidInputSuffix(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, s := range InputSuffixes {
		if ext == s {
			return true
		}
	}
	return false
}

// Request describes one batch of MO plots. It is treated as immutable once
// constructed; BuildPlan never modifies it.
type Request struct {
	// InputFile is the orbital file handed to orca_plot verbatim.
	InputFile string
	// MOLower and MOUpper are the inclusive MO index bounds.
	MOLower int
	MOUpper int
	Spin    Spin
	// OutputDir is created by the executor, not here.
	OutputDir string
	// Prefix optionally prefixes generated file names.
	Prefix string
	// Grid is the plot grid resolution; zero means DefaultGrid.
	Grid   int
	Format Format
}

// Job is one atomic orca_plot invocation: a single MO index on a single spin
// channel. Jobs are read-only after BuildPlan returns.
type Job struct {
	MOIndex int
	Channel Spin // alpha or beta, never both
	// TargetPath is where the artifact lands, derived deterministically
	// from the request. Distinct for every job within one plan.
	TargetPath string
	// Instruction is the exact batch-mode text fed to orca_plot on stdin.
	Instruction string
}

// Label is a short human-readable tag, e.g. "MO 12 alpha".
func (j Job) Label() string {
	return fmt.Sprintf("MO %d %s", j.MOIndex, j.Channel)
}

// BuildPlan expands req into jobs ordered by ascending MO index, alpha before
// beta for spin "both". The ordering is a contract: it fixes execution order
// and report order.
func BuildPlan(req Request) ([]Job, error) {
	if req.MOLower < 0 || req.MOUpper < 0 {
		return nil, fmt.Errorf("%w: bounds must be non-negative (got %d..%d)",
			ErrInvalidRange, req.MOLower, req.MOUpper)
	}
	if req.MOLower > req.MOUpper {
		return nil, fmt.Errorf("%w: lower bound %d exceeds upper bound %d",
			ErrInvalidRange, req.MOLower, req.MOUpper)
	}

	var channels []Spin
	switch req.Spin {
	case SpinAlpha:
		channels = []Spin{SpinAlpha}
	case SpinBeta:
		channels = []Spin{SpinBeta}
	case SpinBoth:
		channels = []Spin{SpinAlpha, SpinBeta}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSpin, string(req.Spin))
	}

	grid := req.Grid
	if grid <= 0 {
		grid = DefaultGrid
	}
	format := req.Format
	if format == 0 {
		format = FormatBinary
	}

	jobs := make([]Job, 0, (req.MOUpper-req.MOLower+1)*len(channels))
	for mo := req.MOLower; mo <= req.MOUpper; mo++ {
		for _, ch := range channels {
			jobs = append(jobs, Job{
				MOIndex:     mo,
				Channel:     ch,
				TargetPath:  TargetPath(req.OutputDir, req.Prefix, mo, ch, format),
				Instruction: Instruction(grid, mo, ch, format),
			})
		}
	}
	return jobs, nil
}

// TargetPath derives the artifact path for one MO/channel pair. It is a pure
// function of its arguments; (mo, channel) uniqueness within a plan makes the
// result collision-free.
func TargetPath(dir, prefix string, mo int, channel Spin, format Format) string {
	name := fmt.Sprintf("%smo%d%s%s", prefix, mo, channel.suffix(), format.Ext())
	return filepath.Join(dir, name)
}

// Instruction renders the orca_plot interactive-menu script for one job.
// The sequence mirrors the tool's batch dialogue: grid size (4), orbital
// number (2), spin operator (3), generate (1, 1), output format (5), then
// exit (10, 11). The text is passed through to orca_plot verbatim.
func Instruction(grid, mo int, channel Spin, format Format) string {
	var b strings.Builder
	fmt.Fprintf(&b, "4\n%d\n", grid)
	fmt.Fprintf(&b, "2\n%d\n", mo)
	fmt.Fprintf(&b, "3\n%s\n", channel.operator())
	b.WriteString("1\n1\n")
	fmt.Fprintf(&b, "5\n%d\n", int(format))
	b.WriteString("10\n11\n")
	return b.String()
}

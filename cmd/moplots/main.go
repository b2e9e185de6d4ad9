// moplots drives the ORCA orca_plot tool across a range of molecular-orbital
// indices and spin channels, producing one plot artifact per (MO, spin) pair.
//
// Usage:
//
//	moplots -m0 1 -m1 12 -s both -o CUBE water.gbw
//
// The batch runs strictly in order, one orca_plot process at a time. A failed
// invocation never aborts the batch; the final report lists every (MO, spin)
// pair with its outcome so the failed subset can be re-run.
//
// Exit codes: 0 all jobs succeeded, 1 some jobs failed, 2 fatal error
// (bad arguments, invalid range or spin, orca_plot missing, unusable
// output directory).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/moplots/moplots/internal/batch"
	"github.com/moplots/moplots/internal/config"
	"github.com/moplots/moplots/internal/design"
	"github.com/moplots/moplots/internal/plan"
	"github.com/moplots/moplots/internal/render"
	"github.com/moplots/moplots/internal/tui"
)

const version = "1.0.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	mo0, mo1    int
	spin        string
	output      string
	grid        int
	dir         string
	prefix      string
	color       string
	format      string
	showVersion bool
}

func parseFlags(args []string, cfg *config.App, stderr io.Writer) (*options, []string, error) {
	fs := flag.NewFlagSet("moplots", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: moplots [options] <infile>\n\n"+
			"Molecular Orbital Plots as Batch Series for ORCA.\n"+
			"Accepts %s orbital files.\n\nOptions:\n",
			joinSuffixes())
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.IntVar(&opts.mo0, "m0", -1, "First molecular orbital of the series")
	fs.IntVar(&opts.mo0, "mo0", -1, "Alias for -m0")
	fs.IntVar(&opts.mo1, "m1", -1, "Last molecular orbital of the series")
	fs.IntVar(&opts.mo1, "mo1", -1, "Alias for -m1")
	fs.StringVar(&opts.spin, "s", "alpha", "Spin channel: alpha, beta, both")
	fs.StringVar(&opts.spin, "spin", "alpha", "Alias for -s")
	fs.StringVar(&opts.output, "o", cfg.Format, "Output type: BINARY, ASCII, CUBE")
	fs.StringVar(&opts.output, "output", cfg.Format, "Alias for -o")
	fs.IntVar(&opts.grid, "g", cfg.Grid, "Grid resolution for the plot")
	fs.IntVar(&opts.grid, "grid", cfg.Grid, "Alias for -g")
	fs.StringVar(&opts.dir, "d", ".", "Output directory for generated files")
	fs.StringVar(&opts.dir, "dir", ".", "Alias for -d")
	fs.StringVar(&opts.prefix, "prefix", "", "File name prefix for generated files")
	fs.StringVar(&opts.color, "c", "", "Color scheme (persisted): "+joinSchemes())
	fs.StringVar(&opts.color, "color", "", "Alias for -c")
	fs.StringVar(&opts.format, "format", "auto", "Report format: auto, terminal, plain, json")
	fs.BoolVar(&opts.showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return opts, fs.Args(), nil
}

//nolint:funlen // Linear CLI wiring: config, plan, execute, report.
func run(args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()
	if cfg.Debug {
		// The executor and any child helpers gate their chatter on this.
		_ = os.Setenv("MOPLOTS_DEBUG", "1")
	}

	opts, rest, err := parseFlags(args, cfg, stderr)
	if err != nil {
		return 2
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "moplots v%s\n", version)
		return 0
	}

	theme, code := resolveTheme(opts, cfg, stdout, stderr)
	if code >= 0 {
		return code
	}

	req, code := buildRequest(opts, rest, stderr)
	if code >= 0 {
		return code
	}

	jobs, err := plan.BuildPlan(*req)
	if err != nil {
		fmt.Fprintf(stderr, "moplots: %v\n", err)
		return 2
	}

	mode := resolveFormat(opts.format, stdout)
	renderer, code := selectRenderer(mode, theme, stdout, stderr)
	if code >= 0 {
		return code
	}
	fmt.Fprint(stdout, renderer.Selection(*req))

	env, err := batch.ResolveTool(req.InputFile)
	if err != nil {
		fmt.Fprintf(stderr, "moplots: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rep, execErr := executePlan(ctx, env, req.OutputDir, jobs, mode, theme, stdout)
	if rep != nil {
		fmt.Fprint(stdout, renderer.Report(rep))
	}
	if execErr != nil {
		fmt.Fprintf(stderr, "moplots: %v\n", execErr)
		return 2
	}
	if rep.Failed() > 0 {
		return 1
	}
	return 0
}

// executePlan runs the batch, with a live progress bar when the report mode
// is an interactive terminal.
func executePlan(
	ctx context.Context,
	env batch.Environment,
	outputDir string,
	jobs []plan.Job,
	mode string,
	theme *design.Theme,
	stdout io.Writer,
) (*batch.Report, error) {
	ex := batch.NewExecutor(env)

	if mode != "terminal" || !isTTYWriter(stdout) {
		return ex.Execute(ctx, outputDir, jobs)
	}

	events := make(chan batch.Event)
	ex.Events = events

	var rep *batch.Report
	var execErr error
	go func() {
		rep, execErr = ex.Execute(ctx, outputDir, jobs)
		close(events)
	}()

	// Drain after the program exits so the executor never blocks on a
	// send once the TUI is gone; the close also publishes rep/execErr.
	tuiErr := tui.Run(events, len(jobs), theme)
	for range events {
	}
	if tuiErr != nil && execErr == nil && rep == nil {
		return nil, tuiErr
	}
	return rep, execErr
}

// buildRequest validates positional and flag input into a PlotRequest.
// Returns (req, -1) on success; (nil, exitCode) on error.
func buildRequest(opts *options, rest []string, stderr io.Writer) (*plan.Request, int) {
	if len(rest) != 1 {
		fmt.Fprintf(stderr, "moplots: exactly one input file is required\n")
		return nil, 2
	}
	input := rest[0]
	if !plan.ValidInputSuffix(input) {
		fmt.Fprintf(stderr, "moplots: invalid input file suffix (expected %s)\n", joinSuffixes())
		return nil, 2
	}
	if opts.mo0 < 0 || opts.mo1 < 0 {
		fmt.Fprintf(stderr, "moplots: both -m0 and -m1 are required and must be non-negative\n")
		return nil, 2
	}

	spin, err := plan.ParseSpin(opts.spin)
	if err != nil {
		fmt.Fprintf(stderr, "moplots: %v\n", err)
		return nil, 2
	}
	format, err := plan.ParseFormat(opts.output)
	if err != nil {
		fmt.Fprintf(stderr, "moplots: %v\n", err)
		return nil, 2
	}

	return &plan.Request{
		InputFile: input,
		MOLower:   opts.mo0,
		MOUpper:   opts.mo1,
		Spin:      spin,
		OutputDir: opts.dir,
		Prefix:    opts.prefix,
		Grid:      opts.grid,
		Format:    format,
	}, -1
}

// resolveTheme compiles the active theme, persisting -c selections.
// Returns (theme, -1) on success; (nil, exitCode) on error.
func resolveTheme(opts *options, cfg *config.App, stdout, stderr io.Writer) (*design.Theme, int) {
	name := cfg.Theme
	if opts.color != "" {
		name = opts.color
	}

	theme, err := design.ThemeByName(name)
	if err != nil {
		fmt.Fprintf(stderr, "moplots: %v\n", err)
		return nil, 2
	}

	if opts.color != "" && opts.color != cfg.Theme {
		if err := config.SaveTheme(theme.Name); err != nil {
			fmt.Fprintf(stderr, "moplots: warning: could not persist theme: %v\n", err)
		}
	}

	// Honor NO_COLOR and non-terminal output.
	if os.Getenv("NO_COLOR") != "" || !isTTYWriter(stdout) {
		theme = design.MonoTheme()
	}
	return theme, -1
}

func selectRenderer(mode string, theme *design.Theme, stdout, stderr io.Writer) (render.Renderer, int) {
	switch mode {
	case "terminal":
		return render.NewTerminal(theme, termWidth(stdout)), -1
	case "plain":
		return render.NewPlain(), -1
	case "json":
		return render.NewJSON(), -1
	default:
		fmt.Fprintf(stderr, "moplots: unknown format %q (expected auto, terminal, plain, json)\n", mode)
		return nil, 2
	}
}

func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	if isTTYWriter(w) {
		return "terminal"
	}
	return "plain"
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width for w, defaulting to 80.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 80
}

func joinSuffixes() string {
	out := ""
	for i, s := range plan.InputSuffixes {
		if i > 0 {
			out += ", "
		}
		out += "*" + s
	}
	return out
}

func joinSchemes() string {
	out := ""
	for i, s := range design.SchemeNames() {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

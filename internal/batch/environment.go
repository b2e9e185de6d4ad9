package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/moplots/moplots/internal/plan"
)

// ToolName is the external ORCA post-processor driven by the executor.
const ToolName = "orca_plot"

// ErrToolNotFound means orca_plot could not be resolved on the search path.
// It is fatal for the whole batch: no jobs are attempted.
var ErrToolNotFound = errors.New("orca_plot not found")

// ErrOutputPath means the output directory is unusable. Fatal, no jobs run.
var ErrOutputPath = errors.New("output directory unusable")

// LaunchExitCode is the sentinel recorded when the process never produced an
// exit status (launch failure).
const LaunchExitCode = -1

// Runner executes one plot job against the external tool and reports the exit
// code plus captured standard error text. Implementations block until the
// process finishes. Tests substitute fakes through Environment.
type Runner interface {
	Run(ctx context.Context, job plan.Job) (exitCode int, stderr string, err error)
}

// Environment carries the resolved tool location and the runner used for each
// invocation. It is an explicit dependency of the executor rather than
// ambient process state so tests can swap in a fake tool.
type Environment struct {
	// ToolPath is the resolved orca_plot binary.
	ToolPath string
	// InputFile is handed to the tool verbatim on every invocation.
	InputFile string
	// Runner performs the invocations. Nil selects the exec-based default.
	Runner Runner
}

// ResolveTool locates orca_plot on PATH and returns an Environment bound to
// input. Resolution failure is reported once for the batch, never per-job.
func ResolveTool(input string) (Environment, error) {
	path, err := exec.LookPath(ToolName)
	if err != nil {
		return Environment{}, fmt.Errorf("%w: ensure the ORCA tools are on PATH", ErrToolNotFound)
	}
	return Environment{ToolPath: path, InputFile: input}, nil
}

func (e Environment) runner() Runner {
	if e.Runner != nil {
		return e.Runner
	}
	return &execRunner{toolPath: e.ToolPath, inputFile: e.InputFile}
}

// execRunner shells out to orca_plot with the job's instruction text on
// stdin, mirroring the tool's documented batch mode
// (orca_plot <input> -i < script). Stdout is diverted to <target>.log so the
// tool's chatter stays out of the terminal but remains inspectable.
type execRunner struct {
	toolPath  string
	inputFile string
}

func (r *execRunner) Run(ctx context.Context, job plan.Job) (int, string, error) {
	cmd := exec.CommandContext(ctx, r.toolPath, r.inputFile, "-i")
	cmd.Stdin = strings.NewReader(job.Instruction)
	cmd.Env = os.Environ()

	logFile, err := os.Create(job.TargetPath + ".log")
	if err != nil {
		return LaunchExitCode, "", fmt.Errorf("creating tool log: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	cmd.Stdout = logFile

	var stderrBuf strings.Builder
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), stderrBuf.String(), err
		}
		if isNotFoundErr(err) {
			// Tool vanished between resolution and launch.
			err = fmt.Errorf("%w: %v", ErrToolNotFound, err)
		}
		return LaunchExitCode, stderrBuf.String(), err
	}
	return 0, stderrBuf.String(), nil
}

// isNotFoundErr reports whether err indicates a missing executable, covering
// exec.ErrNotFound plus platform-specific string fallbacks.
func isNotFoundErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	msg := err.Error()
	if strings.Contains(msg, "executable file not found") {
		return true
	}
	return runtime.GOOS != "windows" && strings.Contains(msg, "no such file or directory")
}

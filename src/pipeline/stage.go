package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"
)

// StageRunner executes single stages through a shell.
type StageRunner struct {
	Shell   string // defaults to "sh"
	Dir     string // job working directory, empty = inherit
	Verbose bool
	Stderr  io.Writer
}

// NewStageRunner creates a runner writing diagnostics to stderr.
func NewStageRunner(verbose bool) *StageRunner {
	return &StageRunner{Verbose: verbose, Stderr: os.Stderr}
}

// Run executes one stage with the given job environment merged over the
// ambient process environment (stage-level overrides win). It blocks until
// the command exits or ctx expires, and always returns a terminal result:
// passed on exit 0, failed on nonzero exit, timed-out when the context
// deadline was exceeded, cancelled when the context was cancelled.
func (r *StageRunner) Run(ctx context.Context, stage StageSpec, jobEnv map[string]string) StageResult {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}

	result := StageResult{Name: stage.Name, StartedAt: time.Now()}

	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, shell, "-c", stage.Run)
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	cmd.Dir = stage.Dir
	if cmd.Dir == "" {
		cmd.Dir = r.Dir
	}
	cmd.Env = mergeEnv(os.Environ(), jobEnv, stage.Env)

	if r.Verbose {
		fmt.Fprintf(r.Stderr, "exec: [%s] %s -c %q\n", stage.Name, shell, stage.Run)
	}

	err := cmd.Run()
	result.FinishedAt = time.Now()
	result.Output = buf.String()

	switch {
	case err == nil:
		result.Status = Passed
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.Status = TimedOut
		result.ExitCode = -1
	case errors.Is(ctx.Err(), context.Canceled):
		result.Status = Cancelled
		result.ExitCode = -1
	default:
		result.Status = Failed
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
	}
	return result
}

// mergeEnv layers overrides onto a base environment. Later maps win; the
// result is sorted for deterministic process spawning.
func mergeEnv(base []string, overrides ...map[string]string) []string {
	merged := make(map[string]string, len(base))
	for _, kv := range base {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			merged[kv[:i]] = kv[i+1:]
		}
	}
	for _, m := range overrides {
		for k, v := range m {
			merged[k] = v
		}
	}

	out := make([]string, 0, len(merged))
	for k, v := range merged {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

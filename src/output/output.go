// Package output renders pipeline results for terminals and CI systems.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matrixci/matrixci/src/pipeline"
)

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// Printer formats and writes pipeline results.
type Printer struct {
	Writer  io.Writer
	Color   bool
	Verbose bool
}

// NewPrinter creates a printer writing to stdout with color auto-detection.
func NewPrinter(verbose bool) *Printer {
	return &Printer{
		Writer:  os.Stdout,
		Color:   UseColor(),
		Verbose: verbose,
	}
}

// Pipeline renders the full per-job breakdown and the overall status line.
// Failed and cancelled jobs get stage-level detail including the captured
// output of the stage that broke; passed jobs get a compact summary row
// (or full detail in verbose mode).
func (p *Printer) Pipeline(res *pipeline.PipelineResult) {
	for i := range res.Jobs {
		job := &res.Jobs[i]
		if job.Status == pipeline.Passed && !p.Verbose {
			continue
		}
		p.job(job)
	}

	sec := NewSection(p.Writer, "summary", res.Duration, p.Color)
	for _, job := range res.Jobs {
		detail := p.jobDetail(job)
		sec.Row("%-16s %s  %s", job.Job, p.icon(job.Status), detail)
	}
	sec.Separator()
	status := "failed"
	if res.Passed {
		status = "passed"
	}
	sec.Row("%-16s %s  %s", res.Pipeline, p.icon(pipeline.Classification(status)), status)
	sec.Close()
}

// job renders one job section with a row per stage.
func (p *Printer) job(job *pipeline.JobResult) {
	SectionStart(p.Writer, "job_"+job.Job, job.Job)
	defer SectionEnd(p.Writer, "job_"+job.Job)

	sec := NewSection(p.Writer, job.Job, job.Duration, p.Color)

	if job.ProvisionError != "" {
		sec.Row("provisioning %s", p.icon(pipeline.Failed))
		for _, line := range outputLines(job.ProvisionError) {
			sec.Row("  %s", p.colorize(line, colorGray))
		}
		sec.Close()
		return
	}

	for _, st := range job.Stages {
		switch st.Status {
		case pipeline.Skipped:
			sec.Row("%-24s %s", st.Name, p.icon(st.Status))
		case pipeline.Passed:
			sec.Row("%-24s %s  %s", st.Name, p.icon(st.Status), formatElapsed(st.Duration()))
		default:
			sec.Row("%-24s %s  %s (exit %d)", st.Name, p.icon(st.Status), formatElapsed(st.Duration()), st.ExitCode)
			for _, line := range outputLines(st.Output) {
				sec.Row("  %s", p.colorize(line, colorGray))
			}
		}
	}
	sec.Close()
}

func (p *Printer) jobDetail(job pipeline.JobResult) string {
	switch {
	case job.ProvisionError != "":
		return "provisioning failed"
	case job.Status == pipeline.Passed:
		return fmt.Sprintf("%d stages in %s", len(job.Stages), formatElapsed(job.Duration))
	case job.FailedStage() != "":
		return fmt.Sprintf("at stage %q", job.FailedStage())
	default:
		return string(job.Status)
	}
}

// ContextBlock prints repository and pipeline context before the run.
func ContextBlock(w io.Writer, kv []KV) {
	if len(kv) == 0 {
		return
	}
	fmt.Fprintln(w)
	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) {
			fmt.Fprintf(w, "    %-12s%-14s%-11s%s\n",
				kv[i].Key, kv[i].Value, kv[i+1].Key, kv[i+1].Value)
		} else {
			fmt.Fprintf(w, "    %-12s%s\n", kv[i].Key, kv[i].Value)
		}
	}
}

// KV is a key-value pair for the context block.
type KV struct {
	Key   string
	Value string
}

// icon returns a status icon for a terminal classification.
func (p *Printer) icon(c pipeline.Classification) string {
	switch c {
	case pipeline.Passed:
		return p.colorize("✓", colorGreen)
	case pipeline.Failed:
		return p.colorize("✗", colorRed)
	case pipeline.TimedOut:
		return p.colorize("⏱", colorRed)
	case pipeline.Cancelled:
		return p.colorize("⊘", colorYellow)
	default: // skipped
		return p.colorize("-", colorGray)
	}
}

func (p *Printer) colorize(text, color string) string {
	if !p.Color {
		return text
	}
	return color + text + colorReset
}

// outputLines returns the last lines of captured output, trimmed for
// display inside a section.
func outputLines(out string) []string {
	const tail = 20
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) > tail {
		lines = lines[len(lines)-tail:]
	}
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	return lines
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal() || IsCI()
}

package pipeline

import "time"

// Classification is the terminal state of a stage or job.
type Classification string

const (
	Passed    Classification = "passed"
	Failed    Classification = "failed"
	Skipped   Classification = "skipped"
	TimedOut  Classification = "timed-out"
	Cancelled Classification = "cancelled"
)

// StageResult captures the outcome of one stage. Immutable once created.
type StageResult struct {
	Name       string         `json:"name"`
	Status     Classification `json:"status"`
	ExitCode   int            `json:"exit_code"`
	Output     string         `json:"output,omitempty"` // combined stdout+stderr
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// Duration returns the stage wall-clock time.
func (r StageResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// JobResult aggregates the stage results of one job.
type JobResult struct {
	Job      string         `json:"job"`
	Status   Classification `json:"status"` // passed, failed, or cancelled
	Stages   []StageResult  `json:"stages"`
	Duration time.Duration  `json:"duration_ns"`

	// ProvisionError holds the diagnostic when provisioning failed.
	// A provision-failed job has Status failed and zero stage results.
	ProvisionError string `json:"provision_error,omitempty"`
}

// FailedStage returns the name of the first non-passed stage, or "".
func (r JobResult) FailedStage() string {
	for _, s := range r.Stages {
		if s.Status != Passed {
			return s.Name
		}
	}
	return ""
}

// PipelineResult aggregates all job results for one run.
type PipelineResult struct {
	Pipeline string        `json:"pipeline"`
	Passed   bool          `json:"passed"`
	Jobs     []JobResult   `json:"jobs"`
	Duration time.Duration `json:"duration_ns"`
}

// aggregate derives the overall status: passed iff every job passed.
func aggregate(name string, jobs []JobResult, elapsed time.Duration) *PipelineResult {
	passed := true
	for _, j := range jobs {
		if j.Status != Passed {
			passed = false
		}
	}
	return &PipelineResult{
		Pipeline: name,
		Passed:   passed,
		Jobs:     jobs,
		Duration: elapsed,
	}
}

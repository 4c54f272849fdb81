package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Runner executes all jobs of an expanded matrix and aggregates the
// outcome. Jobs are independent: they run concurrently, complete in any
// order, and a failure in one never touches its siblings.
type Runner struct {
	Workers     int // max concurrent jobs, 0 = NumCPU
	Verbose     bool
	Stderr      io.Writer
	Stage       *StageRunner
	Provisioner *Provisioner

	// JobFinished, when set, is called as each job reaches a terminal
	// state. Calls are serialized.
	JobFinished func(JobResult)
}

// NewRunner creates a runner with default stage and provision executors.
func NewRunner(workers int, verbose bool) *Runner {
	return &Runner{
		Workers:     workers,
		Verbose:     verbose,
		Stderr:      os.Stderr,
		Stage:       NewStageRunner(verbose),
		Provisioner: NewProvisioner(verbose),
	}
}

// Run executes every job and blocks until all reach a terminal state, then
// derives the overall status: passed iff every job passed. Cancelling ctx
// terminates in-flight stage processes; their jobs finish as cancelled
// while already-completed siblings keep their results.
func (r *Runner) Run(ctx context.Context, name string, jobs []JobSpec) *PipelineResult {
	start := time.Now()

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	sem := semaphore.NewWeighted(int64(workers))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make([]JobResult, len(jobs))
	)

	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, spec JobSpec) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				// Pipeline cancelled before the job started.
				results[idx] = JobResult{Job: spec.Name, Status: Cancelled}
			} else {
				results[idx] = r.runJob(ctx, spec)
				sem.Release(1)
			}

			if r.JobFinished != nil {
				mu.Lock()
				r.JobFinished(results[idx])
				mu.Unlock()
			}
		}(i, job)
	}

	wg.Wait()
	return aggregate(name, results, time.Since(start))
}

// runJob drives one job through its state machine: provisioning, then the
// declared stages in strict order with fail-fast short-circuiting.
func (r *Runner) runJob(ctx context.Context, spec JobSpec) JobResult {
	start := time.Now()
	result := JobResult{Job: spec.Name}

	if err := r.Provisioner.Apply(ctx, spec.Provision, spec.Env); err != nil {
		// Fatal to this job only; no stages are recorded.
		if ctx.Err() != nil {
			result.Status = Cancelled
		} else {
			result.Status = Failed
		}
		result.ProvisionError = err.Error()
		result.Duration = time.Since(start)
		if r.Verbose {
			fmt.Fprintf(r.Stderr, "job %s: %v\n", spec.Name, err)
		}
		return result
	}

	result.Status = Passed
	for i, stage := range spec.Stages {
		sr := r.Stage.Run(ctx, stage, spec.Env)
		result.Stages = append(result.Stages, sr)

		if sr.Status == Passed {
			continue
		}

		if sr.Status == Cancelled {
			result.Status = Cancelled
		} else {
			result.Status = Failed
		}

		// Fail-fast: unstarted stages are recorded as skipped.
		for _, rest := range spec.Stages[i+1:] {
			result.Stages = append(result.Stages, StageResult{Name: rest.Name, Status: Skipped})
		}
		break
	}

	result.Duration = time.Since(start)
	return result
}

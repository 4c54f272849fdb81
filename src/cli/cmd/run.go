package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/matrixci/matrixci/src/config"
	"github.com/matrixci/matrixci/src/gitmeta"
	"github.com/matrixci/matrixci/src/matrix"
	"github.com/matrixci/matrixci/src/output"
	"github.com/matrixci/matrixci/src/pipeline"
)

var (
	runReportDir string
	runTimeout   time.Duration
	runWorkers   int
)

var runCmd = &cobra.Command{
	Use:   "run <pipeline-file>",
	Short: "Expand the matrix and run all jobs",
	Long: `Expand the axis declarations of a pipeline definition into the
cross-product of jobs and run them concurrently. Each job provisions its
declared dependencies, then runs the stage list in strict order with
fail-fast short-circuiting.

The process exits 0 only when every job passed.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runReportDir, "report-dir", "", "write report.json and junit.xml to this directory")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "overall deadline for the run (0 = none)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "max concurrent jobs (overrides the definition; 0 = one per CPU)")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	jobs := matrix.Expand(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runTimeout)
		defer cancel()
	}

	printContext(cfg, len(jobs))

	workers := cfg.Workers
	if runWorkers > 0 {
		workers = runWorkers
	}
	runner := pipeline.NewRunner(workers, verbose)
	if verbose {
		runner.JobFinished = func(jr pipeline.JobResult) {
			fmt.Fprintf(os.Stderr, "job %s: %s\n", jr.Job, jr.Status)
		}
	}

	res := runner.Run(ctx, cfg.Name, jobs)

	printer := output.NewPrinter(verbose)
	printer.Pipeline(res)

	if runReportDir != "" {
		if err := output.WriteJSON(runReportDir, res); err != nil {
			return err
		}
		if err := output.WriteJUnit(runReportDir, res); err != nil {
			return err
		}
	}

	if !res.Passed {
		return fmt.Errorf("pipeline %s failed", cfg.Name)
	}
	return nil
}

// printContext renders the repository and matrix context before the run.
func printContext(cfg *config.Config, jobCount int) {
	kv := []output.KV{
		{Key: "pipeline", Value: cfg.Name},
		{Key: "jobs", Value: fmt.Sprintf("%d", jobCount)},
	}
	if gc := gitmeta.Resolve("."); gc != nil {
		commit := gc.Commit
		if gc.Dirty {
			commit += "+dirty"
		}
		kv = append(kv, output.KV{Key: "commit", Value: commit})
		if gc.Branch != "" {
			kv = append(kv, output.KV{Key: "branch", Value: gc.Branch})
		}
	}
	output.ContextBlock(os.Stdout, kv)
}

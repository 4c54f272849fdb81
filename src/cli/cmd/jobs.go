package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matrixci/matrixci/src/config"
	"github.com/matrixci/matrixci/src/matrix"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs <pipeline-file>",
	Short: "Print the expanded job matrix without running anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}

		for _, job := range matrix.Expand(cfg) {
			vars := make([]string, 0, len(job.Env))
			for k, v := range job.Env {
				vars = append(vars, k+"="+v)
			}
			sort.Strings(vars)
			fmt.Fprintf(os.Stdout, "%-16s %s\n", job.Name, strings.Join(vars, " "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}

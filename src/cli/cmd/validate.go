package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matrixci/matrixci/src/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate <pipeline-file>",
	Short: "Check a pipeline definition for configuration errors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s: ok\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

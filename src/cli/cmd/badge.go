package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matrixci/matrixci/src/badge"
	"github.com/matrixci/matrixci/src/output"
)

var (
	badgeOut      string
	badgeFontFile string
	badgeFontSize float64
)

var badgeCmd = &cobra.Command{
	Use:   "badge <report.json>",
	Short: "Render a build-status SVG badge from a run report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := output.ReadJSON(args[0])
		if err != nil {
			return err
		}

		metrics := badge.DefaultMetrics(badgeFontSize)
		if badgeFontFile != "" {
			metrics, err = badge.LoadFontFile(badgeFontFile, badgeFontSize)
			if err != nil {
				return err
			}
		}

		svg := badge.New(metrics).Generate(badge.FromResult(res))

		if badgeOut == "" || badgeOut == "-" {
			fmt.Fprintln(os.Stdout, svg)
			return nil
		}
		if err := os.WriteFile(badgeOut, []byte(svg+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", badgeOut, err)
		}
		return nil
	},
}

func init() {
	badgeCmd.Flags().StringVarP(&badgeOut, "output", "o", "", "output file (default: stdout)")
	badgeCmd.Flags().StringVar(&badgeFontFile, "font", "", "TTF/OTF file to measure and embed")
	badgeCmd.Flags().Float64Var(&badgeFontSize, "font-size", 11, "font point size")

	rootCmd.AddCommand(badgeCmd)
}

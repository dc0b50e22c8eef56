package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs one harvest and writes the report, exiting non-zero on failure.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		// Dispatched pages are not cancelled by an interrupt.
		res, err := a.pipeline.Run(context.WithoutCancel(cmd.Context()))
		if err != nil {
			return fmt.Errorf("harvest failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d matches written to %s in %s\n", res.Matches, res.ReportPath, res.Duration)
		return nil
	},
}

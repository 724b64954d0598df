// Package periods implements the period listing command.
package periods

import (
	"fmt"

	"spendwise/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the periods command.
var Cmd = &cobra.Command{
	Use:   "periods",
	Short: "List the accounting periods covered by saved reports",
	Long: `List every period any saved transaction falls into, newest first.
Each date contributes both its calendar month and its mid-month cycle, so the
same month can appear twice: once plain and once with the mid-month suffix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()

		reports, err := c.Store().ListReports(cmd.Context())
		if err != nil {
			return err
		}

		labels := c.Engine().Periods(reports)
		if len(labels) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No periods found. Run 'spendwise ingest' first.")
			return nil
		}
		for _, label := range labels {
			fmt.Fprintln(cmd.OutOrStdout(), label)
		}
		return nil
	},
}

// Package trend implements the month-over-month spending trend command.
package trend

import (
	"fmt"
	"text/tabwriter"

	"spendwise/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the trend command.
var Cmd = &cobra.Command{
	Use:   "trend",
	Short: "Show month-over-month spending totals",
	Long: `Show per-month spending totals across all saved reports, oldest first,
split into discretionary and essential spending. Only calendar months are
used; inflows are excluded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()

		reports, err := c.Store().ListReports(cmd.Context())
		if err != nil {
			return err
		}

		points := c.Engine().Trend(reports)
		if len(points) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No spending to summarize.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PERIOD\tTOTAL\tDISCRETIONARY\tESSENTIAL")
		for _, p := range points {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				p.Period, p.Total.StringFixed(2),
				p.Discretionary.StringFixed(2), p.NonDiscretionary.StringFixed(2))
		}
		return w.Flush()
	},
}

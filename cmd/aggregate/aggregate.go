// Package aggregate implements the period aggregation command.
package aggregate

import (
	"fmt"
	"text/tabwriter"

	"spendwise/cmd/root"
	"spendwise/internal/period"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	periodLabel string
	modeFlag    string
)

// Cmd represents the aggregate command.
var Cmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Show all transactions in one accounting period, across every report",
	RunE:  aggregateFunc,
}

func init() {
	Cmd.Flags().StringVarP(&periodLabel, "period", "p", "", `Period label, e.g. "March 2024" (required)`)
	Cmd.Flags().StringVarP(&modeFlag, "mode", "m", string(period.Calendar), "Period mode: calendar or mid-month")
	_ = Cmd.MarkFlagRequired("period")
}

func aggregateFunc(cmd *cobra.Command, args []string) error {
	mode, err := parseMode(modeFlag)
	if err != nil {
		return err
	}

	c := root.GetContainer()
	reports, err := c.Store().ListReports(cmd.Context())
	if err != nil {
		return err
	}

	transactions := c.Engine().Transactions(reports, periodLabel, mode)
	if len(transactions) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No transactions in %s\n", periodLabel)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDESCRIPTION\tAMOUNT\tCATEGORY")
	spent := decimal.Zero
	for _, tx := range transactions {
		if tx.IsOutflow() {
			spent = spent.Add(tx.Amount.Abs())
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			tx.Date, tx.Description, tx.Amount.StringFixed(2), tx.CategoryOrDefault())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d transactions, total spent %s\n",
		len(transactions), spent.StringFixed(2))
	return nil
}

func parseMode(raw string) (period.Mode, error) {
	switch period.Mode(raw) {
	case period.Calendar:
		return period.Calendar, nil
	case period.MidMonth:
		return period.MidMonth, nil
	default:
		return "", fmt.Errorf("invalid mode %q (use %q or %q)", raw, period.Calendar, period.MidMonth)
	}
}

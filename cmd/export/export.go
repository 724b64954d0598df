// Package export implements the spreadsheet and CSV export commands.
package export

import (
	"fmt"

	"spendwise/cmd/root"
	"spendwise/internal/period"

	"github.com/spf13/cobra"
)

var (
	xlsxOutput  string
	xlsxMode    string
	csvOutput   string
	csvMode     string
	periodLabel string
)

// Cmd represents the export command group.
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export spending data to XLSX or CSV",
}

var xlsxCmd = &cobra.Command{
	Use:   "xlsx",
	Short: "Write a category by period spending matrix",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := parseMode(xlsxMode)
		if err != nil {
			return err
		}

		c := root.GetContainer()
		reports, err := c.Store().ListReports(cmd.Context())
		if err != nil {
			return err
		}

		if err := c.Exporter().WriteMatrixXLSX(reports, mode, xlsxOutput); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote spending matrix to %s\n", xlsxOutput)
		return nil
	},
}

var csvCmd = &cobra.Command{
	Use:   "csv",
	Short: "Write one period's transactions as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := parseMode(csvMode)
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
			return fmt.Errorf("no transactions in %s", periodLabel)
		}

		if err := c.Exporter().WriteTransactionsCSV(transactions, csvOutput); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d transactions to %s\n", len(transactions), csvOutput)
		return nil
	},
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

func init() {
	Cmd.AddCommand(xlsxCmd)
	Cmd.AddCommand(csvCmd)

	xlsxCmd.Flags().StringVarP(&xlsxOutput, "output", "o", "spending.xlsx", "Output file path")
	xlsxCmd.Flags().StringVarP(&xlsxMode, "mode", "m", string(period.Calendar), "Period mode: calendar or mid-month")

	csvCmd.Flags().StringVarP(&csvOutput, "output", "o", "transactions.csv", "Output file path")
	csvCmd.Flags().StringVarP(&csvMode, "mode", "m", string(period.Calendar), "Period mode: calendar or mid-month")
	csvCmd.Flags().StringVarP(&periodLabel, "period", "p", "", `Period label, e.g. "March 2024" (required)`)
	_ = csvCmd.MarkFlagRequired("period")
}

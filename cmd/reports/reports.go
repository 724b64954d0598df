// Package reports implements report management commands: list, show,
// rename, delete, report-to-report comparison, and post-classification
// category edits.
package reports

import (
	"fmt"
	"text/tabwriter"

	"spendwise/cmd/root"
	"spendwise/internal/models"

	"github.com/spf13/cobra"
)

var (
	reportID      string
	newName       string
	transactionID string
	category      string
)

// Cmd represents the reports command group.
var Cmd = &cobra.Command{
	Use:   "reports",
	Short: "Manage saved spending reports",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		reports, err := c.Store().ListReports(cmd.Context())
		if err != nil {
			return err
		}
		if len(reports) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No reports saved yet. Run 'spendwise ingest' first.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDATE\tSTATUS\tPROGRESS\tTRANSACTIONS\tTOTAL SPENT")
		for _, r := range reports {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\t%d\t%s\n",
				r.ID, r.Name, r.Timestamp.Format("2006-01-02"),
				r.Status, r.Progress, len(r.Transactions), r.TotalSpent.StringFixed(2))
		}
		return w.Flush()
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a report's transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		report, err := c.Store().GetReport(cmd.Context(), reportID)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) - %s, %d%%\n",
			report.Name, report.ID, report.Status, report.Progress)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tDESCRIPTION\tAMOUNT\tCATEGORY\tDISCRETIONARY")
		for _, tx := range report.Transactions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				tx.ID, tx.Date, tx.Description, tx.Amount.StringFixed(2),
				tx.CategoryOrDefault(), discretionaryLabel(tx))
		}
		return w.Flush()
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Rename a report",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if err := c.Store().RenameReport(cmd.Context(), reportID, newName); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed report %s to %q\n", reportID, newName)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a report permanently",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if err := c.Store().DeleteReport(cmd.Context(), reportID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted report %s\n", reportID)
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <id-a> <id-b>",
	Short: "Compare per-category totals between two reports",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		reportA, err := c.Store().GetReport(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		reportB, err := c.Store().GetReport(cmd.Context(), args[1])
		if err != nil {
			return err
		}

		rows := c.Engine().CompareReports(reportA, reportB)
		if len(rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Both reports are empty.")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s vs %s\n", reportA.Name, reportB.Name)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "CATEGORY\t%s\t%s\tDIFF\tCHANGE\n", reportA.Name, reportB.Name)
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s%%\n",
				row.Category, row.TotalA.StringFixed(2), row.TotalB.StringFixed(2),
				row.Diff.StringFixed(2), row.PercentDiff.StringFixed(2))
		}
		return w.Flush()
	},
}

var recategorizeCmd = &cobra.Command{
	Use:   "recategorize",
	Short: "Change one transaction's category",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		err := c.Store().UpdateTransactionCategory(cmd.Context(), reportID, transactionID, category)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set transaction %s to %q\n", transactionID, category)
		return nil
	},
}

func discretionaryLabel(tx models.Transaction) string {
	if tx.Discretionary == nil {
		return "-"
	}
	if *tx.Discretionary {
		return "yes"
	}
	return "no"
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(renameCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(compareCmd)
	Cmd.AddCommand(recategorizeCmd)

	showCmd.Flags().StringVarP(&reportID, "id", "i", "", "Report id (required)")
	_ = showCmd.MarkFlagRequired("id")

	renameCmd.Flags().StringVarP(&reportID, "id", "i", "", "Report id (required)")
	renameCmd.Flags().StringVarP(&newName, "name", "n", "", "New name (required)")
	_ = renameCmd.MarkFlagRequired("id")
	_ = renameCmd.MarkFlagRequired("name")

	deleteCmd.Flags().StringVarP(&reportID, "id", "i", "", "Report id (required)")
	_ = deleteCmd.MarkFlagRequired("id")

	recategorizeCmd.Flags().StringVarP(&reportID, "id", "i", "", "Report id (required)")
	recategorizeCmd.Flags().StringVarP(&transactionID, "transaction", "t", "", "Transaction id (required)")
	recategorizeCmd.Flags().StringVarP(&category, "category", "c", "", "New category (required)")
	_ = recategorizeCmd.MarkFlagRequired("id")
	_ = recategorizeCmd.MarkFlagRequired("transaction")
	_ = recategorizeCmd.MarkFlagRequired("category")
}

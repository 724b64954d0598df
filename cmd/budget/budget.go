// Package budget implements budget tracking commands: set a spending target
// for a period and compare it against actual spending.
package budget

import (
	"fmt"
	"text/tabwriter"

	"spendwise/cmd/root"
	"spendwise/internal/models"
	"spendwise/internal/period"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	periodLabel string
	category    string
	amountFlag  string
)

// Cmd represents the budget command group.
var Cmd = &cobra.Command{
	Use:   "budget",
	Short: "Set and track spending budgets per period",
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Set a budget for a period and category",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := decimal.NewFromString(amountFlag)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", amountFlag, err)
		}
		if amount.IsNegative() {
			return fmt.Errorf("budget amount must not be negative")
		}

		c := root.GetContainer()
		budget := models.Budget{Period: periodLabel, Category: category, Amount: amount}
		if err := c.Store().SaveBudget(cmd.Context(), c.Config().User, budget); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Budget for %s / %s set to %s\n",
			periodLabel, category, amount.StringFixed(2))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Compare budgets against actual spending for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		ctx := cmd.Context()

		budgets, err := c.Store().ListBudgets(ctx, c.Config().User)
		if err != nil {
			return err
		}
		var matching []models.Budget
		for _, b := range budgets {
			if b.Period == periodLabel {
				matching = append(matching, b)
			}
		}
		if len(matching) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No budgets set for %s\n", periodLabel)
			return nil
		}

		reports, err := c.Store().ListReports(ctx)
		if err != nil {
			return err
		}
		spentByCategory := map[string]decimal.Decimal{}
		total := decimal.Zero
		for _, tx := range c.Engine().Transactions(reports, periodLabel, period.Calendar) {
			if !tx.IsOutflow() {
				continue
			}
			amount := tx.Amount.Abs()
			spentByCategory[tx.CategoryOrDefault()] = spentByCategory[tx.CategoryOrDefault()].Add(amount)
			total = total.Add(amount)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tBUDGET\tSPENT\tREMAINING")
		for _, b := range matching {
			spent := spentByCategory[b.Category]
			if b.Category == models.CategoryTotal {
				spent = total
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				b.Category, b.Amount.StringFixed(2), spent.StringFixed(2),
				b.Amount.Sub(spent).StringFixed(2))
		}
		return w.Flush()
	},
}

func init() {
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(showCmd)

	setCmd.Flags().StringVarP(&periodLabel, "period", "p", "", `Period label, e.g. "March 2024" (required)`)
	setCmd.Flags().StringVarP(&category, "category", "c", models.CategoryTotal, "Category the budget applies to")
	setCmd.Flags().StringVarP(&amountFlag, "amount", "a", "", "Budget amount (required)")
	_ = setCmd.MarkFlagRequired("period")
	_ = setCmd.MarkFlagRequired("amount")

	showCmd.Flags().StringVarP(&periodLabel, "period", "p", "", `Period label, e.g. "March 2024" (required)`)
	_ = showCmd.MarkFlagRequired("period")
}

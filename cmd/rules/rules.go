// Package rules implements personalization commands: merchant category
// rules and per-category discretionary preferences that steer the
// classifier.
package rules

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"spendwise/cmd/root"
	"spendwise/internal/models"

	"github.com/spf13/cobra"
)

var (
	pattern       string
	category      string
	discretionary string
)

// Cmd represents the rules command group.
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage classification preferences",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved merchant rules and category preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		ctx := cmd.Context()
		user := c.Config().User

		userRules, err := c.Store().GetUserRules(ctx, user)
		if err != nil {
			return err
		}
		settings, err := c.Store().GetCategorySettings(ctx, user)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(userRules) == 0 && len(settings) == 0 {
			fmt.Fprintln(out, "No rules saved yet.")
			return nil
		}

		if len(userRules) > 0 {
			fmt.Fprintln(out, "Merchant rules:")
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATTERN\tCATEGORY")
			for _, r := range userRules {
				fmt.Fprintf(w, "%s\t%s\n", r.MerchantPattern, r.PreferredCategory)
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}

		if len(settings) > 0 {
			fmt.Fprintln(out, "Category preferences:")
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tDISCRETIONARY")
			for _, name := range models.CategoryVocabulary() {
				if value, ok := settings[name]; ok {
					fmt.Fprintf(w, "%s\t%t\n", name, value)
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a merchant rule: descriptions matching a pattern get a fixed category",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		rule := models.UserRule{MerchantPattern: pattern, PreferredCategory: category}
		if err := c.Store().SaveUserRule(cmd.Context(), c.Config().User, rule); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rule saved: %q -> %q\n", pattern, category)
		return nil
	},
}

var preferCmd = &cobra.Command{
	Use:   "prefer",
	Short: "Mark a category as discretionary or essential",
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseBool(discretionary)
		if err != nil {
			return fmt.Errorf("invalid --discretionary value %q: %w", discretionary, err)
		}

		c := root.GetContainer()
		if err := c.Store().SaveCategorySetting(cmd.Context(), c.Config().User, category, value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Category %q marked discretionary=%t\n", category, value)
		return nil
	},
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(preferCmd)

	addCmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Merchant description pattern (required)")
	addCmd.Flags().StringVarP(&category, "category", "c", "", "Category to assign (required)")
	_ = addCmd.MarkFlagRequired("pattern")
	_ = addCmd.MarkFlagRequired("category")

	preferCmd.Flags().StringVarP(&category, "category", "c", "", "Category to mark (required)")
	preferCmd.Flags().StringVarP(&discretionary, "discretionary", "d", "", "true or false (required)")
	_ = preferCmd.MarkFlagRequired("category")
	_ = preferCmd.MarkFlagRequired("discretionary")
}

// Package vocab implements the category vocabulary commands.
package vocab

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"spendwise/cmd/root"
	"spendwise/internal/vocab"

	"github.com/spf13/cobra"
)

var force bool

// Cmd represents the vocab command group.
var Cmd = &cobra.Command{
	Use:   "vocab",
	Short: "Manage the category vocabulary used by the classifier",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the active category definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tDISCRETIONARY\tDESCRIPTION")
		for _, def := range c.Definitions() {
			fmt.Fprintf(w, "%s\t%t\t%s\n", def.Name, def.Discretionary, def.Description)
		}
		return w.Flush()
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the active category definitions to the vocabulary file for editing",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		path := c.Config().VocabPath()

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("vocabulary file %s already exists (use --force to overwrite)", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create vocabulary directory: %w", err)
		}

		if err := vocab.Save(path, c.Definitions()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d category definitions to %s\n", len(c.Definitions()), path)
		return nil
	},
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing vocabulary file")
}

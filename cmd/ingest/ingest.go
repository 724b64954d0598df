// Package ingest implements the statement ingestion command: parse a CSV
// export, classify it, and persist the resulting report.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"spendwise/cmd/root"
	"spendwise/internal/logging"
	"spendwise/internal/models"

	"github.com/spf13/cobra"
)

var (
	filePath   string
	reportName string
)

// Cmd represents the ingest command.
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Parse a statement CSV, classify it, and save the report",
	RunE:  ingestFunc,
}

func init() {
	Cmd.Flags().StringVarP(&filePath, "file", "f", "", "Statement CSV file (required)")
	Cmd.Flags().StringVarP(&reportName, "name", "n", "", "Report name (defaults to the file name)")
	_ = Cmd.MarkFlagRequired("file")
}

func ingestFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	logger := c.Logger()
	ctx := cmd.Context()

	transactions, err := c.Parser().ParseFile(filePath)
	if err != nil {
		return err
	}

	name := reportName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}

	report := models.NewReport(name, transactions)
	if err := c.Store().SaveReport(ctx, report); err != nil {
		return err
	}

	orchestrator := c.Orchestrator()
	if orchestrator == nil {
		logger.Warn("AI classification is disabled; saving report unclassified")
		report.SetProgress(100)
		if err := c.Store().SaveReport(ctx, report); err != nil {
			return err
		}
		printSummary(cmd, report)
		return nil
	}

	result, err := orchestrator.Classify(ctx, c.Config().User, report.Transactions,
		func(percent int, chunk []models.Transaction) {
			report.ApplyClassified(chunk, percent)
			// Autosave so an interrupted run keeps everything classified so far.
			if saveErr := c.Store().SaveReport(ctx, report); saveErr != nil {
				logger.WithError(saveErr).Warn("Failed to autosave report")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Classifying... %d%%\n", percent)
		})
	if err != nil {
		logger.WithError(err).WithField(logging.FieldReportID, report.ID).
			Warn("Classification interrupted; partial report saved")
		return err
	}

	if result.Degraded() {
		fmt.Fprintf(cmd.OutOrStdout(),
			"Warning: %d of %d chunks could not be classified and were marked %q\n",
			result.FailedChunks, result.TotalChunks, models.CategoryOther)
	}

	printSummary(cmd, report)
	return nil
}

func printSummary(cmd *cobra.Command, report *models.Report) {
	fmt.Fprintf(cmd.OutOrStdout(), "Report %s (%s): %d transactions, total spent %s\n",
		report.Name, report.ID, len(report.Transactions), report.TotalSpent.StringFixed(2))
}

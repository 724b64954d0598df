// Package export writes aggregated spending data to files: a category by
// period spreadsheet for analysis, and flat CSV dumps of transactions.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"spendwise/internal/aggregate"
	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/period"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const totalLabel = "Total"

// Exporter produces spreadsheet and CSV output from saved reports.
type Exporter struct {
	engine *aggregate.Engine
	logger logging.Logger
}

// NewExporter creates an exporter backed by the given aggregation engine.
func NewExporter(engine *aggregate.Engine, logger logging.Logger) *Exporter {
	return &Exporter{engine: engine, logger: logger}
}

// WriteTransactionsCSV writes transactions to a CSV file. All export paths
// use this one writer so the column layout stays consistent.
func (e *Exporter) WriteTransactionsCSV(transactions []models.Transaction, csvFile string) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	e.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
	).Info("Writing transactions to CSV file")

	if err := os.MkdirAll(filepath.Dir(csvFile), 0o750); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			e.logger.WithError(cerr).Warn("Failed to close CSV file")
		}
	}()

	if err := gocsv.MarshalFile(&transactions, file); err != nil {
		return fmt.Errorf("write CSV: %w", err)
	}
	return nil
}

// WriteMatrixXLSX writes a category by period spending matrix to an XLSX
// file. Columns are the periods of the chosen mode in chronological order,
// rows are categories; the last row and column hold totals. Cells are
// absolute outflow sums as float64, which is what spreadsheet consumers
// expect numeric cells to be.
func (e *Exporter) WriteMatrixXLSX(reports []models.Report, mode period.Mode, xlsxFile string) error {
	periods := e.periodsForMode(reports, mode)
	if len(periods) == 0 {
		return fmt.Errorf("no periods to export")
	}

	matrix, categories := e.buildMatrix(reports, periods, mode)

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.WithError(cerr).Warn("Failed to close XLSX file")
		}
	}()

	sheet := "Spending"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	setCell := func(col, row int, value interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, value)
	}

	if err := setCell(1, 1, "Category"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, label := range periods {
		if err := setCell(i+2, 1, label); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := setCell(len(periods)+2, 1, totalLabel); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	periodTotals := make([]decimal.Decimal, len(periods))
	for r, category := range categories {
		row := r + 2
		if err := setCell(1, row, category); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
		rowTotal := decimal.Zero
		for c, label := range periods {
			amount := matrix[category][label]
			rowTotal = rowTotal.Add(amount)
			periodTotals[c] = periodTotals[c].Add(amount)
			if err := setCell(c+2, row, amount.InexactFloat64()); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
		if err := setCell(len(periods)+2, row, rowTotal.InexactFloat64()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	totalsRow := len(categories) + 2
	if err := setCell(1, totalsRow, totalLabel); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}
	grand := decimal.Zero
	for c, total := range periodTotals {
		grand = grand.Add(total)
		if err := setCell(c+2, totalsRow, total.InexactFloat64()); err != nil {
			return fmt.Errorf("write totals: %w", err)
		}
	}
	if err := setCell(len(periods)+2, totalsRow, grand.InexactFloat64()); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}

	_ = f.SetColWidth(sheet, "A", "A", 24)

	if err := os.MkdirAll(filepath.Dir(xlsxFile), 0o750); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := f.SaveAs(xlsxFile); err != nil {
		return fmt.Errorf("save XLSX: %w", err)
	}

	e.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: xlsxFile},
		logging.Field{Key: logging.FieldCount, Value: len(periods)},
	).Info("Wrote spending matrix")
	return nil
}

// periodsForMode returns the labels of the chosen mode, oldest first.
func (e *Exporter) periodsForMode(reports []models.Report, mode period.Mode) []string {
	var labels []string
	for _, label := range e.engine.Periods(reports) {
		suffixed := strings.HasSuffix(label, period.MidMonthSuffix)
		if (mode == period.MidMonth) == suffixed {
			labels = append(labels, label)
		}
	}
	sort.Slice(labels, func(i, j int) bool {
		return period.SortKey(labels[i]) < period.SortKey(labels[j])
	})
	return labels
}

// buildMatrix sums absolute outflows per category and period. Categories are
// returned sorted, so the sheet layout is deterministic.
func (e *Exporter) buildMatrix(reports []models.Report, periods []string, mode period.Mode) (map[string]map[string]decimal.Decimal, []string) {
	matrix := map[string]map[string]decimal.Decimal{}

	for _, label := range periods {
		for _, tx := range e.engine.Transactions(reports, label, mode) {
			if !tx.IsOutflow() {
				continue
			}
			category := tx.CategoryOrDefault()
			if matrix[category] == nil {
				matrix[category] = map[string]decimal.Decimal{}
			}
			matrix[category][label] = matrix[category][label].Add(tx.Amount.Abs())
		}
	}

	categories := make([]string, 0, len(matrix))
	for category := range matrix {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return matrix, categories
}

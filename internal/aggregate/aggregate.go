// Package aggregate groups transactions from saved reports into accounting
// periods. It never deduplicates: a transaction appearing in two reports is
// counted twice, which is what the user sees when both reports are open.
package aggregate

import (
	"sort"
	"strings"

	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/period"
)

// Engine answers period queries over a set of reports. Date parsing follows
// the configured locale; rows whose date cannot be parsed are skipped rather
// than failing the whole query.
type Engine struct {
	dayFirst bool
	logger   logging.Logger
}

// NewEngine creates an aggregation engine. dayFirst controls how ambiguous
// slash dates are read.
func NewEngine(dayFirst bool, logger logging.Logger) *Engine {
	return &Engine{dayFirst: dayFirst, logger: logger}
}

// Transactions returns the union of all transactions across reports that fall
// inside the labeled period, boundaries inclusive. The label may carry the
// mid-month suffix, in which case it overrides the mode argument.
func (e *Engine) Transactions(reports []models.Report, label string, mode period.Mode) []models.Transaction {
	if strings.HasSuffix(label, period.MidMonthSuffix) {
		label = strings.TrimSuffix(label, period.MidMonthSuffix)
		mode = period.MidMonth
	}

	var matched []models.Transaction
	for _, report := range reports {
		for _, tx := range report.Transactions {
			date, ok := period.ParseDate(tx.Date, e.dayFirst)
			if !ok {
				e.logger.WithFields(
					logging.Field{Key: logging.FieldReportID, Value: report.ID},
					logging.Field{Key: "date", Value: tx.Date},
				).Debug("Skipping transaction with unparseable date")
				continue
			}
			if period.Contains(date, label, mode) {
				matched = append(matched, tx)
			}
		}
	}
	return matched
}

// Periods enumerates every period label touched by any transaction, under
// both framings: each date contributes its calendar label and its mid-month
// label (suffixed). Labels are deduplicated and returned newest first.
func (e *Engine) Periods(reports []models.Report) []string {
	seen := map[string]bool{}
	var labels []string

	add := func(label string) {
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}

	for _, report := range reports {
		for _, tx := range report.Transactions {
			date, ok := period.ParseDate(tx.Date, e.dayFirst)
			if !ok {
				continue
			}
			add(period.Label(date, period.Calendar))
			add(period.Label(date, period.MidMonth) + period.MidMonthSuffix)
		}
	}

	sort.Slice(labels, func(i, j int) bool {
		return period.SortKey(labels[i]) > period.SortKey(labels[j])
	})
	return labels
}

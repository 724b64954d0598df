package aggregate

import (
	"sort"

	"spendwise/internal/models"

	"github.com/shopspring/decimal"
)

// ComparisonRow is one category's totals across two reports. Totals keep the
// statement sign convention, so spending compares as negative numbers. Diff
// is TotalB minus TotalA; PercentDiff is the change relative to TotalA, with
// 100 standing in for a category absent from the first report.
type ComparisonRow struct {
	Category    string          `json:"category"`
	TotalA      decimal.Decimal `json:"totalA"`
	TotalB      decimal.Decimal `json:"totalB"`
	Diff        decimal.Decimal `json:"diff"`
	PercentDiff decimal.Decimal `json:"percentDiff"`
}

// CompareReports computes per-category totals for two reports and the change
// between them, largest absolute change first. Every category seen in either
// report gets a row; missing totals are zero.
func (e *Engine) CompareReports(a, b *models.Report) []ComparisonRow {
	totalsA := categoryTotals(a)
	totalsB := categoryTotals(b)

	seen := make(map[string]bool)
	for cat := range totalsA {
		seen[cat] = true
	}
	for cat := range totalsB {
		seen[cat] = true
	}

	hundred := decimal.NewFromInt(100)
	rows := make([]ComparisonRow, 0, len(seen))
	for cat := range seen {
		valA := totalsA[cat]
		valB := totalsB[cat]
		diff := valB.Sub(valA)

		percent := hundred
		if !valA.IsZero() {
			percent = diff.Div(valA).Mul(hundred).Round(2)
		}

		rows = append(rows, ComparisonRow{
			Category:    cat,
			TotalA:      valA,
			TotalB:      valB,
			Diff:        diff,
			PercentDiff: percent,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Diff.Abs().GreaterThan(rows[j].Diff.Abs())
	})
	return rows
}

func categoryTotals(report *models.Report) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range report.Transactions {
		cat := tx.CategoryOrDefault()
		totals[cat] = totals[cat].Add(tx.Amount)
	}
	return totals
}

package aggregate

import (
	"sort"

	"spendwise/internal/models"
	"spendwise/internal/period"

	"github.com/shopspring/decimal"
)

// TrendPoint summarizes the outflows of one calendar month. Amounts are
// absolute values; inflows are excluded entirely.
type TrendPoint struct {
	Period           string                     `json:"period"`
	Total            decimal.Decimal            `json:"total"`
	CategoryTotals   map[string]decimal.Decimal `json:"categoryTotals"`
	Discretionary    decimal.Decimal            `json:"discretionary"`
	NonDiscretionary decimal.Decimal            `json:"nonDiscretionary"`
}

// Trend computes per-month spending totals across all reports, oldest first.
// Only calendar framing is used here; the month-over-month comparison the
// trend view feeds would double-count if both framings contributed.
func (e *Engine) Trend(reports []models.Report) []TrendPoint {
	points := map[string]*TrendPoint{}

	for _, report := range reports {
		for _, tx := range report.Transactions {
			if !tx.IsOutflow() {
				continue
			}
			date, ok := period.ParseDate(tx.Date, e.dayFirst)
			if !ok {
				continue
			}

			label := period.Label(date, period.Calendar)
			point, exists := points[label]
			if !exists {
				point = &TrendPoint{
					Period:         label,
					CategoryTotals: map[string]decimal.Decimal{},
				}
				points[label] = point
			}

			amount := tx.Amount.Abs()
			point.Total = point.Total.Add(amount)
			category := tx.CategoryOrDefault()
			point.CategoryTotals[category] = point.CategoryTotals[category].Add(amount)
			if tx.IsDiscretionary() {
				point.Discretionary = point.Discretionary.Add(amount)
			} else {
				point.NonDiscretionary = point.NonDiscretionary.Add(amount)
			}
		}
	}

	result := make([]TrendPoint, 0, len(points))
	for _, point := range points {
		result = append(result, *point)
	}
	sort.Slice(result, func(i, j int) bool {
		return period.SortKey(result[i].Period) < period.SortKey(result[j].Period)
	})
	return result
}

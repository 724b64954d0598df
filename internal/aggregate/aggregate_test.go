package aggregate

import (
	"testing"

	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/period"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(b bool) *bool { return &b }

func tx(id, date, desc, amount string) models.Transaction {
	return models.Transaction{
		ID:          id,
		Date:        date,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
	}
}

// The canonical three-transaction statement: coffee on Feb 10, rent on
// Feb 20, payroll on Mar 1.
func sampleReport() models.Report {
	coffee := tx("c1", "10/02/2024", "STARBUCKS", "-4.50")
	coffee.Category = models.CategoryFoodDining
	coffee.Discretionary = ptr(true)

	rent := tx("r1", "20/02/2024", "APARTMENT RENT", "-1200.00")
	rent.Category = models.CategoryHousing
	rent.Discretionary = ptr(false)

	payroll := tx("p1", "01/03/2024", "ACME PAYROLL", "3000.00")
	payroll.Category = models.CategoryIncome
	payroll.Discretionary = ptr(false)

	return models.Report{
		ID:           "rep-1",
		Name:         "feb-statement",
		Transactions: []models.Transaction{coffee, rent, payroll},
	}
}

func newTestEngine() *Engine {
	return NewEngine(true, logging.NewMockLogger())
}

func TestTransactionsCalendarPeriod(t *testing.T) {
	e := newTestEngine()
	got := e.Transactions([]models.Report{sampleReport()}, "February 2024", period.Calendar)

	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "r1", got[1].ID)
}

func TestTransactionsMidMonthPeriod(t *testing.T) {
	e := newTestEngine()
	reports := []models.Report{sampleReport()}

	// Jan 15 .. Feb 14: only the coffee.
	got := e.Transactions(reports, "February 2024", period.MidMonth)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)

	// Feb 15 .. Mar 14: rent and payroll.
	got = e.Transactions(reports, "March 2024", period.MidMonth)
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "p1", got[1].ID)
}

func TestTransactionsSuffixedLabelImpliesMidMonth(t *testing.T) {
	e := newTestEngine()
	got := e.Transactions([]models.Report{sampleReport()}, "March 2024"+period.MidMonthSuffix, period.Calendar)

	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "p1", got[1].ID)
}

func TestTransactionsBoundariesInclusive(t *testing.T) {
	e := newTestEngine()
	report := models.Report{Transactions: []models.Transaction{
		tx("first", "01/02/2024", "on the first", "-1.00"),
		tx("last", "29/02/2024", "on the last leap day", "-1.00"),
		tx("before", "31/01/2024", "previous month", "-1.00"),
		tx("after", "01/03/2024", "next month", "-1.00"),
	}}

	got := e.Transactions([]models.Report{report}, "February 2024", period.Calendar)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "last", got[1].ID)
}

func TestTransactionsNoDeduplicationAcrossReports(t *testing.T) {
	e := newTestEngine()
	duplicate := tx("dupe", "10/02/2024", "SAME MERCHANT", "-9.99")
	reports := []models.Report{
		{ID: "a", Transactions: []models.Transaction{duplicate}},
		{ID: "b", Transactions: []models.Transaction{duplicate}},
	}

	got := e.Transactions(reports, "February 2024", period.Calendar)
	assert.Len(t, got, 2, "overlapping reports contribute independently")
}

func TestTransactionsSkipsUnparseableDates(t *testing.T) {
	e := newTestEngine()
	report := models.Report{Transactions: []models.Transaction{
		tx("good", "10/02/2024", "kept", "-1.00"),
		tx("bad", "not a date", "skipped", "-1.00"),
	}}

	got := e.Transactions([]models.Report{report}, "February 2024", period.Calendar)
	require.Len(t, got, 1)
	assert.Equal(t, "good", got[0].ID)
}

func TestPeriodsBothFramingsNewestFirst(t *testing.T) {
	e := newTestEngine()
	got := e.Periods([]models.Report{sampleReport()})

	assert.Equal(t, []string{
		"March 2024" + period.MidMonthSuffix,
		"March 2024",
		"February 2024" + period.MidMonthSuffix,
		"February 2024",
	}, got)
}

func TestPeriodsDeduplicatesAcrossReports(t *testing.T) {
	e := newTestEngine()
	reports := []models.Report{
		{Transactions: []models.Transaction{tx("a", "10/02/2024", "x", "-1.00")}},
		{Transactions: []models.Transaction{tx("b", "12/02/2024", "y", "-1.00")}},
	}

	got := e.Periods(reports)
	assert.Equal(t, []string{
		"February 2024" + period.MidMonthSuffix,
		"February 2024",
	}, got)
}

func TestPeriodsEmptyReports(t *testing.T) {
	e := newTestEngine()
	assert.Empty(t, e.Periods(nil))
	assert.Empty(t, e.Periods([]models.Report{{}}))
}

func TestTrendOutflowsOnly(t *testing.T) {
	e := newTestEngine()
	got := e.Trend([]models.Report{sampleReport()})

	// Payroll is an inflow and contributes nothing, so March has no point.
	require.Len(t, got, 1)
	point := got[0]
	assert.Equal(t, "February 2024", point.Period)
	assert.True(t, point.Total.Equal(decimal.RequireFromString("1204.50")))
	assert.True(t, point.CategoryTotals[models.CategoryFoodDining].Equal(decimal.RequireFromString("4.50")))
	assert.True(t, point.CategoryTotals[models.CategoryHousing].Equal(decimal.RequireFromString("1200.00")))
	assert.True(t, point.Discretionary.Equal(decimal.RequireFromString("4.50")))
	assert.True(t, point.NonDiscretionary.Equal(decimal.RequireFromString("1200.00")))
}

func TestTrendAscendingOrder(t *testing.T) {
	e := newTestEngine()
	report := models.Report{Transactions: []models.Transaction{
		tx("mar", "05/03/2024", "later", "-10.00"),
		tx("jan", "05/01/2024", "earlier", "-20.00"),
		tx("feb", "05/02/2024", "middle", "-30.00"),
	}}

	got := e.Trend([]models.Report{report})
	require.Len(t, got, 3)
	assert.Equal(t, "January 2024", got[0].Period)
	assert.Equal(t, "February 2024", got[1].Period)
	assert.Equal(t, "March 2024", got[2].Period)
}

func TestTrendUnsetFlagsCountAsDiscretionary(t *testing.T) {
	e := newTestEngine()
	unlabeled := tx("u1", "10/02/2024", "MYSTERY SHOP", "-15.00")
	// No category, no discretionary flag.

	got := e.Trend([]models.Report{{Transactions: []models.Transaction{unlabeled}}})
	require.Len(t, got, 1)
	assert.True(t, got[0].CategoryTotals[models.CategoryOther].Equal(decimal.RequireFromString("15.00")))
	assert.True(t, got[0].Discretionary.Equal(decimal.RequireFromString("15.00")))
	assert.True(t, got[0].NonDiscretionary.IsZero())
}

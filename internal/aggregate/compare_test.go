package aggregate

import (
	"testing"

	"spendwise/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compareReportPair() (*models.Report, *models.Report) {
	dinA := tx("a1", "10/02/2024", "STARBUCKS", "-4.50")
	dinA.Category = models.CategoryFoodDining
	rentA := tx("a2", "20/02/2024", "APARTMENT RENT", "-1200.00")
	rentA.Category = models.CategoryHousing

	dinB := tx("b1", "12/03/2024", "BISTRO", "-54.50")
	dinB.Category = models.CategoryFoodDining
	rentB := tx("b2", "20/03/2024", "APARTMENT RENT", "-1200.00")
	rentB.Category = models.CategoryHousing
	gymB := tx("b3", "22/03/2024", "GYM MEMBERSHIP", "-30.00")
	gymB.Category = models.CategoryEntertainment

	a := &models.Report{ID: "rep-a", Name: "february", Transactions: []models.Transaction{dinA, rentA}}
	b := &models.Report{ID: "rep-b", Name: "march", Transactions: []models.Transaction{dinB, rentB, gymB}}
	return a, b
}

func TestCompareReportsCategoryDiff(t *testing.T) {
	e := newTestEngine()
	a, b := compareReportPair()

	rows := e.CompareReports(a, b)
	require.Len(t, rows, 3)

	byCategory := make(map[string]ComparisonRow)
	for _, row := range rows {
		byCategory[row.Category] = row
	}

	dining := byCategory[models.CategoryFoodDining]
	assert.True(t, dining.TotalA.Equal(decimal.RequireFromString("-4.50")))
	assert.True(t, dining.TotalB.Equal(decimal.RequireFromString("-54.50")))
	assert.True(t, dining.Diff.Equal(decimal.RequireFromString("-50")))
	// -50 / -4.50 * 100
	assert.True(t, dining.PercentDiff.Equal(decimal.RequireFromString("1111.11")))

	housing := byCategory[models.CategoryHousing]
	assert.True(t, housing.Diff.IsZero())
	assert.True(t, housing.PercentDiff.IsZero())
}

func TestCompareReportsSortedByAbsoluteChange(t *testing.T) {
	e := newTestEngine()
	a, b := compareReportPair()

	rows := e.CompareReports(a, b)
	require.Len(t, rows, 3)
	assert.Equal(t, models.CategoryFoodDining, rows[0].Category)
	assert.Equal(t, models.CategoryEntertainment, rows[1].Category)
	assert.Equal(t, models.CategoryHousing, rows[2].Category)
}

func TestCompareReportsCategoryMissingFromOneSide(t *testing.T) {
	e := newTestEngine()
	a, b := compareReportPair()

	rows := e.CompareReports(a, b)
	byCategory := make(map[string]ComparisonRow)
	for _, row := range rows {
		byCategory[row.Category] = row
	}

	gym := byCategory[models.CategoryEntertainment]
	assert.True(t, gym.TotalA.IsZero())
	assert.True(t, gym.TotalB.Equal(decimal.RequireFromString("-30.00")))
	assert.True(t, gym.Diff.Equal(decimal.RequireFromString("-30.00")))
	assert.True(t, gym.PercentDiff.Equal(decimal.NewFromInt(100)), "no baseline means a flat 100")
}

func TestCompareReportsUnclassifiedFallsToOther(t *testing.T) {
	e := newTestEngine()
	a := &models.Report{ID: "rep-a", Transactions: []models.Transaction{
		tx("a1", "10/02/2024", "MYSTERY SHOP", "-10.00"),
	}}
	b := &models.Report{ID: "rep-b", Transactions: nil}

	rows := e.CompareReports(a, b)
	require.Len(t, rows, 1)
	assert.Equal(t, models.CategoryOther, rows[0].Category)
	assert.True(t, rows[0].Diff.Equal(decimal.RequireFromString("10.00")))
}

package aggregate_test

import (
	"bytes"
	"context"
	"testing"

	"spendwise/cmd/aggregate"
	"spendwise/cmd/root"
	"spendwise/internal/config"
	"spendwise/internal/container"
	"spendwise/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContainer(t *testing.T) *container.Container {
	t.Helper()

	cfg := &config.Config{User: "default"}
	cfg.Log.Level = "error"
	cfg.Log.Format = "text"
	cfg.AI.Model = "gemini-2.5-flash"
	cfg.AI.ChunkSize = 50
	cfg.AI.TimeoutSeconds = 60
	cfg.Locale.DayFirst = true
	cfg.Data.Directory = t.TempDir()
	cfg.Data.DatabaseFile = "spendwise.db"
	cfg.Data.VocabFile = "categories.yaml"

	c, err := container.NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	root.SetContainer(c)
	t.Cleanup(func() { root.SetContainer(nil) })
	return c
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func seedReport(t *testing.T, c *container.Container) {
	t.Helper()
	report := &models.Report{
		ID:   "rep-1",
		Name: "feb-statement",
		Transactions: []models.Transaction{
			{ID: "c1", Date: "10/02/2024", Description: "STARBUCKS", Amount: decimal.RequireFromString("-4.50")},
			{ID: "r1", Date: "20/02/2024", Description: "APARTMENT RENT", Amount: decimal.RequireFromString("-1200.00")},
			{ID: "p1", Date: "01/03/2024", Description: "ACME PAYROLL", Amount: decimal.RequireFromString("3000.00")},
		},
	}
	report.Recompute()
	require.NoError(t, c.Store().SaveReport(context.Background(), report))
}

func TestAggregateCommand_Metadata(t *testing.T) {
	assert.Equal(t, "aggregate", aggregate.Cmd.Use)
	assert.NotNil(t, aggregate.Cmd.RunE)

	periodFlag := aggregate.Cmd.Flags().Lookup("period")
	require.NotNil(t, periodFlag)
	assert.Equal(t, "p", periodFlag.Shorthand)

	modeFlag := aggregate.Cmd.Flags().Lookup("mode")
	require.NotNil(t, modeFlag)
	assert.Equal(t, "calendar", modeFlag.DefValue)
}

func TestAggregateCalendarPeriod(t *testing.T) {
	c := testContainer(t)
	seedReport(t, c)

	out, err := runCommand(t, aggregate.Cmd, "-p", "February 2024", "-m", "calendar")
	require.NoError(t, err)
	assert.Contains(t, out, "STARBUCKS")
	assert.Contains(t, out, "APARTMENT RENT")
	assert.NotContains(t, out, "ACME PAYROLL")
	assert.Contains(t, out, "2 transactions, total spent 1204.50")
}

func TestAggregateMidMonthPeriod(t *testing.T) {
	c := testContainer(t)
	seedReport(t, c)

	out, err := runCommand(t, aggregate.Cmd, "-p", "March 2024", "-m", "mid-month")
	require.NoError(t, err)
	assert.NotContains(t, out, "STARBUCKS")
	assert.Contains(t, out, "APARTMENT RENT")
	assert.Contains(t, out, "ACME PAYROLL")
	assert.Contains(t, out, "total spent 1200.00")
}

func TestAggregateEmptyPeriod(t *testing.T) {
	c := testContainer(t)
	seedReport(t, c)

	out, err := runCommand(t, aggregate.Cmd, "-p", "June 2024", "-m", "calendar")
	require.NoError(t, err)
	assert.Contains(t, out, "No transactions in June 2024")
}

func TestAggregateInvalidMode(t *testing.T) {
	testContainer(t)

	_, err := runCommand(t, aggregate.Cmd, "-p", "February 2024", "-m", "weekly")
	assert.Error(t, err)
}

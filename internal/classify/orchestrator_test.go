package classify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/vocab"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClassifier scripts per-chunk behavior: chunks whose index appears in
// failOn return an error, others echo a category per id.
type mockClassifier struct {
	calls      int
	failOn     map[int]bool
	category   string
	omitIDs    map[string]bool
	noFlag     bool
	sources    []models.GroundingSource
	seenItems  [][]Item
	seenPctx   []PromptContext
}

func (m *mockClassifier) ClassifyChunk(ctx context.Context, items []Item, pctx PromptContext) (*ChunkResult, error) {
	idx := m.calls
	m.calls++
	m.seenItems = append(m.seenItems, items)
	m.seenPctx = append(m.seenPctx, pctx)

	if m.failOn[idx] {
		return nil, errors.New("simulated classifier outage")
	}

	res := &ChunkResult{Sources: m.sources}
	for _, it := range items {
		if m.omitIDs[it.ID] {
			continue
		}
		c := Classification{ID: it.ID, Category: m.category}
		if !m.noFlag {
			discretionary := false
			c.Discretionary = &discretionary
		}
		res.Classifications = append(res.Classifications, c)
	}
	return res, nil
}

type mockPersonalization struct {
	rules       []models.UserRule
	settings    models.CategorySettings
	rulesErr    error
	settingsErr error
	fetches     int
}

func (m *mockPersonalization) GetUserRules(ctx context.Context, userID string) ([]models.UserRule, error) {
	m.fetches++
	return m.rules, m.rulesErr
}

func (m *mockPersonalization) GetCategorySettings(ctx context.Context, userID string) (models.CategorySettings, error) {
	return m.settings, m.settingsErr
}

func makeTransactions(n int) []models.Transaction {
	txs := make([]models.Transaction, n)
	for i := range txs {
		txs[i] = models.Transaction{
			ID:          fmt.Sprintf("tx-%d", i),
			Date:        "14/03/2024",
			Description: fmt.Sprintf("Merchant %d", i),
			Amount:      decimal.NewFromInt(int64(-(i + 1))),
		}
	}
	return txs
}

func newTestOrchestrator(c Classifier, p PersonalizationSource, opts ...Option) *Orchestrator {
	return NewOrchestrator(c, p, vocab.Defaults(), logging.NewMockLogger(), opts...)
}

func TestClassifyEmptyInputShortCircuits(t *testing.T) {
	mock := &mockClassifier{category: models.CategoryShopping}
	o := newTestOrchestrator(mock, nil)

	result, err := o.Classify(context.Background(), "u1", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Transactions)
	assert.Zero(t, mock.calls, "no external calls for an empty batch")
}

func TestClassifyEveryIDExactlyOnce(t *testing.T) {
	// 120 transactions over chunk size 50 -> chunks of 50/50/20, with the
	// middle chunk failing. Completeness must hold regardless.
	mock := &mockClassifier{category: models.CategoryShopping, failOn: map[int]bool{1: true}}
	o := newTestOrchestrator(mock, nil)

	txs := makeTransactions(120)
	result, err := o.Classify(context.Background(), "u1", txs, nil)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 120)
	assert.Equal(t, 3, result.TotalChunks)
	assert.Equal(t, 1, result.FailedChunks)
	assert.True(t, result.Degraded())

	seen := map[string]int{}
	for _, tx := range result.Transactions {
		seen[tx.ID]++
	}
	for _, tx := range txs {
		assert.Equal(t, 1, seen[tx.ID], "id %s should appear exactly once", tx.ID)
	}
}

func TestClassifyProgressMonotonicEndingAt100(t *testing.T) {
	mock := &mockClassifier{category: models.CategoryShopping, failOn: map[int]bool{0: true}}
	o := newTestOrchestrator(mock, nil, WithChunkSize(7))

	var percents []int
	var chunkSizes []int
	_, err := o.Classify(context.Background(), "u1", makeTransactions(20), func(percent int, chunk []models.Transaction) {
		percents = append(percents, percent)
		chunkSizes = append(chunkSizes, len(chunk))
	})
	require.NoError(t, err)

	require.Len(t, percents, 3, "one progress tick per chunk, fallback included")
	for i := 1; i < len(percents); i++ {
		assert.GreaterOrEqual(t, percents[i], percents[i-1])
	}
	assert.Equal(t, 100, percents[len(percents)-1])
	assert.Equal(t, []int{7, 7, 6}, chunkSizes)
}

func TestClassifyFallbackSafety(t *testing.T) {
	mock := &mockClassifier{
		category: models.CategoryShopping,
		failOn:   map[int]bool{0: true},
		sources:  []models.GroundingSource{{Title: "t", URI: "u"}},
	}
	o := newTestOrchestrator(mock, nil, WithChunkSize(3))

	txs := makeTransactions(6)
	result, err := o.Classify(context.Background(), "u1", txs, nil)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 6)

	// Failed chunk: all Other, no flag, no provenance.
	for _, tx := range result.Transactions[:3] {
		assert.Equal(t, models.CategoryOther, tx.Category)
		assert.Nil(t, tx.Discretionary)
		assert.Nil(t, tx.GroundingSources)
	}
	// Subsequent chunk processed normally.
	for _, tx := range result.Transactions[3:] {
		assert.Equal(t, models.CategoryShopping, tx.Category)
		require.NotNil(t, tx.Discretionary)
		assert.False(t, *tx.Discretionary)
		assert.Len(t, tx.GroundingSources, 1)
	}
}

func TestClassifyAmountNeverMutated(t *testing.T) {
	mock := &mockClassifier{category: models.CategoryShopping}
	o := newTestOrchestrator(mock, nil)

	amount := decimal.RequireFromString("-42.50")
	txs := []models.Transaction{{ID: "a", Description: "Coffee", Amount: amount}}

	result, err := o.Classify(context.Background(), "u1", txs, nil)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.True(t, result.Transactions[0].Amount.Equal(amount))
}

func TestClassifyMissingIDDefaultsToOther(t *testing.T) {
	mock := &mockClassifier{category: models.CategoryShopping, omitIDs: map[string]bool{"tx-1": true}}
	o := newTestOrchestrator(mock, nil)

	result, err := o.Classify(context.Background(), "u1", makeTransactions(3), nil)
	require.NoError(t, err)

	byID := map[string]models.Transaction{}
	for _, tx := range result.Transactions {
		byID[tx.ID] = tx
	}
	assert.Equal(t, models.CategoryOther, byID["tx-1"].Category)
	assert.Equal(t, models.CategoryShopping, byID["tx-0"].Category)
}

func TestClassifyMissingDiscretionaryDefaultsTrue(t *testing.T) {
	mock := &mockClassifier{category: models.CategoryShopping, noFlag: true}
	o := newTestOrchestrator(mock, nil)

	result, err := o.Classify(context.Background(), "u1", makeTransactions(2), nil)
	require.NoError(t, err)
	for _, tx := range result.Transactions {
		require.NotNil(t, tx.Discretionary)
		assert.True(t, *tx.Discretionary)
	}
}

func TestClassifyRequestCarriesOnlyMinimalFields(t *testing.T) {
	mock := &mockClassifier{category: models.CategoryShopping}
	o := newTestOrchestrator(mock, nil)

	txs := makeTransactions(2)
	txs[0].Category = "Preexisting"

	_, err := o.Classify(context.Background(), "u1", txs, nil)
	require.NoError(t, err)

	require.Len(t, mock.seenItems, 1)
	for i, item := range mock.seenItems[0] {
		assert.Equal(t, txs[i].ID, item.ID)
		assert.Equal(t, txs[i].Description, item.Description)
	}
}

func TestClassifyPersonalizationSnapshottedOnce(t *testing.T) {
	personalization := &mockPersonalization{
		rules:    []models.UserRule{{MerchantPattern: "ACME", PreferredCategory: models.CategoryShopping}},
		settings: models.CategorySettings{models.CategoryTravel: false},
	}
	mock := &mockClassifier{category: models.CategoryShopping}
	o := newTestOrchestrator(mock, personalization, WithChunkSize(2))

	_, err := o.Classify(context.Background(), "u1", makeTransactions(6), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, personalization.fetches, "context is read once per Classify call")
	require.Len(t, mock.seenPctx, 3)
	for _, pctx := range mock.seenPctx {
		assert.Equal(t, personalization.rules, pctx.Rules)
		assert.Equal(t, personalization.settings, pctx.Settings)
	}
}

func TestClassifyPersonalizationFailureDegradesToEmptyContext(t *testing.T) {
	personalization := &mockPersonalization{
		rulesErr:    errors.New("store down"),
		settingsErr: errors.New("store down"),
	}
	mock := &mockClassifier{category: models.CategoryShopping}
	o := newTestOrchestrator(mock, personalization)

	result, err := o.Classify(context.Background(), "u1", makeTransactions(1), nil)
	require.NoError(t, err)
	assert.Len(t, result.Transactions, 1)
	assert.Empty(t, mock.seenPctx[0].Rules)
	assert.Empty(t, mock.seenPctx[0].Settings)
}

func TestClassifyCancellationStopsBetweenChunks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	mock := &mockClassifier{category: models.CategoryShopping}
	o := newTestOrchestrator(mock, nil, WithChunkSize(2))

	var ticks int
	result, err := o.Classify(ctx, "u1", makeTransactions(10), func(percent int, chunk []models.Transaction) {
		ticks++
		if ticks == 2 {
			cancel()
		}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, result.Transactions, 4, "partial result up to the cancellation point")
	assert.Equal(t, 2, mock.calls, "no further chunks after cancellation")
}

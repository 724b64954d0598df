package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Report statuses
const (
	ReportStatusProcessing = "processing"
	ReportStatusCompleted  = "completed"
)

// Report is a named, timestamped collection of transactions produced from one
// statement upload. It is created the instant the CSV is parsed and mutated in
// place as classification chunks complete; TotalSpent and Progress are
// recomputed on every mutation.
type Report struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Timestamp    time.Time       `json:"timestamp"`
	Transactions []Transaction   `json:"transactions"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
	Status       string          `json:"status"`
	Progress     int             `json:"progress"`
}

// NewReport creates a report in the processing state from freshly parsed,
// not-yet-classified transactions.
func NewReport(name string, transactions []Transaction) *Report {
	r := &Report{
		ID:           uuid.NewString(),
		Name:         name,
		Timestamp:    time.Now().UTC(),
		Transactions: transactions,
		Status:       ReportStatusProcessing,
		Progress:     0,
	}
	r.Recompute()
	return r
}

// Recompute refreshes TotalSpent as the sum of absolute values of all
// outflows. Inflows do not count toward spend.
func (r *Report) Recompute() {
	total := decimal.Zero
	for _, t := range r.Transactions {
		if t.IsOutflow() {
			total = total.Add(t.Amount.Abs())
		}
	}
	r.TotalSpent = total
}

// ApplyClassified merges a classified chunk back into the report by
// transaction id and records the new progress percentage. Progress 100 marks
// the report completed.
func (r *Report) ApplyClassified(chunk []Transaction, progress int) {
	byID := make(map[string]Transaction, len(chunk))
	for _, t := range chunk {
		byID[t.ID] = t
	}
	for i, t := range r.Transactions {
		if updated, ok := byID[t.ID]; ok {
			r.Transactions[i] = updated
		}
	}
	r.SetProgress(progress)
	r.Recompute()
}

// SetProgress clamps and records the progress percentage.
func (r *Report) SetProgress(progress int) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	r.Progress = progress
	if r.Progress == 100 {
		r.Status = ReportStatusCompleted
	}
}

// SetTransactionCategory edits a single transaction's category after the
// report has completed. Editing never reverts the report status. Returns
// false if the id is not present.
func (r *Report) SetTransactionCategory(transactionID, category string) bool {
	for i, t := range r.Transactions {
		if t.ID == transactionID {
			r.Transactions[i].Category = category
			return true
		}
	}
	return false
}

// SetTransactionDiscretionary edits a single transaction's discretionary flag.
func (r *Report) SetTransactionDiscretionary(transactionID string, discretionary bool) bool {
	for i, t := range r.Transactions {
		if t.ID == transactionID {
			r.Transactions[i].Discretionary = &discretionary
			return true
		}
	}
	return false
}

// Package models provides the data structures used throughout the application.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// GroundingSource records the provenance of an external lookup the classifier
// performed to resolve an ambiguous merchant.
type GroundingSource struct {
	Title string `json:"title" yaml:"title"`
	URI   string `json:"uri" yaml:"uri"`
}

// Transaction represents one ledger line from a bank or credit card statement.
// The sign convention is load-bearing: negative = outflow (expense),
// positive = inflow (income/refund).
type Transaction struct {
	ID               string            `json:"id" csv:"ID"`
	Date             string            `json:"date" csv:"Date"` // raw string as read from the statement
	Description      string            `json:"description" csv:"Description"`
	Amount           decimal.Decimal   `json:"amount" csv:"Amount"`
	Category         string            `json:"category,omitempty" csv:"Category"`
	Discretionary    *bool             `json:"discretionary,omitempty" csv:"-"`
	GroundingSources []GroundingSource `json:"groundingSources,omitempty" csv:"-"`
}

// IsOutflow returns true if the transaction is spending (negative amount).
func (t Transaction) IsOutflow() bool {
	return t.Amount.IsNegative()
}

// CategoryOrDefault returns the assigned category, defaulting to Other when
// the transaction has not been classified yet.
func (t Transaction) CategoryOrDefault() string {
	if t.Category == "" {
		return CategoryOther
	}
	return t.Category
}

// IsDiscretionary reports whether the spend is lifestyle/optional. An unset
// flag counts as discretionary.
func (t Transaction) IsDiscretionary() bool {
	return t.Discretionary == nil || *t.Discretionary
}

// ParseAmount converts a statement amount string to a decimal value.
// Currency symbols, thousand separators and surrounding whitespace are
// stripped. Returns ok=false when no numeric value remains.
func ParseAmount(amountStr string) (decimal.Decimal, bool) {
	amount := strings.TrimSpace(amountStr)
	amount = strings.Trim(amount, `"`)
	for _, junk := range []string{"$", "€", "£", "CHF", ",", "'", " "} {
		amount = strings.ReplaceAll(amount, junk, "")
	}
	if amount == "" {
		return decimal.Zero, false
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, false
	}
	return dec, true
}

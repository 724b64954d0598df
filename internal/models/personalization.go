package models

import "github.com/shopspring/decimal"

// UserRule maps a merchant description pattern to the category the user
// prefers for it. Rules are passed to the classifier as hints; the classifier
// is asked to honor them but they are not enforced as hard constraints.
type UserRule struct {
	MerchantPattern   string `json:"merchantPattern" yaml:"merchant_pattern"`
	PreferredCategory string `json:"preferredCategory" yaml:"preferred_category"`
}

// CategorySettings maps a category name to the user's "is discretionary"
// preference for it, used as classification context.
type CategorySettings map[string]bool

// Budget is a per-period spending target. Category "Total" is the
// whole-period default; any other value scopes the target to that category.
// Budgets are independent of transactions.
type Budget struct {
	Period   string          `json:"period"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

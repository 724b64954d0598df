package models

// Category vocabulary used by the classifier. The set is closed: the
// classifier is instructed to pick one of these, and anything it invents is
// kept as free text rather than silently merged into a known label.
const (
	CategoryFoodSupermarkets = "Food - Supermarkets"
	CategoryFoodDining       = "Food - Dining"
	CategoryShopping         = "Shopping"
	CategoryHousing          = "Housing"
	CategoryTransportation   = "Transportation"
	CategoryUtilities        = "Utilities"
	CategoryEntertainment    = "Entertainment"
	CategoryHealthcare       = "Healthcare"
	CategoryIncome           = "Income"
	CategoryTravel           = "Travel"
	CategoryInsurance        = "Insurance"
	CategorySubscriptions    = "Subscriptions"
	CategoryOther            = "Other"
)

// CategoryTotal is the budget key for a whole-period target, not a
// classification category.
const CategoryTotal = "Total"

var categoryVocabulary = []string{
	CategoryFoodSupermarkets,
	CategoryFoodDining,
	CategoryShopping,
	CategoryHousing,
	CategoryTransportation,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryHealthcare,
	CategoryIncome,
	CategoryTravel,
	CategoryInsurance,
	CategorySubscriptions,
	CategoryOther,
}

// CategoryVocabulary returns the closed set of classifier categories, in
// presentation order.
func CategoryVocabulary() []string {
	out := make([]string, len(categoryVocabulary))
	copy(out, categoryVocabulary)
	return out
}

// IsKnownCategory reports whether name is part of the fixed vocabulary.
// User-coined categories (from manual edits) return false and are kept as-is.
func IsKnownCategory(name string) bool {
	for _, c := range categoryVocabulary {
		if c == name {
			return true
		}
	}
	return false
}

// Package vocab loads category definitions used as classification context:
// a human description per category plus a default discretionary hint. The
// built-in defaults cover the fixed vocabulary; an optional YAML file lets a
// deployment refine descriptions without a rebuild. A missing file is not an
// error.
package vocab

import (
	"fmt"
	"os"

	"spendwise/internal/logging"
	"spendwise/internal/models"

	"gopkg.in/yaml.v3"
)

// Definition describes one category for the classifier prompt.
type Definition struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Discretionary bool   `yaml:"discretionary"`
}

type vocabFile struct {
	Categories []Definition `yaml:"categories"`
}

// Load reads category definitions from path, falling back to the built-in
// defaults when the file does not exist. A file that exists but cannot be
// parsed is an error.
func Load(path string, logger logging.Logger) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.WithField(logging.FieldFile, path).Debug("No vocabulary file, using built-in categories")
			return Defaults(), nil
		}
		return nil, fmt.Errorf("error reading vocabulary file: %w", err)
	}

	var parsed vocabFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("error parsing vocabulary file: %w", err)
	}
	if len(parsed.Categories) == 0 {
		logger.WithField(logging.FieldFile, path).Warn("Vocabulary file has no categories, using built-in defaults")
		return Defaults(), nil
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(parsed.Categories)},
	).Debug("Loaded category vocabulary")
	return parsed.Categories, nil
}

// Save writes definitions to path in the same YAML shape Load reads.
func Save(path string, defs []Definition) error {
	data, err := yaml.Marshal(vocabFile{Categories: defs})
	if err != nil {
		return fmt.Errorf("error marshaling vocabulary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing vocabulary file: %w", err)
	}
	return nil
}

// Defaults returns the built-in definitions for the fixed vocabulary.
func Defaults() []Definition {
	return []Definition{
		{Name: models.CategoryFoodSupermarkets, Description: "Groceries and supermarket purchases", Discretionary: false},
		{Name: models.CategoryFoodDining, Description: "Restaurants, cafes, takeaway and delivery", Discretionary: true},
		{Name: models.CategoryShopping, Description: "Retail purchases, clothing, electronics", Discretionary: true},
		{Name: models.CategoryHousing, Description: "Rent, mortgage payments, home maintenance", Discretionary: false},
		{Name: models.CategoryTransportation, Description: "Public transit, fuel, parking, ride-hailing", Discretionary: false},
		{Name: models.CategoryUtilities, Description: "Electricity, water, gas, internet, phone", Discretionary: false},
		{Name: models.CategoryEntertainment, Description: "Cinema, events, games, hobbies", Discretionary: true},
		{Name: models.CategoryHealthcare, Description: "Medical bills, pharmacy, dental, optical", Discretionary: false},
		{Name: models.CategoryIncome, Description: "Salary, refunds and other money in", Discretionary: false},
		{Name: models.CategoryTravel, Description: "Flights, hotels, holidays", Discretionary: true},
		{Name: models.CategoryInsurance, Description: "Insurance premiums of any kind", Discretionary: false},
		{Name: models.CategorySubscriptions, Description: "Recurring subscriptions and memberships", Discretionary: true},
		{Name: models.CategoryOther, Description: "Anything that fits no other category", Discretionary: true},
	}
}

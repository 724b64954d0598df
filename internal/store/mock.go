package store

import (
	"context"
	"fmt"
	"sort"

	"spendwise/internal/models"
)

// MockStore is an in-memory store for tests. Error fields, when set, are
// returned by the corresponding operation.
type MockStore struct {
	Reports  map[string]*models.Report
	Rules    map[string][]models.UserRule
	Settings map[string]models.CategorySettings
	Budgets  map[string]map[string]models.Budget

	SaveReportError  error
	GetReportError   error
	ListReportsError error
	RulesError       error
	SettingsError    error
	BudgetsError     error
}

// NewMockStore returns an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		Reports:  map[string]*models.Report{},
		Rules:    map[string][]models.UserRule{},
		Settings: map[string]models.CategorySettings{},
		Budgets:  map[string]map[string]models.Budget{},
	}
}

func (m *MockStore) SaveReport(ctx context.Context, report *models.Report) error {
	if m.SaveReportError != nil {
		return m.SaveReportError
	}
	copied := *report
	m.Reports[report.ID] = &copied
	return nil
}

func (m *MockStore) GetReport(ctx context.Context, id string) (*models.Report, error) {
	if m.GetReportError != nil {
		return nil, m.GetReportError
	}
	report, ok := m.Reports[id]
	if !ok {
		return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	copied := *report
	return &copied, nil
}

func (m *MockStore) ListReports(ctx context.Context) ([]models.Report, error) {
	if m.ListReportsError != nil {
		return nil, m.ListReportsError
	}
	var reports []models.Report
	for _, r := range m.Reports {
		reports = append(reports, *r)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Timestamp.After(reports[j].Timestamp)
	})
	return reports, nil
}

func (m *MockStore) RenameReport(ctx context.Context, id, name string) error {
	report, ok := m.Reports[id]
	if !ok {
		return fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	report.Name = name
	return nil
}

func (m *MockStore) DeleteReport(ctx context.Context, id string) error {
	if _, ok := m.Reports[id]; !ok {
		return fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	delete(m.Reports, id)
	return nil
}

func (m *MockStore) UpdateTransactionCategory(ctx context.Context, reportID, transactionID, category string) error {
	report, ok := m.Reports[reportID]
	if !ok {
		return fmt.Errorf("report %s: %w", reportID, ErrNotFound)
	}
	if !report.SetTransactionCategory(transactionID, category) {
		return fmt.Errorf("transaction %s in report %s: %w", transactionID, reportID, ErrNotFound)
	}
	return nil
}

func (m *MockStore) GetUserRules(ctx context.Context, userID string) ([]models.UserRule, error) {
	if m.RulesError != nil {
		return nil, m.RulesError
	}
	return m.Rules[userID], nil
}

func (m *MockStore) SaveUserRule(ctx context.Context, userID string, rule models.UserRule) error {
	if m.RulesError != nil {
		return m.RulesError
	}
	for i, existing := range m.Rules[userID] {
		if existing.MerchantPattern == rule.MerchantPattern {
			m.Rules[userID][i] = rule
			return nil
		}
	}
	m.Rules[userID] = append(m.Rules[userID], rule)
	return nil
}

func (m *MockStore) GetCategorySettings(ctx context.Context, userID string) (models.CategorySettings, error) {
	if m.SettingsError != nil {
		return nil, m.SettingsError
	}
	settings := models.CategorySettings{}
	for k, v := range m.Settings[userID] {
		settings[k] = v
	}
	return settings, nil
}

func (m *MockStore) SaveCategorySetting(ctx context.Context, userID, category string, discretionary bool) error {
	if m.SettingsError != nil {
		return m.SettingsError
	}
	if m.Settings[userID] == nil {
		m.Settings[userID] = models.CategorySettings{}
	}
	m.Settings[userID][category] = discretionary
	return nil
}

func (m *MockStore) GetBudget(ctx context.Context, userID, periodLabel, category string) (*models.Budget, error) {
	if m.BudgetsError != nil {
		return nil, m.BudgetsError
	}
	budget, ok := m.Budgets[userID][periodLabel+"/"+category]
	if !ok {
		return nil, fmt.Errorf("budget %s/%s: %w", periodLabel, category, ErrNotFound)
	}
	return &budget, nil
}

func (m *MockStore) SaveBudget(ctx context.Context, userID string, budget models.Budget) error {
	if m.BudgetsError != nil {
		return m.BudgetsError
	}
	if m.Budgets[userID] == nil {
		m.Budgets[userID] = map[string]models.Budget{}
	}
	m.Budgets[userID][budget.Period+"/"+budget.Category] = budget
	return nil
}

func (m *MockStore) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	if m.BudgetsError != nil {
		return nil, m.BudgetsError
	}
	var budgets []models.Budget
	for _, b := range m.Budgets[userID] {
		budgets = append(budgets, b)
	}
	sort.Slice(budgets, func(i, j int) bool {
		if budgets[i].Period != budgets[j].Period {
			return budgets[i].Period < budgets[j].Period
		}
		return budgets[i].Category < budgets[j].Category
	})
	return budgets, nil
}

// Package store persists reports, personalization rules and budgets in a
// local SQLite database. Report transactions are stored as a JSON column:
// they are always read and written as a unit, so relational decomposition
// would buy nothing but join overhead.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"spendwise/internal/logging"
	"spendwise/internal/models"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// SQLiteStore is the single persistence backend. It is safe for concurrent
// use; database/sql pools connections underneath.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger
}

// NewSQLiteStore opens (creating if necessary) the database at dbPath and
// migrates the schema.
func NewSQLiteStore(dbPath string, logger logging.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.WithField(logging.FieldFile, dbPath).Debug("Opened SQLite store")
	return &SQLiteStore{db: db, logger: logger}, nil
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveReport inserts or replaces a report. The ingest flow calls this after
// every classified chunk, so an interrupted run leaves the last saved
// snapshot rather than nothing.
func (s *SQLiteStore) SaveReport(ctx context.Context, report *models.Report) error {
	payload, err := json.Marshal(report.Transactions)
	if err != nil {
		return fmt.Errorf("marshal report transactions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (id, name, timestamp, status, progress, total_spent, transactions)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			progress = excluded.progress,
			total_spent = excluded.total_spent,
			transactions = excluded.transactions`,
		report.ID,
		report.Name,
		report.Timestamp.UTC().Format(time.RFC3339Nano),
		report.Status,
		report.Progress,
		report.TotalSpent.String(),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("save report %s: %w", report.ID, err)
	}
	return nil
}

// GetReport loads one report by id.
func (s *SQLiteStore) GetReport(ctx context.Context, id string) (*models.Report, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, timestamp, status, progress, total_spent, transactions
		FROM reports WHERE id = ?`, id)

	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}
	return report, nil
}

// ListReports returns all reports, newest first.
func (s *SQLiteStore) ListReports(ctx context.Context) ([]models.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, timestamp, status, progress, total_spent, transactions
		FROM reports ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var reports []models.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("list reports: %w", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// RenameReport changes a report's display name.
func (s *SQLiteStore) RenameReport(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE reports SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("rename report %s: %w", id, err)
	}
	return requireAffected(res, id)
}

// DeleteReport removes a report permanently.
func (s *SQLiteStore) DeleteReport(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete report %s: %w", id, err)
	}
	return requireAffected(res, id)
}

// UpdateTransactionCategory edits one transaction's category inside a stored
// report. Used for post-classification corrections; the report status is
// untouched.
func (s *SQLiteStore) UpdateTransactionCategory(ctx context.Context, reportID, transactionID, category string) error {
	report, err := s.GetReport(ctx, reportID)
	if err != nil {
		return err
	}
	if !report.SetTransactionCategory(transactionID, category) {
		return fmt.Errorf("transaction %s in report %s: %w", transactionID, reportID, ErrNotFound)
	}
	report.Recompute()
	return s.SaveReport(ctx, report)
}

// GetUserRules returns the user's saved merchant rules. No rows is an empty
// result, not an error.
func (s *SQLiteStore) GetUserRules(ctx context.Context, userID string) ([]models.UserRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT merchant_pattern, preferred_category
		FROM user_rules WHERE user_id = ? ORDER BY merchant_pattern`, userID)
	if err != nil {
		return nil, fmt.Errorf("get user rules: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var rules []models.UserRule
	for rows.Next() {
		var rule models.UserRule
		if err := rows.Scan(&rule.MerchantPattern, &rule.PreferredCategory); err != nil {
			return nil, fmt.Errorf("get user rules: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get user rules: %w", err)
	}
	return rules, nil
}

// SaveUserRule inserts or updates a merchant rule.
func (s *SQLiteStore) SaveUserRule(ctx context.Context, userID string, rule models.UserRule) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_rules (user_id, merchant_pattern, preferred_category)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, merchant_pattern) DO UPDATE SET
			preferred_category = excluded.preferred_category`,
		userID, rule.MerchantPattern, rule.PreferredCategory)
	if err != nil {
		return fmt.Errorf("save user rule: %w", err)
	}
	return nil
}

// GetCategorySettings returns the user's per-category discretionary
// overrides.
func (s *SQLiteStore) GetCategorySettings(ctx context.Context, userID string) (models.CategorySettings, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, discretionary FROM category_settings WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("get category settings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	settings := models.CategorySettings{}
	for rows.Next() {
		var category string
		var discretionary bool
		if err := rows.Scan(&category, &discretionary); err != nil {
			return nil, fmt.Errorf("get category settings: %w", err)
		}
		settings[category] = discretionary
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get category settings: %w", err)
	}
	return settings, nil
}

// SaveCategorySetting records whether the user considers a category
// discretionary.
func (s *SQLiteStore) SaveCategorySetting(ctx context.Context, userID, category string, discretionary bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO category_settings (user_id, category, discretionary)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, category) DO UPDATE SET
			discretionary = excluded.discretionary`,
		userID, category, discretionary)
	if err != nil {
		return fmt.Errorf("save category setting: %w", err)
	}
	return nil
}

// GetBudget returns the budget for one period and category, or ErrNotFound.
func (s *SQLiteStore) GetBudget(ctx context.Context, userID, periodLabel, category string) (*models.Budget, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT period, category, amount FROM budgets
		WHERE user_id = ? AND period = ? AND category = ?`,
		userID, periodLabel, category)

	budget, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("budget %s/%s: %w", periodLabel, category, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return budget, nil
}

// SaveBudget inserts or updates a budget target.
func (s *SQLiteStore) SaveBudget(ctx context.Context, userID string, budget models.Budget) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, period, category, amount)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, period, category) DO UPDATE SET
			amount = excluded.amount`,
		userID, budget.Period, budget.Category, budget.Amount.String())
	if err != nil {
		return fmt.Errorf("save budget: %w", err)
	}
	return nil
}

// ListBudgets returns all budgets for a user.
func (s *SQLiteStore) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT period, category, amount FROM budgets
		WHERE user_id = ? ORDER BY period, category`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var budgets []models.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("list budgets: %w", err)
		}
		budgets = append(budgets, *budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row scanner) (*models.Report, error) {
	var report models.Report
	var timestamp, totalSpent, transactions string

	if err := row.Scan(&report.ID, &report.Name, &timestamp, &report.Status,
		&report.Progress, &totalSpent, &transactions); err != nil {
		return nil, err
	}

	ts, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return nil, fmt.Errorf("parse report timestamp: %w", err)
	}
	report.Timestamp = ts

	report.TotalSpent, err = decimal.NewFromString(totalSpent)
	if err != nil {
		return nil, fmt.Errorf("parse report total: %w", err)
	}

	if err := json.Unmarshal([]byte(transactions), &report.Transactions); err != nil {
		return nil, fmt.Errorf("unmarshal report transactions: %w", err)
	}
	return &report, nil
}

func scanBudget(row scanner) (*models.Budget, error) {
	var budget models.Budget
	var amount string

	if err := row.Scan(&budget.Period, &budget.Category, &amount); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse budget amount: %w", err)
	}
	budget.Amount = parsed
	return &budget, nil
}

func requireAffected(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	return nil
}

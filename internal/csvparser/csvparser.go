// Package csvparser reads bank statement CSV exports with unknown column
// layouts. Banks disagree on header names and column order, so the parser
// sniffs the header row for date, description and amount columns instead of
// binding to a fixed schema.
package csvparser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/parsererror"

	"github.com/google/uuid"
)

const parserName = "statement-csv"

// Column keyword sets, matched case-insensitively against header cells.
// First match wins, in header order.
var (
	dateKeywords        = []string{"date", "posted", "completed"}
	descriptionKeywords = []string{"description", "desc", "narrative", "details", "memo", "payee", "merchant"}
	amountKeywords      = []string{"amount", "debit", "value"}
)

// Parser converts statement CSV content into transactions. Each parsed row
// gets a fresh uuid; dates stay raw strings so the original statement text
// survives round-trips through storage.
type Parser struct {
	logger logging.Logger
}

// NewParser creates a statement CSV parser.
func NewParser(logger logging.Logger) *Parser {
	return &Parser{logger: logger}
}

// ParseFile reads and parses a statement file from disk.
func (p *Parser) ParseFile(path string) ([]models.Transaction, error) {
	p.logger.WithField(logging.FieldFile, path).Info("Parsing statement CSV file")

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open statement file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	transactions, err := p.Parse(f, path)
	if err != nil {
		return nil, err
	}

	p.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
	).Info("Successfully parsed statement CSV file")
	return transactions, nil
}

// Parse reads statement CSV content. name identifies the source in errors
// and logs. Rows with an unparseable amount or missing cells are skipped; if
// nothing survives, the whole input is rejected.
func (p *Parser) Parse(r io.Reader, name string) ([]models.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read statement CSV: %w", err)
	}

	headerIdx, cols := sniffHeader(records)
	if headerIdx < 0 {
		return nil, &parsererror.InvalidFormatError{
			FilePath: name,
			Reason:   "no header row with date, description and amount columns",
		}
	}

	var transactions []models.Transaction
	for i, record := range records[headerIdx+1:] {
		tx, ok := p.parseRow(record, cols, headerIdx+1+i)
		if !ok {
			continue
		}
		transactions = append(transactions, tx)
	}

	if len(transactions) == 0 {
		return nil, &parsererror.InvalidFormatError{
			FilePath: name,
			Reason:   "no parsable transaction rows",
		}
	}
	return transactions, nil
}

// sniffHeader scans the leading rows for one that names all three required
// columns. Returns the header row index and the column positions, or -1.
func sniffHeader(records [][]string) (int, columns) {
	limit := len(records)
	if limit > 10 {
		limit = 10
	}

	for i := 0; i < limit; i++ {
		cols, ok := matchHeader(records[i])
		if ok {
			return i, cols
		}
	}
	return -1, columns{}
}

type columns struct {
	date        int
	description int
	amount      int
}

func matchHeader(record []string) (columns, bool) {
	cols := columns{date: -1, description: -1, amount: -1}
	for i, cell := range record {
		name := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case cols.date < 0 && matchesAny(name, dateKeywords):
			cols.date = i
		case cols.description < 0 && matchesAny(name, descriptionKeywords):
			cols.description = i
		case cols.amount < 0 && matchesAny(name, amountKeywords):
			cols.amount = i
		}
	}
	return cols, cols.date >= 0 && cols.description >= 0 && cols.amount >= 0
}

func matchesAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

func (p *Parser) parseRow(record []string, cols columns, line int) (models.Transaction, bool) {
	maxIdx := cols.date
	if cols.description > maxIdx {
		maxIdx = cols.description
	}
	if cols.amount > maxIdx {
		maxIdx = cols.amount
	}
	if len(record) <= maxIdx {
		p.logger.WithField("line", line).Debug("Skipping short row")
		return models.Transaction{}, false
	}

	date := strings.TrimSpace(record[cols.date])
	description := strings.TrimSpace(record[cols.description])
	rawAmount := record[cols.amount]

	if date == "" && description == "" && strings.TrimSpace(rawAmount) == "" {
		return models.Transaction{}, false
	}

	amount, ok := models.ParseAmount(rawAmount)
	if !ok {
		err := &parsererror.ParseError{
			Parser: parserName,
			Field:  "amount",
			Value:  rawAmount,
			Err:    fmt.Errorf("not a number"),
		}
		p.logger.WithError(err).WithField("line", line).Warn("Skipping row with invalid amount")
		return models.Transaction{}, false
	}

	return models.Transaction{
		ID:          uuid.NewString(),
		Date:        date,
		Description: description,
		Amount:      amount,
	}, true
}

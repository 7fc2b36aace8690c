// Package bankcsv parses exported bank statement CSV files into bank
// records ready for import.
//
// Expected columns: id, date (2006-01-02), description, amount,
// balance, counterparty. A signed amount carries the direction: a
// negative value becomes a debit with the magnitude stored positive.
package bankcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/craftbooks/settlement-backend/internal/domain/model"
)

const dateLayout = "2006-01-02"

// Reader parses bank statement files for one account.
type Reader struct {
	bankAccountID string
}

// NewReader creates a reader tagging every record with the account id.
func NewReader(bankAccountID string) *Reader {
	return &Reader{bankAccountID: bankAccountID}
}

// ReadFile opens and parses one statement file.
func (r *Reader) ReadFile(path string) ([]model.BankRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bank statement file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	records, err := r.Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Read parses statement rows from an open stream. The first row is a
// header and is skipped.
func (r *Reader) Read(src io.Reader) ([]model.BankRecord, error) {
	reader := csv.NewReader(src)
	// Balance and counterparty columns are optional
	reader.FieldsPerRecord = -1
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records []model.BankRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading row: %w", err)
		}
		line++

		if len(row) < 4 {
			return nil, fmt.Errorf("line %d: expected at least 4 columns, got %d", line, len(row))
		}

		date, err := time.Parse(dateLayout, row[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: could not parse date %q: %w", line, row[1], err)
		}

		amount, err := decimal.NewFromString(row[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: could not parse amount %q: %w", line, row[3], err)
		}

		record := model.BankRecord{
			ID:              row[0],
			TransactionDate: date,
			Description:     row[2],
			BankAccountID:   r.bankAccountID,
		}

		// Signed amount carries direction; stored magnitude is positive
		if amount.IsNegative() {
			record.TransactionType = model.TransactionDebit
			record.Amount = amount.Neg()
		} else {
			record.TransactionType = model.TransactionCredit
			record.Amount = amount
		}

		if len(row) > 4 && row[4] != "" {
			balance, err := decimal.NewFromString(row[4])
			if err != nil {
				return nil, fmt.Errorf("line %d: could not parse balance %q: %w", line, row[4], err)
			}
			record.Balance = balance
		}
		if len(row) > 5 {
			record.Counterparty = row[5]
		}

		records = append(records, record)
	}
	return records, nil
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is an internal ledger entry. Income entries are
// customer payments, expense entries are supplier payments; both can be
// allocated across obligations and both participate in bank
// reconciliation as the internal pool.
type TransactionRecord struct {
	ID             string          `json:"id"`
	Date           time.Time       `json:"date"`
	Type           EntryType       `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	CounterpartyID string          `json:"counterparty_id"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category,omitempty"`
	Status         EntryStatus     `json:"status"`
	BankAccountID  string          `json:"bank_account_id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

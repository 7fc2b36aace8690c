package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is one of the business's money accounts. Balance is a
// cache: it is always re-derivable as the sum of credits minus the sum
// of debits over all bank records tagged with the account id.
type BankAccount struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	AccountNumber string          `json:"account_number"`
	AccountType   AccountType     `json:"account_type"`
	HasInvoice    bool            `json:"has_invoice"`
	Balance       decimal.Decimal `json:"balance"`
	Description   string          `json:"description,omitempty"`
}

// BankRecord is one externally reported bank movement. Amount is a
// positive magnitude; direction comes from TransactionType. The
// bank-reported running balance is informational only.
type BankRecord struct {
	ID              string          `json:"id"`
	TransactionDate time.Time       `json:"transaction_date"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Balance         decimal.Decimal `json:"balance"`
	TransactionType TransactionType `json:"transaction_type"`
	Counterparty    string          `json:"counterparty,omitempty"`
	BankAccountID   string          `json:"bank_account_id"`
}

// SignedAmount returns the amount with credits positive and debits
// negative.
func (r *BankRecord) SignedAmount() decimal.Decimal {
	if r.TransactionType == TransactionDebit {
		return r.Amount.Neg()
	}
	return r.Amount
}

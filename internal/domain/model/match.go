package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MatchCardinality classifies a reconciliation match by the shape of
// its two id lists.
type MatchCardinality string

const (
	OneToOne   MatchCardinality = "one_to_one"
	OneToMany  MatchCardinality = "one_to_many"
	ManyToOne  MatchCardinality = "many_to_one"
	ManyToMany MatchCardinality = "many_to_many"
)

// ReconciliationMatch pairs one or more bank records with one or more
// internal ledger entries. Matches are created once and never edited.
type ReconciliationMatch struct {
	ID               string          `json:"id"`
	MatchDate        time.Time       `json:"match_date"`
	BankRecordIDs    []string        `json:"bank_record_ids"`
	OrderIDs         []string        `json:"order_ids"`
	TotalBankAmount  decimal.Decimal `json:"total_bank_amount"`
	TotalOrderAmount decimal.Decimal `json:"total_order_amount"`
	Difference       decimal.Decimal `json:"difference"`
	MatchType        string          `json:"match_type"`
	Notes            string          `json:"notes,omitempty"`
	CreatedBy        string          `json:"created_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Cardinality classifies the match by the sizes of its id lists.
func (m *ReconciliationMatch) Cardinality() MatchCardinality {
	switch {
	case len(m.BankRecordIDs) <= 1 && len(m.OrderIDs) <= 1:
		return OneToOne
	case len(m.BankRecordIDs) <= 1:
		return OneToMany
	case len(m.OrderIDs) <= 1:
		return ManyToOne
	}
	return ManyToMany
}

// Validate checks the match for hard failures and soft findings. An
// empty id list is an error; a difference beyond tolerance is only a
// warning, since legitimate rounding and fee differences exist.
func (m *ReconciliationMatch) Validate(tolerance decimal.Decimal) ([]string, error) {
	if len(m.BankRecordIDs) == 0 {
		return nil, errors.New("match has no bank record ids")
	}
	if len(m.OrderIDs) == 0 {
		return nil, errors.New("match has no internal entry ids")
	}

	var warnings []string
	if m.Difference.Abs().GreaterThan(tolerance) {
		warnings = append(warnings, fmt.Sprintf(
			"amount difference %s exceeds tolerance %s", m.Difference, tolerance))
	}
	return warnings, nil
}

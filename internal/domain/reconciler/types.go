package reconciler

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/craftbooks/settlement-backend/internal/domain/model"
)

// Config holds the matching tolerances.
type Config struct {
	// ToleranceDays is the allowed date slack for exact and fuzzy
	// passes, in calendar days.
	ToleranceDays int

	// ExactAmountTolerance bounds an exact match: |diff| < tolerance.
	ExactAmountTolerance decimal.Decimal

	// FuzzyAmountTolerance is the upper bound for a fuzzy match:
	// exact_tolerance <= |diff| <= fuzzy_tolerance.
	FuzzyAmountTolerance decimal.Decimal

	// CombinationAmountTolerance bounds a combination match sum.
	CombinationAmountTolerance decimal.Decimal

	// CombinationCandidateCap skips combination search for an external
	// entry when its candidate set exceeds this size.
	CombinationCandidateCap int

	// CombinationMaxSubsetSize bounds the subset search; never taken
	// beyond 3.
	CombinationMaxSubsetSize int

	// CombinationWindowExtraDays widens the date window for the
	// combination pass beyond ToleranceDays.
	CombinationWindowExtraDays int
}

// DefaultConfig returns the standard tolerances.
func DefaultConfig() Config {
	return Config{
		ToleranceDays:              2,
		ExactAmountTolerance:       decimal.RequireFromString("0.01"),
		FuzzyAmountTolerance:       decimal.RequireFromString("1.00"),
		CombinationAmountTolerance: decimal.RequireFromString("0.05"),
		CombinationCandidateCap:    50,
		CombinationMaxSubsetSize:   3,
		CombinationWindowExtraDays: 5,
	}
}

// Match types recorded on accepted groups.
const (
	MatchExact = "exact"
	MatchFuzzy = "fuzzy"
)

// CombinationMatchType names a combination match of subset size k.
func CombinationMatchType(k int) string {
	return fmt.Sprintf("combination(%d)", k)
}

// UnmatchedBank is an external entry with no internal counterpart.
type UnmatchedBank struct {
	Record model.BankRecord `json:"record"`
	Reason string           `json:"reason"`
}

// UnmatchedInternal is an internal entry with no bank counterpart.
type UnmatchedInternal struct {
	Entry  model.TransactionRecord `json:"entry"`
	Reason string                  `json:"reason"`
}

// Result is the full outcome of a reconciliation run. Unmatched
// entries are first-class data for a human to act on, never errors.
type Result struct {
	Matches           []model.ReconciliationMatch `json:"matches"`
	UnmatchedBank     []UnmatchedBank             `json:"unmatched_bank"`
	UnmatchedInternal []UnmatchedInternal         `json:"unmatched_internal"`
}

// Unmatched-list reason texts.
const (
	reasonBankOnly     = "no corresponding internal record; possibly unrecorded income/expense"
	reasonInternalOnly = "no corresponding bank movement; possibly duplicate, wrong date, or wrong account"
)

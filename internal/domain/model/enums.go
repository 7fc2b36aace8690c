// Package model defines the settlement domain entities: processing
// orders, outsourced processing jobs, bank accounts and records,
// internal ledger entries (payments), payment allocations, and
// reconciliation matches.
//
// All monetary and quantity fields are shopspring decimals, never
// floats. Business categories are closed enumerations validated at the
// boundary; unknown values are rejected with a ValidationError.
package model

import "fmt"

// OrderStatus is the lifecycle state of a processing order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus validates a raw status string.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderPending, OrderInProgress, OrderCompleted, OrderCancelled:
		return OrderStatus(s), nil
	}
	return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown order status %q", s)}
}

// CanTransitionTo reports whether the status change is legal.
// Orders move pending -> in_progress -> completed; pending and
// in_progress orders may be cancelled. Completed and cancelled are
// terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderPending:
		return next == OrderInProgress || next == OrderCancelled
	case OrderInProgress:
		return next == OrderCompleted || next == OrderCancelled
	}
	return false
}

// PricingUnit is how an order's quantity is priced.
type PricingUnit string

const (
	UnitPiece        PricingUnit = "piece"
	UnitStrip        PricingUnit = "strip"
	UnitItem         PricingUnit = "item"
	UnitGeneric      PricingUnit = "unit"
	UnitLengthMeters PricingUnit = "length_meters"
	UnitWeightMeters PricingUnit = "weight_meters"
	UnitSquareMeters PricingUnit = "square_meters"
)

// ParsePricingUnit validates a raw pricing unit string.
func ParsePricingUnit(s string) (PricingUnit, error) {
	switch PricingUnit(s) {
	case UnitPiece, UnitStrip, UnitItem, UnitGeneric,
		UnitLengthMeters, UnitWeightMeters, UnitSquareMeters:
		return PricingUnit(s), nil
	}
	return "", &ValidationError{Field: "pricing_unit", Message: fmt.Sprintf("unknown pricing unit %q", s)}
}

// ProcessType is the kind of outsourced processing performed by a
// supplier.
type ProcessType string

const (
	ProcessSandblasting  ProcessType = "sandblasting"
	ProcessWireDrawing   ProcessType = "wire_drawing"
	ProcessPolishing     ProcessType = "polishing"
	ProcessElectroplate  ProcessType = "electroplating"
	ProcessHeatTreatment ProcessType = "heat_treatment"
	ProcessLaserCutting  ProcessType = "laser_cutting"
)

// ParseProcessType validates a raw process type string.
func ParseProcessType(s string) (ProcessType, error) {
	switch ProcessType(s) {
	case ProcessSandblasting, ProcessWireDrawing, ProcessPolishing,
		ProcessElectroplate, ProcessHeatTreatment, ProcessLaserCutting:
		return ProcessType(s), nil
	}
	return "", &ValidationError{Field: "process_type", Message: fmt.Sprintf("unknown process type %q", s)}
}

// TransactionType is the direction of a bank-reported movement.
type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// ParseTransactionType validates a raw bank transaction direction.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TransactionCredit, TransactionDebit:
		return TransactionType(s), nil
	}
	return "", &ValidationError{Field: "transaction_type", Message: fmt.Sprintf("unknown transaction type %q", s)}
}

// EntryType is the direction of an internal ledger entry.
type EntryType string

const (
	EntryIncome  EntryType = "income"
	EntryExpense EntryType = "expense"
)

// ParseEntryType validates a raw entry type string.
func ParseEntryType(s string) (EntryType, error) {
	switch EntryType(s) {
	case EntryIncome, EntryExpense:
		return EntryType(s), nil
	}
	return "", &ValidationError{Field: "type", Message: fmt.Sprintf("unknown entry type %q", s)}
}

// MatchesDirection reports whether an internal entry direction agrees
// with a bank transaction direction: income settles credits, expense
// settles debits.
func (t EntryType) MatchesDirection(tt TransactionType) bool {
	return (t == EntryIncome && tt == TransactionCredit) ||
		(t == EntryExpense && tt == TransactionDebit)
}

// EntryStatus is the settlement state of an internal ledger entry.
type EntryStatus string

const (
	EntryPending   EntryStatus = "pending"
	EntryCompleted EntryStatus = "completed"
	EntryFailed    EntryStatus = "failed"
)

// ParseEntryStatus validates a raw entry status string.
func ParseEntryStatus(s string) (EntryStatus, error) {
	switch EntryStatus(s) {
	case EntryPending, EntryCompleted, EntryFailed:
		return EntryStatus(s), nil
	}
	return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown entry status %q", s)}
}

// AccountType distinguishes formal business accounts from cash books.
type AccountType string

const (
	AccountBusiness AccountType = "business"
	AccountCash     AccountType = "cash"
)

// ParseAccountType validates a raw account type string.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountBusiness, AccountCash:
		return AccountType(s), nil
	}
	return "", &ValidationError{Field: "account_type", Message: fmt.Sprintf("unknown account type %q", s)}
}

// UpdateMode selects how an amount update is applied.
type UpdateMode string

const (
	UpdateAdd UpdateMode = "add"
	UpdateSet UpdateMode = "set"
)

// ParseUpdateMode validates a raw update mode string.
func ParseUpdateMode(s string) (UpdateMode, error) {
	switch UpdateMode(s) {
	case UpdateAdd, UpdateSet:
		return UpdateMode(s), nil
	}
	return "", &ValidationError{Field: "mode", Message: fmt.Sprintf("unknown update mode %q", s)}
}

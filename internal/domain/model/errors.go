package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError rejects bad input before any write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError signals an operation against an unknown record id.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// OverAllocationError rejects an allocation batch whose total, combined
// with amounts already allocated from the payment, would exceed the
// payment amount. The operation that raises it has no side effects.
type OverAllocationError struct {
	PaymentID        string
	PaymentAmount    decimal.Decimal
	AlreadyAllocated decimal.Decimal
	Requested        decimal.Decimal
}

func (e *OverAllocationError) Error() string {
	return fmt.Sprintf(
		"payment %s: requested allocation %s plus already allocated %s exceeds payment amount %s",
		e.PaymentID, e.Requested, e.AlreadyAllocated, e.PaymentAmount,
	)
}

// PersistenceError wraps a failed store write. The whole logical
// operation it belonged to must be treated as not applied.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentAllocation records how much of one payment was applied to one
// obligation (an order on the receivable side, an outsourced processing
// job on the payable side). Allocations are append-only: corrections
// are new rows that net against prior ones, never edits.
type PaymentAllocation struct {
	ID              string          `json:"id"`
	PaymentID       string          `json:"payment_id"`
	ObligationID    string          `json:"obligation_id"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	AllocationDate  time.Time       `json:"allocation_date"`
}

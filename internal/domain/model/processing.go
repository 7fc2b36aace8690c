package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OutsourcedProcessing is a job sent to an external supplier for one
// step of an order, the payable side of the ledger. PaidAmount is the
// sum of supplier-payment allocations against the job.
type OutsourcedProcessing struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	SupplierID  string          `json:"supplier_id"`
	ProcessType ProcessType     `json:"process_type"`
	ProcessDate time.Time       `json:"process_date"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// RecomputeTotal re-derives TotalCost from quantity and unit price.
func (p *OutsourcedProcessing) RecomputeTotal() {
	p.TotalCost = p.Quantity.Mul(p.UnitPrice)
}

// UnpaidAmount is the outstanding balance owed to the supplier.
func (p *OutsourcedProcessing) UnpaidAmount() decimal.Decimal {
	return p.TotalCost.Sub(p.PaidAmount)
}

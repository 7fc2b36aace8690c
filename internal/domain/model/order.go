package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProcessingOrder is a customer order for manufacturing work, the
// receivable side of the ledger. TotalAmount is always quantity times
// unit price; ReceivedAmount is the sum of payment allocations against
// the order and is never mutated directly.
type ProcessingOrder struct {
	ID             string          `json:"id"`
	OrderNumber    string          `json:"order_number"`
	CustomerID     string          `json:"customer_id"`
	OrderDate      time.Time       `json:"order_date"`
	ProductName    string          `json:"product_name"`
	PricingUnit    PricingUnit     `json:"pricing_unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Status         OrderStatus     `json:"status"`
	ReceivedAmount decimal.Decimal `json:"received_amount"`
	OutsourcedCost decimal.Decimal `json:"outsourced_cost"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// RecomputeTotal re-derives TotalAmount from quantity and unit price.
// Called after any quantity or price change.
func (o *ProcessingOrder) RecomputeTotal() {
	o.TotalAmount = o.Quantity.Mul(o.UnitPrice)
}

// Balance is the amount still owed by the customer. Negative means the
// order is overpaid, which is legal (advance deposits).
func (o *ProcessingOrder) Balance() decimal.Decimal {
	return o.TotalAmount.Sub(o.ReceivedAmount)
}

// Profit is the order total net of linked outsourced processing costs.
func (o *ProcessingOrder) Profit() decimal.Decimal {
	return o.TotalAmount.Sub(o.OutsourcedCost)
}

// Overpaid reports whether allocations against the order exceed its
// total. Not an error, but flagged for review.
func (o *ProcessingOrder) Overpaid() bool {
	return o.ReceivedAmount.GreaterThan(o.TotalAmount)
}

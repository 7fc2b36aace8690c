package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dates in request bodies are plain calendar values.
const DateLayout = "2006-01-02"

// ParseDate parses an optional request date; empty means unset.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}

// CreateOrderRequest creates a processing order.
type CreateOrderRequest struct {
	OrderNumber string          `json:"order_number" binding:"required"`
	CustomerID  string          `json:"customer_id" binding:"required"`
	OrderDate   string          `json:"order_date" binding:"required"`
	ProductName string          `json:"product_name" binding:"required"`
	PricingUnit string          `json:"pricing_unit" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	Notes       string          `json:"notes"`
}

// UpdateStatusRequest moves an order through its lifecycle.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAmountRequest adjusts a received amount or outsourced cost.
type UpdateAmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Mode   string          `json:"mode" binding:"required"`
}

// CreateProcessingRequest creates an outsourced processing job.
type CreateProcessingRequest struct {
	OrderID     string          `json:"order_id" binding:"required"`
	SupplierID  string          `json:"supplier_id" binding:"required"`
	ProcessType string          `json:"process_type" binding:"required"`
	ProcessDate string          `json:"process_date" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	Notes       string          `json:"notes"`
}

// UpdateProcessingRequest changes a job's quantity, price or notes.
// Nil fields are left unchanged.
type UpdateProcessingRequest struct {
	Quantity  *decimal.Decimal `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Notes     *string          `json:"notes"`
}

// AllocationRequest applies part of a payment to one obligation.
type AllocationRequest struct {
	ObligationID string          `json:"obligation_id" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// RecordPaymentRequest records a payment with optional immediate
// allocations.
type RecordPaymentRequest struct {
	Date           string              `json:"date" binding:"required"`
	Type           string              `json:"type" binding:"required"`
	Amount         decimal.Decimal     `json:"amount" binding:"required"`
	CounterpartyID string              `json:"counterparty_id" binding:"required"`
	Description    string              `json:"description"`
	Category       string              `json:"category"`
	BankAccountID  string              `json:"bank_account_id"`
	Allocations    []AllocationRequest `json:"allocations"`
}

// AllocatePaymentRequest extends an existing payment's allocations.
type AllocatePaymentRequest struct {
	Allocations []AllocationRequest `json:"allocations" binding:"required"`
}

// CreateBankAccountRequest registers a money account.
type CreateBankAccountRequest struct {
	ID            string          `json:"id"`
	Name          string          `json:"name" binding:"required"`
	AccountNumber string          `json:"account_number"`
	AccountType   string          `json:"account_type" binding:"required"`
	HasInvoice    bool            `json:"has_invoice"`
	Balance       decimal.Decimal `json:"balance"`
	Description   string          `json:"description"`
}

// ImportBankRecordsRequest uploads a batch of bank movements.
type ImportBankRecordsRequest struct {
	Records []BankRecordInput `json:"records" binding:"required"`
}

// BankRecordInput is one movement in an import batch.
type BankRecordInput struct {
	ID              string          `json:"id" binding:"required"`
	TransactionDate string          `json:"transaction_date" binding:"required"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Balance         decimal.Decimal `json:"balance"`
	TransactionType string          `json:"transaction_type" binding:"required"`
	Counterparty    string          `json:"counterparty"`
	BankAccountID   string          `json:"bank_account_id" binding:"required"`
}

// ReconcileRequest runs a reconciliation pass.
type ReconcileRequest struct {
	BankAccountID string `json:"bank_account_id"`
	From          string `json:"from"`
	To            string `json:"to"`
	Apply         bool   `json:"apply"`
	CreatedBy     string `json:"created_by"`
}

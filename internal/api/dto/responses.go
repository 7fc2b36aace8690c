package dto

import (
	"github.com/shopspring/decimal"

	"github.com/craftbooks/settlement-backend/internal/domain/model"
	"github.com/craftbooks/settlement-backend/internal/domain/reconciler"
)

// Domain entities serialize decimals as quoted strings, so most
// endpoints return them directly. The types here shape the composite
// results.

// PaymentResponse reports a committed payment operation.
type PaymentResponse struct {
	Payment     *model.TransactionRecord  `json:"payment"`
	Allocations []model.PaymentAllocation `json:"allocations"`
	Warnings    []string                  `json:"warnings,omitempty"`
}

// UnallocatedPaymentResponse pairs a payment with its unapplied
// remainder.
type UnallocatedPaymentResponse struct {
	Payment     model.TransactionRecord `json:"payment"`
	Unallocated decimal.Decimal         `json:"unallocated"`
}

// BalanceResponse reports one obligation-side amount.
type BalanceResponse struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

// SuggestionResponse is one proposed FIFO allocation.
type SuggestionResponse struct {
	PaymentID    string          `json:"payment_id"`
	ObligationID string          `json:"obligation_id"`
	Amount       decimal.Decimal `json:"amount"`
}

// UnmatchedBankResponse is one bank record with no internal partner.
type UnmatchedBankResponse struct {
	Record model.BankRecord `json:"record"`
	Reason string           `json:"reason"`
}

// UnmatchedInternalResponse is one internal entry with no bank
// partner.
type UnmatchedInternalResponse struct {
	Entry  model.TransactionRecord `json:"entry"`
	Reason string                  `json:"reason"`
}

// ReconcileResponse reports one reconciliation run.
type ReconcileResponse struct {
	Matches           []model.ReconciliationMatch `json:"matches"`
	UnmatchedBank     []UnmatchedBankResponse     `json:"unmatched_bank"`
	UnmatchedInternal []UnmatchedInternalResponse `json:"unmatched_internal"`
	Applied           bool                        `json:"applied"`
}

// NewReconcileResponse shapes an engine result for the wire.
func NewReconcileResponse(result *reconciler.Result, applied bool) ReconcileResponse {
	resp := ReconcileResponse{
		Matches:           result.Matches,
		UnmatchedBank:     make([]UnmatchedBankResponse, 0, len(result.UnmatchedBank)),
		UnmatchedInternal: make([]UnmatchedInternalResponse, 0, len(result.UnmatchedInternal)),
		Applied:           applied,
	}
	for _, u := range result.UnmatchedBank {
		resp.UnmatchedBank = append(resp.UnmatchedBank, UnmatchedBankResponse{
			Record: u.Record,
			Reason: u.Reason,
		})
	}
	for _, u := range result.UnmatchedInternal {
		resp.UnmatchedInternal = append(resp.UnmatchedInternal, UnmatchedInternalResponse{
			Entry:  u.Entry,
			Reason: u.Reason,
		})
	}
	return resp
}

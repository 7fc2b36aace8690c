// Package allocation applies payments to obligations. A payment is an
// internal ledger entry; income entries settle processing orders,
// expense entries settle outsourced processing jobs. One payment can
// cover many obligations and one obligation can be covered by many
// payments, recorded as append-only allocation rows.
package allocation

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/craftbooks/settlement-backend/internal/domain/model"
	"github.com/craftbooks/settlement-backend/internal/infrastructure/storage"
)

// Store is the slice of the repository the manager needs.
type Store interface {
	GetOrder(id string) (*model.ProcessingOrder, error)
	GetProcessing(id string) (*model.OutsourcedProcessing, error)
	GetEntry(id string) (*model.TransactionRecord, error)
	ListEntries(filters storage.EntryFilters) ([]model.TransactionRecord, error)
	ListOrders(filters storage.OrderFilters) ([]*model.ProcessingOrder, error)
	ListProcessing(filters storage.ProcessingFilters) ([]*model.OutsourcedProcessing, error)
	ListAllocationsByPayment(paymentID string) ([]model.PaymentAllocation, error)
	ListAllocationsByObligation(obligationID string) ([]model.PaymentAllocation, error)
	ApplyAllocations(write storage.AllocationWrite) error
}

// Request asks for part of a payment to be applied to one obligation.
type Request struct {
	ObligationID string
	Amount       decimal.Decimal
}

// Result reports what an allocation operation committed. Warnings are
// soft findings (an obligation pushed past its total); the operation
// still succeeded.
type Result struct {
	Payment     *model.TransactionRecord
	Allocations []model.PaymentAllocation
	Warnings    []string
}

// Manager validates and commits payment allocations.
type Manager struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates an allocation manager.
func NewManager(store Store, logger *slog.Logger) *Manager {
	return &Manager{store: store, logger: logger, now: time.Now}
}

// RecordPayment persists a new payment, optionally applying part of it
// to obligations in the same commit. Validation happens entirely before
// the write: a rejected request leaves no trace of the payment or any
// allocation.
func (m *Manager) RecordPayment(payment *model.TransactionRecord, requests []Request) (*Result, error) {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if !payment.Amount.IsPositive() {
		return nil, &model.ValidationError{Field: "amount", Message: "payment amount must be positive"}
	}
	if _, err := model.ParseEntryType(string(payment.Type)); err != nil {
		return nil, err
	}
	existing, err := m.store.GetEntry(payment.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &model.ValidationError{Field: "id", Message: fmt.Sprintf("payment %q already exists", payment.ID)}
	}

	now := m.now()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = now

	prepared, err := m.prepare(payment, decimal.Zero, requests)
	if err != nil {
		return nil, err
	}
	prepared.write.Payment = payment

	if err := m.store.ApplyAllocations(prepared.write); err != nil {
		return nil, err
	}

	m.logger.Info("payment recorded",
		"payment_id", payment.ID,
		"type", string(payment.Type),
		"amount", payment.Amount.String(),
		"allocations", len(prepared.write.Allocations))

	return &Result{
		Payment:     payment,
		Allocations: prepared.write.Allocations,
		Warnings:    prepared.warnings,
	}, nil
}

// AllocatePayment applies more of an existing payment to obligations.
// The unallocated remainder bounds the batch: if the requested total
// plus prior allocations would exceed the payment amount, the whole
// batch is rejected with an OverAllocationError and nothing is written.
func (m *Manager) AllocatePayment(paymentID string, requests []Request) (*Result, error) {
	if len(requests) == 0 {
		return nil, &model.ValidationError{Field: "allocations", Message: "at least one allocation required"}
	}
	payment, err := m.store.GetEntry(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, &model.NotFoundError{Entity: "payment", ID: paymentID}
	}

	already, err := m.allocatedTotal(paymentID)
	if err != nil {
		return nil, err
	}

	prepared, err := m.prepare(payment, already, requests)
	if err != nil {
		return nil, err
	}

	if err := m.store.ApplyAllocations(prepared.write); err != nil {
		return nil, err
	}

	m.logger.Info("payment allocated",
		"payment_id", paymentID,
		"allocations", len(prepared.write.Allocations))

	return &Result{
		Payment:     payment,
		Allocations: prepared.write.Allocations,
		Warnings:    prepared.warnings,
	}, nil
}

type preparedWrite struct {
	write    storage.AllocationWrite
	warnings []string
}

// prepare validates a request batch against the payment and loads the
// affected obligations with their balances advanced. It performs no
// writes.
func (m *Manager) prepare(payment *model.TransactionRecord, already decimal.Decimal, requests []Request) (*preparedWrite, error) {
	requested := decimal.Zero
	for _, r := range requests {
		if !r.Amount.IsPositive() {
			return nil, &model.ValidationError{
				Field:   "allocated_amount",
				Message: fmt.Sprintf("allocation to %q must be positive", r.ObligationID),
			}
		}
		requested = requested.Add(r.Amount)
	}
	if already.Add(requested).GreaterThan(payment.Amount) {
		return nil, &model.OverAllocationError{
			PaymentID:        payment.ID,
			PaymentAmount:    payment.Amount,
			AlreadyAllocated: already,
			Requested:        requested,
		}
	}

	prepared := &preparedWrite{}
	now := m.now()

	// Load each obligation once even when several requests hit it.
	orders := make(map[string]*model.ProcessingOrder)
	jobs := make(map[string]*model.OutsourcedProcessing)

	for _, r := range requests {
		switch payment.Type {
		case model.EntryIncome:
			order := orders[r.ObligationID]
			if order == nil {
				var err error
				order, err = m.store.GetOrder(r.ObligationID)
				if err != nil {
					return nil, err
				}
				if order == nil {
					return nil, &model.NotFoundError{Entity: "order", ID: r.ObligationID}
				}
				orders[r.ObligationID] = order
				prepared.write.Orders = append(prepared.write.Orders, order)
			}
			order.ReceivedAmount = order.ReceivedAmount.Add(r.Amount)
			order.UpdatedAt = now
			if order.Overpaid() {
				prepared.warnings = append(prepared.warnings, fmt.Sprintf(
					"order %s received %s, over its total %s",
					order.ID, order.ReceivedAmount, order.TotalAmount))
			}

		case model.EntryExpense:
			job := jobs[r.ObligationID]
			if job == nil {
				var err error
				job, err = m.store.GetProcessing(r.ObligationID)
				if err != nil {
					return nil, err
				}
				if job == nil {
					return nil, &model.NotFoundError{Entity: "processing", ID: r.ObligationID}
				}
				jobs[r.ObligationID] = job
				prepared.write.Jobs = append(prepared.write.Jobs, job)
			}
			job.PaidAmount = job.PaidAmount.Add(r.Amount)
			job.UpdatedAt = now
			if job.PaidAmount.GreaterThan(job.TotalCost) {
				prepared.warnings = append(prepared.warnings, fmt.Sprintf(
					"processing %s paid %s, over its total cost %s",
					job.ID, job.PaidAmount, job.TotalCost))
			}
		}

		prepared.write.Allocations = append(prepared.write.Allocations, model.PaymentAllocation{
			ID:              uuid.NewString(),
			PaymentID:       payment.ID,
			ObligationID:    r.ObligationID,
			AllocatedAmount: r.Amount,
			AllocationDate:  now,
		})
	}

	for _, w := range prepared.warnings {
		m.logger.Warn("over-obligation allocation", "payment_id", payment.ID, "detail", w)
	}

	return prepared, nil
}

func (m *Manager) allocatedTotal(paymentID string) (decimal.Decimal, error) {
	allocations, err := m.store.ListAllocationsByPayment(paymentID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.AllocatedAmount)
	}
	return total, nil
}

// GetPaymentObligations returns the allocation rows of one payment.
func (m *Manager) GetPaymentObligations(paymentID string) ([]model.PaymentAllocation, error) {
	payment, err := m.store.GetEntry(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, &model.NotFoundError{Entity: "payment", ID: paymentID}
	}
	return m.store.ListAllocationsByPayment(paymentID)
}

// ObligationPayment pairs a settling payment with the amount of it
// applied to the obligation. One row per allocation, so a payment
// applied twice appears twice.
type ObligationPayment struct {
	Payment         model.TransactionRecord `json:"payment"`
	AllocatedAmount decimal.Decimal         `json:"allocated_amount"`
}

// GetObligationPayments returns the payments applied to one obligation
// in payment date order, each with its allocated amount.
func (m *Manager) GetObligationPayments(obligationID string) ([]ObligationPayment, error) {
	allocations, err := m.store.ListAllocationsByObligation(obligationID)
	if err != nil {
		return nil, err
	}

	payments := make(map[string]*model.TransactionRecord)
	result := make([]ObligationPayment, 0, len(allocations))
	for _, a := range allocations {
		payment := payments[a.PaymentID]
		if payment == nil {
			payment, err = m.store.GetEntry(a.PaymentID)
			if err != nil {
				return nil, err
			}
			if payment == nil {
				return nil, &model.NotFoundError{Entity: "payment", ID: a.PaymentID}
			}
			payments[a.PaymentID] = payment
		}
		result = append(result, ObligationPayment{
			Payment:         *payment,
			AllocatedAmount: a.AllocatedAmount,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Payment.Date.Equal(result[j].Payment.Date) {
			return result[i].Payment.Date.Before(result[j].Payment.Date)
		}
		return result[i].Payment.ID < result[j].Payment.ID
	})
	return result, nil
}

// GetObligationTotalReceived sums all allocations against an
// obligation.
func (m *Manager) GetObligationTotalReceived(obligationID string) (decimal.Decimal, error) {
	allocations, err := m.store.ListAllocationsByObligation(obligationID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.AllocatedAmount)
	}
	return total, nil
}

// GetUnallocatedAmount is the part of a payment not yet applied to any
// obligation.
func (m *Manager) GetUnallocatedAmount(paymentID string) (decimal.Decimal, error) {
	payment, err := m.store.GetEntry(paymentID)
	if err != nil {
		return decimal.Zero, err
	}
	if payment == nil {
		return decimal.Zero, &model.NotFoundError{Entity: "payment", ID: paymentID}
	}
	allocated, err := m.allocatedTotal(paymentID)
	if err != nil {
		return decimal.Zero, err
	}
	return payment.Amount.Sub(allocated), nil
}

// UnallocatedPayment pairs a payment with its unapplied remainder.
type UnallocatedPayment struct {
	Payment     model.TransactionRecord
	Unallocated decimal.Decimal
}

// GetUnallocatedPayments returns payments of the given direction that
// still have an unapplied remainder, oldest first.
func (m *Manager) GetUnallocatedPayments(entryType model.EntryType) ([]UnallocatedPayment, error) {
	entries, err := m.store.ListEntries(storage.EntryFilters{Type: entryType})
	if err != nil {
		return nil, err
	}

	var result []UnallocatedPayment
	for _, e := range entries {
		allocated, err := m.allocatedTotal(e.ID)
		if err != nil {
			return nil, err
		}
		remainder := e.Amount.Sub(allocated)
		if remainder.IsPositive() {
			result = append(result, UnallocatedPayment{Payment: e, Unallocated: remainder})
		}
	}
	return result, nil
}

package allocation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/craftbooks/settlement-backend/internal/domain/model"
	"github.com/craftbooks/settlement-backend/internal/infrastructure/storage"
)

// Proposal is one suggested allocation. SuggestFIFO emits proposals
// only; the caller decides whether to commit them via AllocatePayment.
type Proposal struct {
	PaymentID    string
	ObligationID string
	Amount       decimal.Decimal
}

// SuggestFIFO proposes settling a counterparty's open obligations from
// its payments with unallocated remainders, oldest first on both
// sides. Income payments settle order balances, expense payments
// settle unpaid processing costs. The method reads but never writes.
func (m *Manager) SuggestFIFO(counterpartyID string, entryType model.EntryType) ([]Proposal, error) {
	entries, err := m.store.ListEntries(storage.EntryFilters{
		Type:           entryType,
		CounterpartyID: counterpartyID,
	})
	if err != nil {
		return nil, err
	}

	// Entries come back oldest first; keep only those with remainders.
	var pool []UnallocatedPayment
	for _, e := range entries {
		allocated, err := m.allocatedTotal(e.ID)
		if err != nil {
			return nil, err
		}
		remainder := e.Amount.Sub(allocated)
		if remainder.IsPositive() {
			pool = append(pool, UnallocatedPayment{Payment: e, Unallocated: remainder})
		}
	}
	if len(pool) == 0 {
		return nil, nil
	}

	obligations, err := m.openObligations(counterpartyID, entryType)
	if err != nil {
		return nil, err
	}

	var proposals []Proposal
	p := 0
	for _, ob := range obligations {
		outstanding := ob.amount
		for outstanding.IsPositive() && p < len(pool) {
			take := decimal.Min(outstanding, pool[p].Unallocated)
			proposals = append(proposals, Proposal{
				PaymentID:    pool[p].Payment.ID,
				ObligationID: ob.id,
				Amount:       take,
			})
			outstanding = outstanding.Sub(take)
			pool[p].Unallocated = pool[p].Unallocated.Sub(take)
			if !pool[p].Unallocated.IsPositive() {
				p++
			}
		}
		if p >= len(pool) {
			break
		}
	}

	return proposals, nil
}

type openObligation struct {
	id     string
	amount decimal.Decimal
}

// openObligations lists a counterparty's obligations with outstanding
// balances, oldest first.
func (m *Manager) openObligations(counterpartyID string, entryType model.EntryType) ([]openObligation, error) {
	var result []openObligation

	switch entryType {
	case model.EntryIncome:
		orders, err := m.store.ListOrders(storage.OrderFilters{CustomerID: counterpartyID})
		if err != nil {
			return nil, err
		}
		// Listings are newest first; FIFO wants the oldest debt settled
		// first.
		sort.Slice(orders, func(i, j int) bool {
			if !orders[i].OrderDate.Equal(orders[j].OrderDate) {
				return orders[i].OrderDate.Before(orders[j].OrderDate)
			}
			return orders[i].ID < orders[j].ID
		})
		for _, o := range orders {
			if o.Status == model.OrderCancelled {
				continue
			}
			if balance := o.Balance(); balance.IsPositive() {
				result = append(result, openObligation{id: o.ID, amount: balance})
			}
		}

	case model.EntryExpense:
		jobs, err := m.store.ListProcessing(storage.ProcessingFilters{SupplierID: counterpartyID})
		if err != nil {
			return nil, err
		}
		sort.Slice(jobs, func(i, j int) bool {
			if !jobs[i].ProcessDate.Equal(jobs[j].ProcessDate) {
				return jobs[i].ProcessDate.Before(jobs[j].ProcessDate)
			}
			return jobs[i].ID < jobs[j].ID
		})
		for _, j := range jobs {
			if unpaid := j.UnpaidAmount(); unpaid.IsPositive() {
				result = append(result, openObligation{id: j.ID, amount: unpaid})
			}
		}
	}

	return result, nil
}

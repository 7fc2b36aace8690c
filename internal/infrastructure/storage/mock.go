package storage

import (
	"fmt"
	"sort"

	"github.com/craftbooks/settlement-backend/internal/domain/model"
)

// MockRepository is an in-memory implementation of Repository for
// testing. It stores all data in maps, making tests fast and isolated,
// and mirrors the sqlite store's ordering guarantees so tests exercise
// the same contracts.
type MockRepository struct {
	orders      map[string]*model.ProcessingOrder
	processing  map[string]*model.OutsourcedProcessing
	accounts    map[string]*model.BankAccount
	bankRecords map[string]model.BankRecord
	entries     map[string]model.TransactionRecord
	allocations []model.PaymentAllocation
	matches     []model.ReconciliationMatch

	// Error injection for testing error paths
	SaveOrderErr        error
	GetOrderErr         error
	SaveProcessingErr   error
	SaveEntryErr        error
	ApplyAllocationsErr error
	SaveMatchesErr      error

	// Hooks for test assertions
	ApplyAllocationsCalls int
	LastAllocationWrite   *AllocationWrite
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		orders:      make(map[string]*model.ProcessingOrder),
		processing:  make(map[string]*model.OutsourcedProcessing),
		accounts:    make(map[string]*model.BankAccount),
		bankRecords: make(map[string]model.BankRecord),
		entries:     make(map[string]model.TransactionRecord),
	}
}

// Close does nothing for mock
func (m *MockRepository) Close() error { return nil }

func (m *MockRepository) SaveOrder(order *model.ProcessingOrder) error {
	if m.SaveOrderErr != nil {
		return m.SaveOrderErr
	}
	// Same unique order_number constraint as the sqlite schema
	for _, o := range m.orders {
		if o.ID != order.ID && o.OrderNumber == order.OrderNumber {
			return &model.PersistenceError{
				Op:  "SaveOrder",
				Err: fmt.Errorf("order number %q already used by order %s", order.OrderNumber, o.ID),
			}
		}
	}
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *MockRepository) GetOrderByNumber(orderNumber string) (*model.ProcessingOrder, error) {
	if m.GetOrderErr != nil {
		return nil, m.GetOrderErr
	}
	for _, o := range m.orders {
		if o.OrderNumber == orderNumber {
			copied := *o
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) GetOrder(id string) (*model.ProcessingOrder, error) {
	if m.GetOrderErr != nil {
		return nil, m.GetOrderErr
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *o
	return &copied, nil
}

func (m *MockRepository) ListOrders(filters OrderFilters) ([]*model.ProcessingOrder, error) {
	var matching []*model.ProcessingOrder
	for _, o := range m.orders {
		if filters.CustomerID != "" && o.CustomerID != filters.CustomerID {
			continue
		}
		if filters.Status != "" && o.Status != filters.Status {
			continue
		}
		if filters.PricingUnit != "" && o.PricingUnit != filters.PricingUnit {
			continue
		}
		if !filters.From.IsZero() && o.OrderDate.Before(filters.From) {
			continue
		}
		if !filters.To.IsZero() && o.OrderDate.After(filters.To) {
			continue
		}
		copied := *o
		matching = append(matching, &copied)
	}
	sort.Slice(matching, func(i, j int) bool {
		if !matching[i].OrderDate.Equal(matching[j].OrderDate) {
			return matching[i].OrderDate.After(matching[j].OrderDate)
		}
		return matching[i].ID < matching[j].ID
	})
	return matching, nil
}

func (m *MockRepository) SaveProcessing(job *model.OutsourcedProcessing) error {
	if m.SaveProcessingErr != nil {
		return m.SaveProcessingErr
	}
	copied := *job
	m.processing[job.ID] = &copied
	return nil
}

func (m *MockRepository) GetProcessing(id string) (*model.OutsourcedProcessing, error) {
	p, ok := m.processing[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (m *MockRepository) ListProcessing(filters ProcessingFilters) ([]*model.OutsourcedProcessing, error) {
	var matching []*model.OutsourcedProcessing
	for _, p := range m.processing {
		if filters.OrderID != "" && p.OrderID != filters.OrderID {
			continue
		}
		if filters.SupplierID != "" && p.SupplierID != filters.SupplierID {
			continue
		}
		if !filters.From.IsZero() && p.ProcessDate.Before(filters.From) {
			continue
		}
		if !filters.To.IsZero() && p.ProcessDate.After(filters.To) {
			continue
		}
		copied := *p
		matching = append(matching, &copied)
	}
	sort.Slice(matching, func(i, j int) bool {
		if !matching[i].ProcessDate.Equal(matching[j].ProcessDate) {
			return matching[i].ProcessDate.After(matching[j].ProcessDate)
		}
		return matching[i].ID < matching[j].ID
	})
	return matching, nil
}

func (m *MockRepository) ApplyProcessingChange(job *model.OutsourcedProcessing, order *model.ProcessingOrder) error {
	if m.SaveProcessingErr != nil {
		return m.SaveProcessingErr
	}
	jobCopy := *job
	orderCopy := *order
	m.processing[job.ID] = &jobCopy
	m.orders[order.ID] = &orderCopy
	return nil
}

func (m *MockRepository) SaveBankAccount(account *model.BankAccount) error {
	copied := *account
	m.accounts[account.ID] = &copied
	return nil
}

func (m *MockRepository) GetBankAccount(id string) (*model.BankAccount, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (m *MockRepository) ListBankAccounts() ([]*model.BankAccount, error) {
	var accounts []*model.BankAccount
	for _, a := range m.accounts {
		copied := *a
		accounts = append(accounts, &copied)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}

func (m *MockRepository) SaveBankRecords(records []model.BankRecord) error {
	for _, r := range records {
		m.bankRecords[r.ID] = r
	}
	return nil
}

func (m *MockRepository) ListBankRecords(filters BankRecordFilters) ([]model.BankRecord, error) {
	var matching []model.BankRecord
	for _, r := range m.bankRecords {
		if filters.BankAccountID != "" && r.BankAccountID != filters.BankAccountID {
			continue
		}
		if !filters.From.IsZero() && r.TransactionDate.Before(filters.From) {
			continue
		}
		if !filters.To.IsZero() && r.TransactionDate.After(filters.To) {
			continue
		}
		matching = append(matching, r)
	}
	sort.Slice(matching, func(i, j int) bool {
		if !matching[i].TransactionDate.Equal(matching[j].TransactionDate) {
			return matching[i].TransactionDate.Before(matching[j].TransactionDate)
		}
		return matching[i].ID < matching[j].ID
	})
	return matching, nil
}

func (m *MockRepository) SaveEntry(entry *model.TransactionRecord) error {
	if m.SaveEntryErr != nil {
		return m.SaveEntryErr
	}
	m.entries[entry.ID] = *entry
	return nil
}

func (m *MockRepository) GetEntry(id string) (*model.TransactionRecord, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *MockRepository) ListEntries(filters EntryFilters) ([]model.TransactionRecord, error) {
	var matching []model.TransactionRecord
	for _, e := range m.entries {
		if filters.Type != "" && e.Type != filters.Type {
			continue
		}
		if filters.Status != "" && e.Status != filters.Status {
			continue
		}
		if filters.CounterpartyID != "" && e.CounterpartyID != filters.CounterpartyID {
			continue
		}
		if !filters.From.IsZero() && e.Date.Before(filters.From) {
			continue
		}
		if !filters.To.IsZero() && e.Date.After(filters.To) {
			continue
		}
		matching = append(matching, e)
	}
	sort.Slice(matching, func(i, j int) bool {
		if !matching[i].Date.Equal(matching[j].Date) {
			return matching[i].Date.Before(matching[j].Date)
		}
		return matching[i].ID < matching[j].ID
	})
	return matching, nil
}

// sortAllocations applies the sqlite listing order: allocation date
// ascending, id ascending.
func sortAllocations(allocations []model.PaymentAllocation) {
	sort.Slice(allocations, func(i, j int) bool {
		if !allocations[i].AllocationDate.Equal(allocations[j].AllocationDate) {
			return allocations[i].AllocationDate.Before(allocations[j].AllocationDate)
		}
		return allocations[i].ID < allocations[j].ID
	})
}

func (m *MockRepository) ListAllocationsByPayment(paymentID string) ([]model.PaymentAllocation, error) {
	var result []model.PaymentAllocation
	for _, a := range m.allocations {
		if a.PaymentID == paymentID {
			result = append(result, a)
		}
	}
	sortAllocations(result)
	return result, nil
}

func (m *MockRepository) ListAllocationsByObligation(obligationID string) ([]model.PaymentAllocation, error) {
	var result []model.PaymentAllocation
	for _, a := range m.allocations {
		if a.ObligationID == obligationID {
			result = append(result, a)
		}
	}
	sortAllocations(result)
	return result, nil
}

func (m *MockRepository) ApplyAllocations(write AllocationWrite) error {
	m.ApplyAllocationsCalls++
	m.LastAllocationWrite = &write
	if m.ApplyAllocationsErr != nil {
		return m.ApplyAllocationsErr
	}
	if write.Payment != nil {
		m.entries[write.Payment.ID] = *write.Payment
	}
	m.allocations = append(m.allocations, write.Allocations...)
	for _, o := range write.Orders {
		copied := *o
		m.orders[o.ID] = &copied
	}
	for _, j := range write.Jobs {
		copied := *j
		m.processing[j.ID] = &copied
	}
	return nil
}

func (m *MockRepository) SaveMatches(matches []model.ReconciliationMatch) error {
	if m.SaveMatchesErr != nil {
		return m.SaveMatchesErr
	}
	m.matches = append(m.matches, matches...)
	return nil
}

func (m *MockRepository) ListMatches(filters MatchFilters) ([]model.ReconciliationMatch, error) {
	var matching []model.ReconciliationMatch
	for _, match := range m.matches {
		if !filters.From.IsZero() && match.MatchDate.Before(filters.From) {
			continue
		}
		if !filters.To.IsZero() && match.MatchDate.After(filters.To) {
			continue
		}
		matching = append(matching, match)
	}
	sort.Slice(matching, func(i, j int) bool {
		if !matching[i].MatchDate.Equal(matching[j].MatchDate) {
			return matching[i].MatchDate.Before(matching[j].MatchDate)
		}
		return matching[i].ID < matching[j].ID
	})
	return matching, nil
}

// AllocationCount reports how many allocation rows are stored (for
// zero-side-effect assertions).
func (m *MockRepository) AllocationCount() int {
	return len(m.allocations)
}

// Package storage provides the ledger store: durable keyed collections
// for every settlement entity, with get-by-id, filtered listing,
// upsert, and atomic multi-record writes. It holds no business logic.
package storage

import (
	"time"

	"github.com/craftbooks/settlement-backend/internal/domain/model"
)

// Repository is the complete ledger store interface. It allows
// swapping implementations (sqlite, in-memory) and makes testing with
// the in-memory repository straightforward.
type Repository interface {
	OrderRepository
	ProcessingRepository
	BankAccountRepository
	BankRecordRepository
	EntryRepository
	AllocationRepository
	MatchRepository
	Close() error
}

// OrderRepository stores customer processing orders.
type OrderRepository interface {
	// SaveOrder inserts or updates a single order.
	SaveOrder(order *model.ProcessingOrder) error

	// GetOrder returns the order or (nil, nil) when absent.
	GetOrder(id string) (*model.ProcessingOrder, error)

	// GetOrderByNumber returns the order or (nil, nil) when absent.
	// Order numbers are unique across the ledger.
	GetOrderByNumber(orderNumber string) (*model.ProcessingOrder, error)

	// ListOrders returns orders matching the filters, newest order
	// date first.
	ListOrders(filters OrderFilters) ([]*model.ProcessingOrder, error)
}

// OrderFilters narrows an order listing. Zero values mean "any".
type OrderFilters struct {
	CustomerID  string
	Status      model.OrderStatus
	PricingUnit model.PricingUnit
	From        time.Time
	To          time.Time
}

// ProcessingRepository stores outsourced processing jobs.
type ProcessingRepository interface {
	// SaveProcessing inserts or updates a single job.
	SaveProcessing(job *model.OutsourcedProcessing) error

	// GetProcessing returns the job or (nil, nil) when absent.
	GetProcessing(id string) (*model.OutsourcedProcessing, error)

	// ListProcessing returns jobs matching the filters, newest process
	// date first.
	ListProcessing(filters ProcessingFilters) ([]*model.OutsourcedProcessing, error)

	// ApplyProcessingChange writes a job and its owning order in one
	// atomic commit. Either both records persist or neither does.
	ApplyProcessingChange(job *model.OutsourcedProcessing, order *model.ProcessingOrder) error
}

// ProcessingFilters narrows a processing listing.
type ProcessingFilters struct {
	OrderID    string
	SupplierID string
	From       time.Time
	To         time.Time
}

// BankAccountRepository stores the business's money accounts.
type BankAccountRepository interface {
	SaveBankAccount(account *model.BankAccount) error
	GetBankAccount(id string) (*model.BankAccount, error)
	ListBankAccounts() ([]*model.BankAccount, error)
}

// BankRecordRepository stores externally reported bank movements.
type BankRecordRepository interface {
	// SaveBankRecords upserts a batch of bank records atomically.
	SaveBankRecords(records []model.BankRecord) error

	// ListBankRecords returns records matching the filters in
	// transaction date order.
	ListBankRecords(filters BankRecordFilters) ([]model.BankRecord, error)
}

// BankRecordFilters narrows a bank record listing.
type BankRecordFilters struct {
	BankAccountID string
	From          time.Time
	To            time.Time
}

// EntryRepository stores internal ledger entries (payments).
type EntryRepository interface {
	SaveEntry(entry *model.TransactionRecord) error

	// GetEntry returns the entry or (nil, nil) when absent.
	GetEntry(id string) (*model.TransactionRecord, error)

	// ListEntries returns entries matching the filters in date order.
	ListEntries(filters EntryFilters) ([]model.TransactionRecord, error)
}

// EntryFilters narrows an entry listing.
type EntryFilters struct {
	Type           model.EntryType
	Status         model.EntryStatus
	CounterpartyID string
	From           time.Time
	To             time.Time
}

// AllocationWrite is the mutation set for one allocation operation.
// The store must persist all of it or none of it: a crash mid-write
// must never leave a payment whose allocation total exceeds its
// amount, nor an allocation referencing an unpersisted payment.
type AllocationWrite struct {
	// Payment to insert; nil when allocating against an existing one.
	Payment *model.TransactionRecord

	// Allocations to append.
	Allocations []model.PaymentAllocation

	// Obligations with updated received/paid amounts.
	Orders []*model.ProcessingOrder
	Jobs   []*model.OutsourcedProcessing
}

// AllocationRepository stores payment allocations. Allocation rows are
// append-only.
type AllocationRepository interface {
	ListAllocationsByPayment(paymentID string) ([]model.PaymentAllocation, error)
	ListAllocationsByObligation(obligationID string) ([]model.PaymentAllocation, error)

	// ApplyAllocations commits one allocation mutation set atomically.
	ApplyAllocations(write AllocationWrite) error
}

// MatchRepository stores reconciliation matches.
type MatchRepository interface {
	// SaveMatches inserts a batch of matches atomically.
	SaveMatches(matches []model.ReconciliationMatch) error

	// ListMatches returns matches in match date order.
	ListMatches(filters MatchFilters) ([]model.ReconciliationMatch, error)
}

// MatchFilters narrows a match listing.
type MatchFilters struct {
	From time.Time
	To   time.Time
}

package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftbooks/settlement-backend/internal/domain/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testOrder(id string) *model.ProcessingOrder {
	now := date(2026, 3, 1)
	return &model.ProcessingOrder{
		ID:             id,
		OrderNumber:    "ORD-" + id,
		CustomerID:     "cust-1",
		OrderDate:      now,
		ProductName:    "steel bracket",
		PricingUnit:    model.UnitPiece,
		Quantity:       dec("100"),
		UnitPrice:      dec("12.50"),
		TotalAmount:    dec("1250.00"),
		Status:         model.OrderPending,
		ReceivedAmount: decimal.Zero,
		OutsourcedCost: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestSQLiteStore_OrderRoundTrip(t *testing.T) {
	store := newTestStore(t)

	order := testOrder("o1")
	require.NoError(t, store.SaveOrder(order))

	got, err := store.GetOrder("o1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, order.OrderNumber, got.OrderNumber)
	assert.True(t, got.TotalAmount.Equal(dec("1250.00")))
	assert.True(t, got.Quantity.Equal(dec("100")))
	assert.Equal(t, model.OrderPending, got.Status)
}

func TestSQLiteStore_OrderNumberIsUnique(t *testing.T) {
	store := newTestStore(t)

	first := testOrder("o1")
	require.NoError(t, store.SaveOrder(first))

	// A different order reusing the number must be rejected, not
	// silently replace the first row.
	duplicate := testOrder("o2")
	duplicate.OrderNumber = first.OrderNumber
	err := store.SaveOrder(duplicate)
	var pErr *model.PersistenceError
	require.ErrorAs(t, err, &pErr)

	got, err := store.GetOrder("o1")
	require.NoError(t, err)
	require.NotNil(t, got)

	missing, err := store.GetOrder("o2")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Re-saving the same order is an update, not a conflict
	first.Notes = "rush job"
	require.NoError(t, store.SaveOrder(first))
	got, err = store.GetOrder("o1")
	require.NoError(t, err)
	assert.Equal(t, "rush job", got.Notes)
}

func TestSQLiteStore_GetOrderByNumber(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveOrder(testOrder("o1")))

	got, err := store.GetOrderByNumber("ORD-o1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "o1", got.ID)

	missing, err := store.GetOrderByNumber("ORD-nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteStore_GetOrder_AbsentIsNilNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetOrder("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_DecimalPrecisionSurvivesStorage(t *testing.T) {
	// 0.1 is not representable in binary floating point; the TEXT
	// column must hand it back exactly.
	store := newTestStore(t)

	order := testOrder("o1")
	order.UnitPrice = dec("0.1")
	order.Quantity = dec("3")
	order.TotalAmount = dec("0.3")
	require.NoError(t, store.SaveOrder(order))

	got, err := store.GetOrder("o1")
	require.NoError(t, err)
	assert.True(t, got.TotalAmount.Equal(dec("0.3")))
	assert.Equal(t, "0.3", got.TotalAmount.String())
}

func TestSQLiteStore_ListOrders_FiltersAndOrder(t *testing.T) {
	store := newTestStore(t)

	early := testOrder("o-early")
	early.OrderDate = date(2026, 1, 10)
	late := testOrder("o-late")
	late.OrderDate = date(2026, 2, 20)
	other := testOrder("o-other")
	other.CustomerID = "cust-2"
	other.OrderDate = date(2026, 2, 1)

	for _, o := range []*model.ProcessingOrder{early, late, other} {
		require.NoError(t, store.SaveOrder(o))
	}

	// Newest first
	all, err := store.ListOrders(OrderFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "o-late", all[0].ID)
	assert.Equal(t, "o-early", all[2].ID)

	// Customer filter
	mine, err := store.ListOrders(OrderFilters{CustomerID: "cust-1"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	// Date range filter
	feb, err := store.ListOrders(OrderFilters{From: date(2026, 2, 1), To: date(2026, 2, 28)})
	require.NoError(t, err)
	assert.Len(t, feb, 2)
}

func TestSQLiteStore_ApplyProcessingChange_WritesBoth(t *testing.T) {
	store := newTestStore(t)

	order := testOrder("o1")
	require.NoError(t, store.SaveOrder(order))

	job := &model.OutsourcedProcessing{
		ID:          "p1",
		OrderID:     "o1",
		SupplierID:  "sup-1",
		ProcessType: model.ProcessElectroplate,
		ProcessDate: date(2026, 3, 5),
		Quantity:    dec("100"),
		UnitPrice:   dec("2.00"),
		TotalCost:   dec("200.00"),
		PaidAmount:  decimal.Zero,
		CreatedAt:   date(2026, 3, 5),
		UpdatedAt:   date(2026, 3, 5),
	}
	order.OutsourcedCost = dec("200.00")

	require.NoError(t, store.ApplyProcessingChange(job, order))

	gotJob, err := store.GetProcessing("p1")
	require.NoError(t, err)
	require.NotNil(t, gotJob)
	assert.True(t, gotJob.TotalCost.Equal(dec("200.00")))

	gotOrder, err := store.GetOrder("o1")
	require.NoError(t, err)
	assert.True(t, gotOrder.OutsourcedCost.Equal(dec("200.00")))
}

func TestSQLiteStore_ApplyAllocations_Atomic(t *testing.T) {
	store := newTestStore(t)

	order := testOrder("o1")
	require.NoError(t, store.SaveOrder(order))

	payment := &model.TransactionRecord{
		ID:             "pay-1",
		Date:           date(2026, 3, 10),
		Type:           model.EntryIncome,
		Amount:         dec("3000.00"),
		CounterpartyID: "cust-1",
		Status:         model.EntryCompleted,
		CreatedAt:      date(2026, 3, 10),
		UpdatedAt:      date(2026, 3, 10),
	}
	order.ReceivedAmount = dec("1000.00")

	write := AllocationWrite{
		Payment: payment,
		Allocations: []model.PaymentAllocation{{
			ID:              "alloc-1",
			PaymentID:       "pay-1",
			ObligationID:    "o1",
			AllocatedAmount: dec("1000.00"),
			AllocationDate:  date(2026, 3, 10),
		}},
		Orders: []*model.ProcessingOrder{order},
	}
	require.NoError(t, store.ApplyAllocations(write))

	byPayment, err := store.ListAllocationsByPayment("pay-1")
	require.NoError(t, err)
	require.Len(t, byPayment, 1)
	assert.True(t, byPayment[0].AllocatedAmount.Equal(dec("1000.00")))

	byObligation, err := store.ListAllocationsByObligation("o1")
	require.NoError(t, err)
	assert.Len(t, byObligation, 1)

	gotPayment, err := store.GetEntry("pay-1")
	require.NoError(t, err)
	require.NotNil(t, gotPayment)
	assert.True(t, gotPayment.Amount.Equal(dec("3000.00")))

	gotOrder, err := store.GetOrder("o1")
	require.NoError(t, err)
	assert.True(t, gotOrder.ReceivedAmount.Equal(dec("1000.00")))
}

func TestSQLiteStore_AllocationRowsAreAppendOnly(t *testing.T) {
	// A correction is a second row, and both come back.
	store := newTestStore(t)

	base := model.PaymentAllocation{
		PaymentID:      "pay-1",
		ObligationID:   "o1",
		AllocationDate: date(2026, 3, 10),
	}
	first := base
	first.ID = "alloc-1"
	first.AllocatedAmount = dec("500.00")
	second := base
	second.ID = "alloc-2"
	second.AllocatedAmount = dec("-100.00")

	require.NoError(t, store.ApplyAllocations(AllocationWrite{Allocations: []model.PaymentAllocation{first}}))
	require.NoError(t, store.ApplyAllocations(AllocationWrite{Allocations: []model.PaymentAllocation{second}}))

	rows, err := store.ListAllocationsByObligation("o1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestSQLiteStore_BankRecordsAndEntries(t *testing.T) {
	store := newTestStore(t)

	records := []model.BankRecord{
		{
			ID:              "b1",
			TransactionDate: date(2026, 3, 2),
			Description:     "wire transfer",
			Amount:          dec("1000.00"),
			TransactionType: model.TransactionCredit,
			BankAccountID:   "acct-1",
		},
		{
			ID:              "b2",
			TransactionDate: date(2026, 3, 1),
			Description:     "supplier payment",
			Amount:          dec("200.00"),
			TransactionType: model.TransactionDebit,
			BankAccountID:   "acct-1",
		},
	}
	require.NoError(t, store.SaveBankRecords(records))

	got, err := store.ListBankRecords(BankRecordFilters{BankAccountID: "acct-1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Date ascending
	assert.Equal(t, "b2", got[0].ID)
	assert.Equal(t, model.TransactionDebit, got[0].TransactionType)

	entry := &model.TransactionRecord{
		ID:        "t1",
		Date:      date(2026, 3, 2),
		Type:      model.EntryIncome,
		Amount:    dec("1000.00"),
		Status:    model.EntryCompleted,
		CreatedAt: date(2026, 3, 2),
		UpdatedAt: date(2026, 3, 2),
	}
	require.NoError(t, store.SaveEntry(entry))

	entries, err := store.ListEntries(EntryFilters{Type: model.EntryIncome})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.Equal(dec("1000.00")))
}

func TestSQLiteStore_MatchRoundTrip(t *testing.T) {
	store := newTestStore(t)

	match := model.ReconciliationMatch{
		ID:               "m1",
		MatchDate:        date(2026, 3, 15),
		BankRecordIDs:    []string{"b1"},
		OrderIDs:         []string{"t1", "t2"},
		TotalBankAmount:  dec("1000.00"),
		TotalOrderAmount: dec("1000.00"),
		Difference:       decimal.Zero,
		MatchType:        "combination(2)",
		Notes:            "sum of 2 internal entries [t1, t2]",
		CreatedBy:        "system",
		CreatedAt:        date(2026, 3, 15),
	}
	require.NoError(t, store.SaveMatches([]model.ReconciliationMatch{match}))

	got, err := store.ListMatches(MatchFilters{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"b1"}, got[0].BankRecordIDs)
	assert.Equal(t, []string{"t1", "t2"}, got[0].OrderIDs)
	assert.Equal(t, "combination(2)", got[0].MatchType)
	assert.True(t, got[0].Difference.IsZero())
}

func TestSQLiteStore_BankAccountRoundTrip(t *testing.T) {
	store := newTestStore(t)

	account := &model.BankAccount{
		ID:          "acct-1",
		Name:        "operating",
		AccountType: model.AccountBusiness,
		HasInvoice:  true,
		Balance:     dec("5000.00"),
	}
	require.NoError(t, store.SaveBankAccount(account))

	got, err := store.GetBankAccount("acct-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.HasInvoice)
	assert.True(t, got.Balance.Equal(dec("5000.00")))

	all, err := store.ListBankAccounts()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLiteStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveOrder(testOrder("o1")))
	require.NoError(t, store.Close())

	// Reopening must not re-run applied migrations or lose data
	store2, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = store2.Close() }()

	got, err := store2.GetOrder("o1")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

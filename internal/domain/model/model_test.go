package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProcessingOrder_TotalInvariant(t *testing.T) {
	order := &ProcessingOrder{
		Quantity:  d("12.5"),
		UnitPrice: d("3.20"),
	}

	order.RecomputeTotal()
	assert.True(t, order.TotalAmount.Equal(d("40")), "total = %s", order.TotalAmount)

	// Changing quantity and recomputing keeps the invariant
	order.Quantity = d("10")
	order.RecomputeTotal()
	assert.True(t, order.TotalAmount.Equal(d("32")))
}

func TestProcessingOrder_BalanceAndProfit(t *testing.T) {
	order := &ProcessingOrder{
		TotalAmount:    d("1000"),
		ReceivedAmount: d("400"),
		OutsourcedCost: d("150"),
	}

	assert.True(t, order.Balance().Equal(d("600")))
	assert.True(t, order.Profit().Equal(d("850")))
	assert.False(t, order.Overpaid())

	// Overpayment is representable, not an error
	order.ReceivedAmount = d("1200")
	assert.True(t, order.Balance().Equal(d("-200")))
	assert.True(t, order.Overpaid())
}

func TestOutsourcedProcessing_UnpaidAmount(t *testing.T) {
	job := &OutsourcedProcessing{
		Quantity:  d("100"),
		UnitPrice: d("0.35"),
	}
	job.RecomputeTotal()
	require.True(t, job.TotalCost.Equal(d("35")))

	job.PaidAmount = d("20")
	assert.True(t, job.UnpaidAmount().Equal(d("15")))
}

func TestBankRecord_SignedAmount(t *testing.T) {
	credit := &BankRecord{Amount: d("250.00"), TransactionType: TransactionCredit}
	debit := &BankRecord{Amount: d("250.00"), TransactionType: TransactionDebit}

	assert.True(t, credit.SignedAmount().Equal(d("250")))
	assert.True(t, debit.SignedAmount().Equal(d("-250")))
}

func TestOrderStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderPending, OrderInProgress, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderCompleted, false},
		{OrderInProgress, OrderCompleted, true},
		{OrderInProgress, OrderCancelled, true},
		{OrderCompleted, OrderInProgress, false},
		{OrderCancelled, OrderPending, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestEnumParsing_RejectsUnknownValues(t *testing.T) {
	var verr *ValidationError

	_, err := ParseOrderStatus("shipped")
	require.ErrorAs(t, err, &verr)

	_, err = ParsePricingUnit("dozen")
	require.ErrorAs(t, err, &verr)

	_, err = ParseProcessType("painting")
	require.ErrorAs(t, err, &verr)

	_, err = ParseTransactionType("transfer")
	require.ErrorAs(t, err, &verr)

	_, err = ParseEntryType("refund")
	require.ErrorAs(t, err, &verr)

	_, err = ParseUpdateMode("multiply")
	require.ErrorAs(t, err, &verr)
}

func TestEnumParsing_AcceptsKnownValues(t *testing.T) {
	status, err := ParseOrderStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, OrderInProgress, status)

	unit, err := ParsePricingUnit("weight_meters")
	require.NoError(t, err)
	assert.Equal(t, UnitWeightMeters, unit)

	pt, err := ParseProcessType("sandblasting")
	require.NoError(t, err)
	assert.Equal(t, ProcessSandblasting, pt)
}

func TestEntryType_MatchesDirection(t *testing.T) {
	assert.True(t, EntryIncome.MatchesDirection(TransactionCredit))
	assert.True(t, EntryExpense.MatchesDirection(TransactionDebit))
	assert.False(t, EntryIncome.MatchesDirection(TransactionDebit))
	assert.False(t, EntryExpense.MatchesDirection(TransactionCredit))
}

func TestReconciliationMatch_Validate(t *testing.T) {
	tolerance := d("0.01")

	match := &ReconciliationMatch{
		BankRecordIDs:    []string{"b1"},
		OrderIDs:         []string{"t1"},
		TotalBankAmount:  d("100.00"),
		TotalOrderAmount: d("100.00"),
		Difference:       d("0"),
	}

	warnings, err := match.Validate(tolerance)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// Non-zero difference beyond tolerance is a warning, not a failure
	match.Difference = d("0.75")
	warnings, err = match.Validate(tolerance)
	require.NoError(t, err)
	assert.Len(t, warnings, 1)

	// Empty id lists are hard failures
	match.BankRecordIDs = nil
	_, err = match.Validate(tolerance)
	assert.Error(t, err)

	match.BankRecordIDs = []string{"b1"}
	match.OrderIDs = nil
	_, err = match.Validate(tolerance)
	assert.Error(t, err)
}

func TestReconciliationMatch_Cardinality(t *testing.T) {
	tests := []struct {
		bank, internal int
		want           MatchCardinality
	}{
		{1, 1, OneToOne},
		{1, 3, OneToMany},
		{2, 1, ManyToOne},
		{2, 2, ManyToMany},
	}

	for _, tc := range tests {
		m := &ReconciliationMatch{
			BankRecordIDs: make([]string, tc.bank),
			OrderIDs:      make([]string, tc.internal),
		}
		assert.Equal(t, tc.want, m.Cardinality())
	}
}

func TestJSONRoundTrip_Identity(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	order := ProcessingOrder{
		ID:             "ord-1",
		OrderNumber:    "PO-2026-001",
		CustomerID:     "cust-9",
		OrderDate:      date,
		ProductName:    "stainless strip",
		PricingUnit:    UnitStrip,
		Quantity:       d("120"),
		UnitPrice:      d("4.75"),
		TotalAmount:    d("570.00"),
		Status:         OrderPending,
		ReceivedAmount: d("0"),
		OutsourcedCost: d("0"),
		CreatedAt:      date,
		UpdatedAt:      date,
	}

	var order2 ProcessingOrder
	roundTrip(t, order, &order2)
	assert.Equal(t, order.ID, order2.ID)
	assert.True(t, order.Quantity.Equal(order2.Quantity))
	assert.True(t, order.TotalAmount.Equal(order2.TotalAmount))
	assert.Equal(t, order.PricingUnit, order2.PricingUnit)

	job := OutsourcedProcessing{
		ID: "job-1", OrderID: "ord-1", SupplierID: "sup-2",
		ProcessType: ProcessPolishing, ProcessDate: date,
		Quantity: d("120"), UnitPrice: d("0.30"), TotalCost: d("36.00"),
		PaidAmount: d("10.00"),
	}
	var job2 OutsourcedProcessing
	roundTrip(t, job, &job2)
	assert.True(t, job.TotalCost.Equal(job2.TotalCost))

	record := BankRecord{
		ID: "bank-1", TransactionDate: date, Description: "wire in",
		Amount: d("570.00"), Balance: d("12570.00"),
		TransactionType: TransactionCredit, BankAccountID: "acct-1",
	}
	var record2 BankRecord
	roundTrip(t, record, &record2)
	assert.True(t, record.Amount.Equal(record2.Amount))
	assert.Equal(t, record.TransactionType, record2.TransactionType)

	entry := TransactionRecord{
		ID: "tx-1", Date: date, Type: EntryIncome, Amount: d("570.00"),
		CounterpartyID: "cust-9", Status: EntryCompleted, BankAccountID: "acct-1",
	}
	var entry2 TransactionRecord
	roundTrip(t, entry, &entry2)
	assert.True(t, entry.Amount.Equal(entry2.Amount))

	alloc := PaymentAllocation{
		ID: "alloc-1", PaymentID: "tx-1", ObligationID: "ord-1",
		AllocatedAmount: d("570.00"), AllocationDate: date,
	}
	var alloc2 PaymentAllocation
	roundTrip(t, alloc, &alloc2)
	assert.True(t, alloc.AllocatedAmount.Equal(alloc2.AllocatedAmount))

	match := ReconciliationMatch{
		ID: "match-1", MatchDate: date,
		BankRecordIDs: []string{"bank-1"}, OrderIDs: []string{"tx-1"},
		TotalBankAmount: d("570.00"), TotalOrderAmount: d("570.00"),
		Difference: d("0"), MatchType: "exact",
	}
	var match2 ReconciliationMatch
	roundTrip(t, match, &match2)
	assert.Equal(t, match.BankRecordIDs, match2.BankRecordIDs)
	assert.True(t, match.Difference.Equal(match2.Difference))

	account := BankAccount{
		ID: "acct-1", Name: "operating", AccountNumber: "0012345",
		AccountType: AccountBusiness, HasInvoice: true, Balance: d("12570.00"),
	}
	var account2 BankAccount
	roundTrip(t, account, &account2)
	assert.True(t, account.Balance.Equal(account2.Balance))
}

// roundTrip marshals v and unmarshals into out.
func roundTrip(t *testing.T, v interface{}, out interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestDecimalJSON_IsExact(t *testing.T) {
	// Amounts serialize as quoted decimal strings, never binary floats.
	record := BankRecord{Amount: d("0.10"), TransactionType: TransactionCredit}
	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"amount":"0.1"`)
}

package registry

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftbooks/settlement-backend/internal/domain/model"
	"github.com/craftbooks/settlement-backend/internal/infrastructure/storage"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestRegistry(t *testing.T) (*Registry, *storage.MockRepository) {
	t.Helper()
	repo := storage.NewMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRegistry(repo, logger), repo
}

func orderInput(number string) OrderInput {
	return OrderInput{
		OrderNumber: number,
		CustomerID:  "cust-1",
		OrderDate:   date(2026, 3, 1),
		ProductName: "steel bracket",
		PricingUnit: model.UnitPiece,
		Quantity:    dec("100"),
		UnitPrice:   dec("12.50"),
	}
}

func TestCreateOrder_ComputesTotalAndDefaults(t *testing.T) {
	reg, _ := newTestRegistry(t)

	order, err := reg.CreateOrder(orderInput("ORD-1"))
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.True(t, order.TotalAmount.Equal(dec("1250.00")))
	assert.Equal(t, model.OrderPending, order.Status)
	assert.True(t, order.ReceivedAmount.IsZero())
	assert.True(t, order.OutsourcedCost.IsZero())
}

func TestCreateOrder_RejectsNegativeInput(t *testing.T) {
	reg, _ := newTestRegistry(t)

	bad := orderInput("ORD-1")
	bad.Quantity = dec("-1")
	_, err := reg.CreateOrder(bad)
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "quantity", vErr.Field)

	bad = orderInput("ORD-2")
	bad.UnitPrice = dec("-0.01")
	_, err = reg.CreateOrder(bad)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "unit_price", vErr.Field)
}

func TestCreateOrder_RejectsDuplicateOrderNumber(t *testing.T) {
	reg, repo := newTestRegistry(t)

	first, err := reg.CreateOrder(orderInput("ORD-DUP"))
	require.NoError(t, err)

	_, err = reg.CreateOrder(orderInput("ORD-DUP"))
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "order_number", vErr.Field)

	// The first order is untouched and still the only one
	orders, err := repo.ListOrders(storage.OrderFilters{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)
}

func TestCreateOrder_RejectsUnknownPricingUnit(t *testing.T) {
	reg, _ := newTestRegistry(t)

	bad := orderInput("ORD-1")
	bad.PricingUnit = model.PricingUnit("bushel")
	_, err := reg.CreateOrder(bad)
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestUpdateStatus_LegalAndIllegalTransitions(t *testing.T) {
	reg, _ := newTestRegistry(t)
	order, err := reg.CreateOrder(orderInput("ORD-1"))
	require.NoError(t, err)

	updated, err := reg.UpdateStatus(order.ID, model.OrderInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.OrderInProgress, updated.Status)

	updated, err = reg.UpdateStatus(order.ID, model.OrderCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCompleted, updated.Status)

	// Completed is terminal
	_, err = reg.UpdateStatus(order.ID, model.OrderPending)
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.UpdateStatus("ghost", model.OrderInProgress)
	var notFound *model.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestUpdateReceivedAmount_AddAndSet(t *testing.T) {
	reg, _ := newTestRegistry(t)
	order, err := reg.CreateOrder(orderInput("ORD-1"))
	require.NoError(t, err)

	updated, err := reg.UpdateReceivedAmount(order.ID, dec("500.00"), model.UpdateAdd)
	require.NoError(t, err)
	assert.True(t, updated.ReceivedAmount.Equal(dec("500.00")))

	updated, err = reg.UpdateReceivedAmount(order.ID, dec("300.00"), model.UpdateAdd)
	require.NoError(t, err)
	assert.True(t, updated.ReceivedAmount.Equal(dec("800.00")))

	updated, err = reg.UpdateReceivedAmount(order.ID, dec("100.00"), model.UpdateSet)
	require.NoError(t, err)
	assert.True(t, updated.ReceivedAmount.Equal(dec("100.00")))

	balance, err := reg.GetBalance(order.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("1150.00")))
}

func TestCreateProcessing_SyncsOrderOutsourcedCost(t *testing.T) {
	reg, repo := newTestRegistry(t)
	order, err := reg.CreateOrder(orderInput("ORD-1"))
	require.NoError(t, err)

	job, err := reg.CreateProcessing(ProcessingInput{
		OrderID:     order.ID,
		SupplierID:  "sup-1",
		ProcessType: model.ProcessPolishing,
		ProcessDate: date(2026, 3, 5),
		Quantity:    dec("100"),
		UnitPrice:   dec("2.00"),
	})
	require.NoError(t, err)
	assert.True(t, job.TotalCost.Equal(dec("200.00")))

	stored, _ := repo.GetOrder(order.ID)
	assert.True(t, stored.OutsourcedCost.Equal(dec("200.00")))

	// Second job accretes
	_, err = reg.CreateProcessing(ProcessingInput{
		OrderID:     order.ID,
		SupplierID:  "sup-2",
		ProcessType: model.ProcessSandblasting,
		ProcessDate: date(2026, 3, 6),
		Quantity:    dec("100"),
		UnitPrice:   dec("1.50"),
	})
	require.NoError(t, err)

	stored, _ = repo.GetOrder(order.ID)
	assert.True(t, stored.OutsourcedCost.Equal(dec("350.00")))

	total, err := reg.OrderTotalCost(order.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("350.00")))

	profit, err := reg.GetProfit(order.ID)
	require.NoError(t, err)
	assert.True(t, profit.Equal(dec("900.00")))
}

func TestUpdateProcessing_RecomputesCostAndOrder(t *testing.T) {
	reg, repo := newTestRegistry(t)
	order, err := reg.CreateOrder(orderInput("ORD-1"))
	require.NoError(t, err)

	job, err := reg.CreateProcessing(ProcessingInput{
		OrderID:     order.ID,
		SupplierID:  "sup-1",
		ProcessType: model.ProcessPolishing,
		ProcessDate: date(2026, 3, 5),
		Quantity:    dec("100"),
		UnitPrice:   dec("2.00"),
	})
	require.NoError(t, err)

	newPrice := dec("3.00")
	updated, err := reg.UpdateProcessing(job.ID, ProcessingUpdate{UnitPrice: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated.TotalCost.Equal(dec("300.00")))

	stored, _ := repo.GetOrder(order.ID)
	assert.True(t, stored.OutsourcedCost.Equal(dec("300.00")))
}

func TestCreateProcessing_UnknownOrder(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.CreateProcessing(ProcessingInput{
		OrderID:     "ghost",
		SupplierID:  "sup-1",
		ProcessType: model.ProcessPolishing,
		ProcessDate: date(2026, 3, 5),
		Quantity:    dec("1"),
		UnitPrice:   dec("1"),
	})
	var notFound *model.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestStatistics_SinglePassAggregates(t *testing.T) {
	reg, _ := newTestRegistry(t)

	a := orderInput("ORD-A")
	a.Quantity = dec("10")
	a.UnitPrice = dec("100.00") // total 1000
	orderA, err := reg.CreateOrder(a)
	require.NoError(t, err)

	b := orderInput("ORD-B")
	b.PricingUnit = model.UnitSquareMeters
	b.Quantity = dec("5")
	b.UnitPrice = dec("40.00") // total 200
	b.OrderDate = date(2026, 3, 2)
	_, err = reg.CreateOrder(b)
	require.NoError(t, err)

	_, err = reg.UpdateReceivedAmount(orderA.ID, dec("400.00"), model.UpdateAdd)
	require.NoError(t, err)
	_, err = reg.UpdateStatus(orderA.ID, model.OrderInProgress)
	require.NoError(t, err)

	stats, err := reg.Statistics(time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalOrders)
	assert.True(t, stats.TotalAmount.Equal(dec("1200.00")))
	assert.True(t, stats.TotalReceived.Equal(dec("400.00")))
	assert.True(t, stats.TotalBalance.Equal(dec("800.00")))
	assert.Equal(t, 1, stats.ByStatus[model.OrderPending].Count)
	assert.Equal(t, 1, stats.ByStatus[model.OrderInProgress].Count)
	assert.Equal(t, 1, stats.ByPricingUnit[model.UnitSquareMeters].Count)
	assert.True(t, stats.ByPricingUnit[model.UnitPiece].TotalAmount.Equal(dec("1000.00")))
}

func TestQuery_DateDescending(t *testing.T) {
	reg, _ := newTestRegistry(t)

	early := orderInput("ORD-early")
	early.OrderDate = date(2026, 1, 1)
	late := orderInput("ORD-late")
	late.OrderDate = date(2026, 2, 1)
	_, err := reg.CreateOrder(early)
	require.NoError(t, err)
	_, err = reg.CreateOrder(late)
	require.NoError(t, err)

	orders, err := reg.Query(storage.OrderFilters{})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-late", orders[0].OrderNumber)
}

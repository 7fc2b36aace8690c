// Package registry creates and updates processing orders and
// outsourced processing jobs. It owns total, balance and profit
// computation; allocation bookkeeping lives in the allocation package.
package registry

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/craftbooks/settlement-backend/internal/domain/model"
	"github.com/craftbooks/settlement-backend/internal/infrastructure/storage"
)

// Store is the slice of the repository the registry needs.
type Store interface {
	SaveOrder(order *model.ProcessingOrder) error
	GetOrder(id string) (*model.ProcessingOrder, error)
	GetOrderByNumber(orderNumber string) (*model.ProcessingOrder, error)
	ListOrders(filters storage.OrderFilters) ([]*model.ProcessingOrder, error)
	SaveProcessing(job *model.OutsourcedProcessing) error
	GetProcessing(id string) (*model.OutsourcedProcessing, error)
	ListProcessing(filters storage.ProcessingFilters) ([]*model.OutsourcedProcessing, error)
	ApplyProcessingChange(job *model.OutsourcedProcessing, order *model.ProcessingOrder) error
}

// Registry manages order and processing records.
type Registry struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewRegistry creates a registry over the given store.
func NewRegistry(store Store, logger *slog.Logger) *Registry {
	return &Registry{store: store, logger: logger, now: time.Now}
}

// OrderInput holds the caller-supplied fields of a new order.
type OrderInput struct {
	OrderNumber string
	CustomerID  string
	OrderDate   time.Time
	ProductName string
	PricingUnit model.PricingUnit
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Notes       string
}

// CreateOrder validates the input, computes the total and persists a
// pending order with nothing received and no outsourced cost.
func (r *Registry) CreateOrder(input OrderInput) (*model.ProcessingOrder, error) {
	if input.Quantity.IsNegative() {
		return nil, &model.ValidationError{Field: "quantity", Message: "must not be negative"}
	}
	if input.UnitPrice.IsNegative() {
		return nil, &model.ValidationError{Field: "unit_price", Message: "must not be negative"}
	}
	if input.OrderNumber == "" {
		return nil, &model.ValidationError{Field: "order_number", Message: "required"}
	}
	if _, err := model.ParsePricingUnit(string(input.PricingUnit)); err != nil {
		return nil, err
	}
	existing, err := r.store.GetOrderByNumber(input.OrderNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &model.ValidationError{
			Field:   "order_number",
			Message: fmt.Sprintf("%q already exists", input.OrderNumber),
		}
	}

	now := r.now()
	order := &model.ProcessingOrder{
		ID:             uuid.NewString(),
		OrderNumber:    input.OrderNumber,
		CustomerID:     input.CustomerID,
		OrderDate:      input.OrderDate,
		ProductName:    input.ProductName,
		PricingUnit:    input.PricingUnit,
		Quantity:       input.Quantity,
		UnitPrice:      input.UnitPrice,
		Status:         model.OrderPending,
		ReceivedAmount: decimal.Zero,
		OutsourcedCost: decimal.Zero,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	order.RecomputeTotal()

	if err := r.store.SaveOrder(order); err != nil {
		return nil, err
	}
	r.logger.Info("order created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"total", order.TotalAmount.String())
	return order, nil
}

// UpdateStatus moves an order through its lifecycle. Illegal
// transitions are rejected before any write.
func (r *Registry) UpdateStatus(id string, next model.OrderStatus) (*model.ProcessingOrder, error) {
	if _, err := model.ParseOrderStatus(string(next)); err != nil {
		return nil, err
	}
	order, err := r.store.GetOrder(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &model.NotFoundError{Entity: "order", ID: id}
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, &model.ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("cannot transition from %s to %s", order.Status, next),
		}
	}

	order.Status = next
	order.UpdatedAt = r.now()
	if err := r.store.SaveOrder(order); err != nil {
		return nil, err
	}
	r.logger.Info("order status updated", "order_id", id, "status", string(next))
	return order, nil
}

// UpdateReceivedAmount adjusts an order's received amount directly,
// for corrections outside the allocation flow. Mode add accretes the
// delta, mode set replaces the value.
func (r *Registry) UpdateReceivedAmount(id string, amount decimal.Decimal, mode model.UpdateMode) (*model.ProcessingOrder, error) {
	return r.updateOrderAmount(id, amount, mode, func(o *model.ProcessingOrder, v decimal.Decimal) {
		o.ReceivedAmount = v
	}, func(o *model.ProcessingOrder) decimal.Decimal {
		return o.ReceivedAmount
	})
}

// UpdateOutsourcedCost adjusts an order's outsourced cost directly.
// ApplyProcessing keeps this in sync automatically; this entry point
// exists for manual corrections.
func (r *Registry) UpdateOutsourcedCost(id string, amount decimal.Decimal, mode model.UpdateMode) (*model.ProcessingOrder, error) {
	return r.updateOrderAmount(id, amount, mode, func(o *model.ProcessingOrder, v decimal.Decimal) {
		o.OutsourcedCost = v
	}, func(o *model.ProcessingOrder) decimal.Decimal {
		return o.OutsourcedCost
	})
}

func (r *Registry) updateOrderAmount(
	id string,
	amount decimal.Decimal,
	mode model.UpdateMode,
	set func(*model.ProcessingOrder, decimal.Decimal),
	get func(*model.ProcessingOrder) decimal.Decimal,
) (*model.ProcessingOrder, error) {
	if _, err := model.ParseUpdateMode(string(mode)); err != nil {
		return nil, err
	}
	order, err := r.store.GetOrder(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &model.NotFoundError{Entity: "order", ID: id}
	}

	switch mode {
	case model.UpdateAdd:
		set(order, get(order).Add(amount))
	case model.UpdateSet:
		set(order, amount)
	}
	order.UpdatedAt = r.now()

	if err := r.store.SaveOrder(order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder fetches one order.
func (r *Registry) GetOrder(id string) (*model.ProcessingOrder, error) {
	order, err := r.store.GetOrder(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &model.NotFoundError{Entity: "order", ID: id}
	}
	return order, nil
}

// GetBalance is the amount still owed on an order.
func (r *Registry) GetBalance(id string) (decimal.Decimal, error) {
	order, err := r.GetOrder(id)
	if err != nil {
		return decimal.Zero, err
	}
	return order.Balance(), nil
}

// GetProfit is the order total net of outsourced costs.
func (r *Registry) GetProfit(id string) (decimal.Decimal, error) {
	order, err := r.GetOrder(id)
	if err != nil {
		return decimal.Zero, err
	}
	return order.Profit(), nil
}

// Query lists orders matching the filters, newest first.
func (r *Registry) Query(filters storage.OrderFilters) ([]*model.ProcessingOrder, error) {
	return r.store.ListOrders(filters)
}

// StatBucket is one slice of an aggregate breakdown.
type StatBucket struct {
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Statistics aggregates the filtered order set in a single pass.
type Statistics struct {
	TotalOrders         int                              `json:"total_orders"`
	TotalAmount         decimal.Decimal                  `json:"total_amount"`
	TotalReceived       decimal.Decimal                  `json:"total_received"`
	TotalOutsourcedCost decimal.Decimal                  `json:"total_outsourced_cost"`
	TotalBalance        decimal.Decimal                  `json:"total_balance"`
	TotalProfit         decimal.Decimal                  `json:"total_profit"`
	ByStatus            map[model.OrderStatus]StatBucket `json:"by_status"`
	ByPricingUnit       map[model.PricingUnit]StatBucket `json:"by_pricing_unit"`
}

// Statistics computes order aggregates over an optional date range.
func (r *Registry) Statistics(from, to time.Time) (*Statistics, error) {
	orders, err := r.store.ListOrders(storage.OrderFilters{From: from, To: to})
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		TotalAmount:         decimal.Zero,
		TotalReceived:       decimal.Zero,
		TotalOutsourcedCost: decimal.Zero,
		TotalBalance:        decimal.Zero,
		TotalProfit:         decimal.Zero,
		ByStatus:            make(map[model.OrderStatus]StatBucket),
		ByPricingUnit:       make(map[model.PricingUnit]StatBucket),
	}

	for _, o := range orders {
		stats.TotalOrders++
		stats.TotalAmount = stats.TotalAmount.Add(o.TotalAmount)
		stats.TotalReceived = stats.TotalReceived.Add(o.ReceivedAmount)
		stats.TotalOutsourcedCost = stats.TotalOutsourcedCost.Add(o.OutsourcedCost)
		stats.TotalBalance = stats.TotalBalance.Add(o.Balance())
		stats.TotalProfit = stats.TotalProfit.Add(o.Profit())

		byStatus := stats.ByStatus[o.Status]
		byStatus.Count++
		byStatus.TotalAmount = byStatus.TotalAmount.Add(o.TotalAmount)
		stats.ByStatus[o.Status] = byStatus

		byUnit := stats.ByPricingUnit[o.PricingUnit]
		byUnit.Count++
		byUnit.TotalAmount = byUnit.TotalAmount.Add(o.TotalAmount)
		stats.ByPricingUnit[o.PricingUnit] = byUnit
	}

	return stats, nil
}

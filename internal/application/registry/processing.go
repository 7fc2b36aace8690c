package registry

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/craftbooks/settlement-backend/internal/domain/model"
	"github.com/craftbooks/settlement-backend/internal/infrastructure/storage"
)

// ProcessingInput holds the caller-supplied fields of a new outsourced
// processing job.
type ProcessingInput struct {
	OrderID     string
	SupplierID  string
	ProcessType model.ProcessType
	ProcessDate time.Time
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Notes       string
}

// CreateProcessing validates the input and persists a new job together
// with the owning order's refreshed outsourced cost. The job and the
// order commit atomically.
func (r *Registry) CreateProcessing(input ProcessingInput) (*model.OutsourcedProcessing, error) {
	if input.Quantity.IsNegative() {
		return nil, &model.ValidationError{Field: "quantity", Message: "must not be negative"}
	}
	if input.UnitPrice.IsNegative() {
		return nil, &model.ValidationError{Field: "unit_price", Message: "must not be negative"}
	}
	if _, err := model.ParseProcessType(string(input.ProcessType)); err != nil {
		return nil, err
	}
	order, err := r.store.GetOrder(input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &model.NotFoundError{Entity: "order", ID: input.OrderID}
	}

	now := r.now()
	job := &model.OutsourcedProcessing{
		ID:          uuid.NewString(),
		OrderID:     input.OrderID,
		SupplierID:  input.SupplierID,
		ProcessType: input.ProcessType,
		ProcessDate: input.ProcessDate,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
		PaidAmount:  decimal.Zero,
		Notes:       input.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	job.RecomputeTotal()

	if err := r.applyProcessing(job, order); err != nil {
		return nil, err
	}
	r.logger.Info("processing created",
		"processing_id", job.ID,
		"order_id", job.OrderID,
		"total_cost", job.TotalCost.String())
	return job, nil
}

// ProcessingUpdate carries the mutable fields of a job. Nil fields are
// left unchanged.
type ProcessingUpdate struct {
	Quantity  *decimal.Decimal
	UnitPrice *decimal.Decimal
	Notes     *string
}

// UpdateProcessing changes a job's quantity, price or notes, recomputes
// its total cost and refreshes the owning order atomically.
func (r *Registry) UpdateProcessing(id string, update ProcessingUpdate) (*model.OutsourcedProcessing, error) {
	job, err := r.store.GetProcessing(id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &model.NotFoundError{Entity: "processing", ID: id}
	}

	if update.Quantity != nil {
		if update.Quantity.IsNegative() {
			return nil, &model.ValidationError{Field: "quantity", Message: "must not be negative"}
		}
		job.Quantity = *update.Quantity
	}
	if update.UnitPrice != nil {
		if update.UnitPrice.IsNegative() {
			return nil, &model.ValidationError{Field: "unit_price", Message: "must not be negative"}
		}
		job.UnitPrice = *update.UnitPrice
	}
	if update.Notes != nil {
		job.Notes = *update.Notes
	}
	job.RecomputeTotal()
	job.UpdatedAt = r.now()

	order, err := r.store.GetOrder(job.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &model.NotFoundError{Entity: "order", ID: job.OrderID}
	}

	if err := r.applyProcessing(job, order); err != nil {
		return nil, err
	}
	return job, nil
}

// GetProcessing fetches one job.
func (r *Registry) GetProcessing(id string) (*model.OutsourcedProcessing, error) {
	job, err := r.store.GetProcessing(id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &model.NotFoundError{Entity: "processing", ID: id}
	}
	return job, nil
}

// QueryProcessing lists jobs matching the filters, newest first.
func (r *Registry) QueryProcessing(filters storage.ProcessingFilters) ([]*model.OutsourcedProcessing, error) {
	return r.store.ListProcessing(filters)
}

// OrderTotalCost sums the total cost of every job linked to an order.
func (r *Registry) OrderTotalCost(orderID string) (decimal.Decimal, error) {
	jobs, err := r.store.ListProcessing(storage.ProcessingFilters{OrderID: orderID})
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, j := range jobs {
		total = total.Add(j.TotalCost)
	}
	return total, nil
}

// applyProcessing re-derives the owning order's outsourced cost from
// the full job collection (with the incoming job replacing its stored
// version) and commits job and order together. Keeping the derivation
// here means the two records cannot drift apart.
func (r *Registry) applyProcessing(job *model.OutsourcedProcessing, order *model.ProcessingOrder) error {
	jobs, err := r.store.ListProcessing(storage.ProcessingFilters{OrderID: order.ID})
	if err != nil {
		return err
	}

	total := job.TotalCost
	for _, j := range jobs {
		if j.ID == job.ID {
			continue
		}
		total = total.Add(j.TotalCost)
	}
	order.OutsourcedCost = total
	order.UpdatedAt = r.now()

	return r.store.ApplyProcessingChange(job, order)
}

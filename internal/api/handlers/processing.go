package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftbooks/settlement-backend/internal/api/dto"
	"github.com/craftbooks/settlement-backend/internal/application/registry"
	"github.com/craftbooks/settlement-backend/internal/domain/model"
	"github.com/craftbooks/settlement-backend/internal/infrastructure/storage"
)

// ProcessingHandler serves outsourced processing endpoints.
type ProcessingHandler struct {
	registry *registry.Registry
}

// NewProcessingHandler creates a processing handler.
func NewProcessingHandler(reg *registry.Registry) *ProcessingHandler {
	return &ProcessingHandler{registry: reg}
}

// Create handles POST /api/processing.
func (h *ProcessingHandler) Create(c *gin.Context) {
	var req dto.CreateProcessingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}
	processDate, err := dto.ParseDate(req.ProcessDate)
	if err != nil {
		abortBadRequest(c, "process_date must be YYYY-MM-DD")
		return
	}

	job, err := h.registry.CreateProcessing(registry.ProcessingInput{
		OrderID:     req.OrderID,
		SupplierID:  req.SupplierID,
		ProcessType: model.ProcessType(req.ProcessType),
		ProcessDate: processDate,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Notes:       req.Notes,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// Get handles GET /api/processing/:id.
func (h *ProcessingHandler) Get(c *gin.Context) {
	job, err := h.registry.GetProcessing(c.Param("id"))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// List handles GET /api/processing.
func (h *ProcessingHandler) List(c *gin.Context) {
	from, err := dto.ParseDate(c.Query("from"))
	if err != nil {
		abortBadRequest(c, "from must be YYYY-MM-DD")
		return
	}
	to, err := dto.ParseDate(c.Query("to"))
	if err != nil {
		abortBadRequest(c, "to must be YYYY-MM-DD")
		return
	}

	jobs, err := h.registry.QueryProcessing(storage.ProcessingFilters{
		OrderID:    c.Query("order_id"),
		SupplierID: c.Query("supplier_id"),
		From:       from,
		To:         to,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// Update handles PATCH /api/processing/:id.
func (h *ProcessingHandler) Update(c *gin.Context) {
	var req dto.UpdateProcessingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	job, err := h.registry.UpdateProcessing(c.Param("id"), registry.ProcessingUpdate{
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Notes:     req.Notes,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// OrderCost handles GET /api/orders/:id/processing-cost.
func (h *ProcessingHandler) OrderCost(c *gin.Context) {
	id := c.Param("id")
	total, err := h.registry.OrderTotalCost(id)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{ID: id, Amount: total})
}

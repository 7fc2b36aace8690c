package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftbooks/settlement-backend/internal/api/dto"
	"github.com/craftbooks/settlement-backend/internal/application/registry"
	"github.com/craftbooks/settlement-backend/internal/domain/model"
	"github.com/craftbooks/settlement-backend/internal/infrastructure/storage"
)

// OrdersHandler serves processing order endpoints.
type OrdersHandler struct {
	registry *registry.Registry
}

// NewOrdersHandler creates an orders handler.
func NewOrdersHandler(reg *registry.Registry) *OrdersHandler {
	return &OrdersHandler{registry: reg}
}

// Create handles POST /api/orders.
func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}
	orderDate, err := dto.ParseDate(req.OrderDate)
	if err != nil {
		abortBadRequest(c, "order_date must be YYYY-MM-DD")
		return
	}

	order, err := h.registry.CreateOrder(registry.OrderInput{
		OrderNumber: req.OrderNumber,
		CustomerID:  req.CustomerID,
		OrderDate:   orderDate,
		ProductName: req.ProductName,
		PricingUnit: model.PricingUnit(req.PricingUnit),
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Notes:       req.Notes,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Get handles GET /api/orders/:id.
func (h *OrdersHandler) Get(c *gin.Context) {
	order, err := h.registry.GetOrder(c.Param("id"))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// List handles GET /api/orders.
func (h *OrdersHandler) List(c *gin.Context) {
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

	orders, err := h.registry.Query(storage.OrderFilters{
		CustomerID:  c.Query("customer_id"),
		Status:      model.OrderStatus(c.Query("status")),
		PricingUnit: model.PricingUnit(c.Query("pricing_unit")),
		From:        from,
		To:          to,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateStatus handles PATCH /api/orders/:id/status.
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	order, err := h.registry.UpdateStatus(c.Param("id"), model.OrderStatus(req.Status))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateReceived handles PATCH /api/orders/:id/received.
func (h *OrdersHandler) UpdateReceived(c *gin.Context) {
	var req dto.UpdateAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	order, err := h.registry.UpdateReceivedAmount(c.Param("id"), req.Amount, model.UpdateMode(req.Mode))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateCost handles PATCH /api/orders/:id/cost.
func (h *OrdersHandler) UpdateCost(c *gin.Context) {
	var req dto.UpdateAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	order, err := h.registry.UpdateOutsourcedCost(c.Param("id"), req.Amount, model.UpdateMode(req.Mode))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Balance handles GET /api/orders/:id/balance.
func (h *OrdersHandler) Balance(c *gin.Context) {
	id := c.Param("id")
	balance, err := h.registry.GetBalance(id)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{ID: id, Amount: balance})
}

// Profit handles GET /api/orders/:id/profit.
func (h *OrdersHandler) Profit(c *gin.Context) {
	id := c.Param("id")
	profit, err := h.registry.GetProfit(id)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{ID: id, Amount: profit})
}

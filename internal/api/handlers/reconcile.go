package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftbooks/settlement-backend/internal/api/dto"
	"github.com/craftbooks/settlement-backend/internal/application/service"
)

// ReconcileHandler serves reconciliation endpoints.
type ReconcileHandler struct {
	service *service.ReconcileService
}

// NewReconcileHandler creates a reconcile handler.
func NewReconcileHandler(svc *service.ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{service: svc}
}

// Run handles POST /api/reconcile.
func (h *ReconcileHandler) Run(c *gin.Context) {
	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}
	from, err := dto.ParseDate(req.From)
	if err != nil {
		abortBadRequest(c, "from must be YYYY-MM-DD")
		return
	}
	to, err := dto.ParseDate(req.To)
	if err != nil {
		abortBadRequest(c, "to must be YYYY-MM-DD")
		return
	}

	result, err := h.service.Run(service.ReconcileOptions{
		BankAccountID: req.BankAccountID,
		From:          from,
		To:            to,
		Apply:         req.Apply,
		CreatedBy:     req.CreatedBy,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReconcileResponse(result, req.Apply))
}

// History handles GET /api/reconcile/history.
func (h *ReconcileHandler) History(c *gin.Context) {
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

	matches, err := h.service.History(from, to)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

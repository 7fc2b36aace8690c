package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftbooks/settlement-backend/internal/api/dto"
	"github.com/craftbooks/settlement-backend/internal/application/allocation"
	"github.com/craftbooks/settlement-backend/internal/domain/model"
)

// PaymentsHandler serves payment and allocation endpoints.
type PaymentsHandler struct {
	manager *allocation.Manager
}

// NewPaymentsHandler creates a payments handler.
func NewPaymentsHandler(manager *allocation.Manager) *PaymentsHandler {
	return &PaymentsHandler{manager: manager}
}

func toAllocationRequests(in []dto.AllocationRequest) []allocation.Request {
	out := make([]allocation.Request, 0, len(in))
	for _, r := range in {
		out = append(out, allocation.Request{ObligationID: r.ObligationID, Amount: r.Amount})
	}
	return out
}

// Record handles POST /api/payments.
func (h *PaymentsHandler) Record(c *gin.Context) {
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}
	day, err := dto.ParseDate(req.Date)
	if err != nil {
		abortBadRequest(c, "date must be YYYY-MM-DD")
		return
	}

	payment := &model.TransactionRecord{
		Date:           day,
		Type:           model.EntryType(req.Type),
		Amount:         req.Amount,
		CounterpartyID: req.CounterpartyID,
		Description:    req.Description,
		Category:       req.Category,
		Status:         model.EntryCompleted,
		BankAccountID:  req.BankAccountID,
	}

	result, err := h.manager.RecordPayment(payment, toAllocationRequests(req.Allocations))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.PaymentResponse{
		Payment:     result.Payment,
		Allocations: result.Allocations,
		Warnings:    result.Warnings,
	})
}

// Allocate handles POST /api/payments/:id/allocations.
func (h *PaymentsHandler) Allocate(c *gin.Context) {
	var req dto.AllocatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	result, err := h.manager.AllocatePayment(c.Param("id"), toAllocationRequests(req.Allocations))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PaymentResponse{
		Payment:     result.Payment,
		Allocations: result.Allocations,
		Warnings:    result.Warnings,
	})
}

// ListAllocations handles GET /api/payments/:id/allocations.
func (h *PaymentsHandler) ListAllocations(c *gin.Context) {
	allocations, err := h.manager.GetPaymentObligations(c.Param("id"))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, allocations)
}

// Unallocated handles GET /api/payments/:id/unallocated.
func (h *PaymentsHandler) Unallocated(c *gin.Context) {
	id := c.Param("id")
	amount, err := h.manager.GetUnallocatedAmount(id)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{ID: id, Amount: amount})
}

// ListUnallocated handles GET /api/payments/unallocated?type=income.
func (h *PaymentsHandler) ListUnallocated(c *gin.Context) {
	entryType, err := model.ParseEntryType(c.DefaultQuery("type", string(model.EntryIncome)))
	if err != nil {
		abortDomainError(c, err)
		return
	}

	payments, err := h.manager.GetUnallocatedPayments(entryType)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	resp := make([]dto.UnallocatedPaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, dto.UnallocatedPaymentResponse{
			Payment:     p.Payment,
			Unallocated: p.Unallocated,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// ObligationPayments handles GET /api/obligations/:id/payments.
func (h *PaymentsHandler) ObligationPayments(c *gin.Context) {
	payments, err := h.manager.GetObligationPayments(c.Param("id"))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// ObligationReceived handles GET /api/obligations/:id/received.
func (h *PaymentsHandler) ObligationReceived(c *gin.Context) {
	id := c.Param("id")
	total, err := h.manager.GetObligationTotalReceived(id)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{ID: id, Amount: total})
}

// Suggest handles GET /api/allocations/suggest. The proposals are
// never applied here; the caller confirms them through Allocate.
func (h *PaymentsHandler) Suggest(c *gin.Context) {
	counterpartyID := c.Query("counterparty_id")
	if counterpartyID == "" {
		abortBadRequest(c, "counterparty_id is required")
		return
	}
	entryType, err := model.ParseEntryType(c.DefaultQuery("type", string(model.EntryIncome)))
	if err != nil {
		abortDomainError(c, err)
		return
	}

	proposals, err := h.manager.SuggestFIFO(counterpartyID, entryType)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	resp := make([]dto.SuggestionResponse, 0, len(proposals))
	for _, p := range proposals {
		resp = append(resp, dto.SuggestionResponse{
			PaymentID:    p.PaymentID,
			ObligationID: p.ObligationID,
			Amount:       p.Amount,
		})
	}
	c.JSON(http.StatusOK, resp)
}

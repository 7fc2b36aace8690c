package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftbooks/settlement-backend/internal/api/dto"
	"github.com/craftbooks/settlement-backend/internal/application/registry"
)

// StatsHandler serves order statistics.
type StatsHandler struct {
	registry *registry.Registry
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(reg *registry.Registry) *StatsHandler {
	return &StatsHandler{registry: reg}
}

// Get handles GET /api/stats.
func (h *StatsHandler) Get(c *gin.Context) {
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

	stats, err := h.registry.Statistics(from, to)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

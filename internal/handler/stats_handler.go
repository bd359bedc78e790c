package handler

import (
	"github.com/gin-gonic/gin"

	"dockpass/internal/service"
)

// StatsHandler serves the floor dashboard counts.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Dashboard handles GET /api/v1/stats/dashboard
func (h *StatsHandler) Dashboard(c *gin.Context) {
	counts, err := h.statsService.Dashboard(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, counts)
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"nomur/internal/domain/stats"
)

// StatsHandler serves the company-wide sales dashboard.
type StatsHandler struct {
	*BaseHandler
	stats *stats.Service
}

// NewStatsHandler creates a new statistics handler.
func NewStatsHandler(base *BaseHandler, statsService *stats.Service) *StatsHandler {
	return &StatsHandler{BaseHandler: base, stats: statsService}
}

// Global handles GET /api/statistics.
func (h *StatsHandler) Global(c *gin.Context) {
	global, err := h.stats.Global(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, global)
}

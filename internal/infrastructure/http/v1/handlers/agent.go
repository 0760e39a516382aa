package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"nomur/internal/core/apperror"
	"nomur/internal/domain/agent"
	"nomur/internal/domain/gift"
	"nomur/internal/domain/promotion"
	"nomur/internal/domain/stats"
	"nomur/internal/domain/supplement"
	"nomur/internal/infrastructure/http/v1/dto"
)

// AgentHandler serves the distributor directory and the per-agent views
// hanging off it: promotion progress, gift summary, statistics and
// supplement sales.
type AgentHandler struct {
	*BaseHandler
	agents      *agent.Service
	promotions  *promotion.Service
	gifts       *gift.Service
	stats       *stats.Service
	supplements *supplement.Service
}

// NewAgentHandler creates a new agent handler.
func NewAgentHandler(
	base *BaseHandler,
	agents *agent.Service,
	promotions *promotion.Service,
	gifts *gift.Service,
	statsService *stats.Service,
	supplements *supplement.Service,
) *AgentHandler {
	return &AgentHandler{
		BaseHandler: base,
		agents:      agents,
		promotions:  promotions,
		gifts:       gifts,
		stats:       statsService,
		supplements: supplements,
	}
}

// List handles GET /api/agents.
func (h *AgentHandler) List(c *gin.Context) {
	agents, err := h.agents.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, agents)
}

// Get handles GET /api/agents/:id.
func (h *AgentHandler) Get(c *gin.Context) {
	a, err := h.agents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, a)
}

// Create handles POST /api/agents.
func (h *AgentHandler) Create(c *gin.Context) {
	var a agent.Agent
	if !h.BindJSON(c, &a) {
		return
	}

	created, err := h.agents.Create(c.Request.Context(), &a)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, created)
}

// Update handles PUT /api/agents/:id.
func (h *AgentHandler) Update(c *gin.Context) {
	var a agent.Agent
	if !h.BindJSON(c, &a) {
		return
	}
	a.ID = c.Param("id")

	updated, err := h.agents.Update(c.Request.Context(), &a)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Sort handles PUT /api/agents/sort.
func (h *AgentHandler) Sort(c *gin.Context) {
	var req struct {
		Agents []agent.SortEntry `json:"agents"`
	}
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.agents.UpdateSortOrder(c.Request.Context(), req.Agents); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "sorted")
}

// Delete handles DELETE /api/agents/:id.
func (h *AgentHandler) Delete(c *gin.Context) {
	if err := h.agents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "deleted")
}

// PromotionProgress handles GET /api/agents/:id/promotions/progress.
func (h *AgentHandler) PromotionProgress(c *gin.Context) {
	progress, err := h.promotions.ProgressForAgent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, progress)
}

// GiftSummary handles GET /api/agents/:id/gifts.
func (h *AgentHandler) GiftSummary(c *gin.Context) {
	summary, err := h.gifts.AgentSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}

// RedistributeGifts handles PUT /api/agents/:id/gifts.
func (h *AgentHandler) RedistributeGifts(c *gin.Context) {
	var req dto.GiftRedistributeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.gifts.RedistributeForAgent(c.Request.Context(), c.Param("id"), req.Gifts); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "updated")
}

// Statistics handles GET /api/agents/:id/statistics.
func (h *AgentHandler) Statistics(c *gin.Context) {
	result, err := h.stats.ForAgent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// CreateSupplementSale handles POST /api/agents/:id/supplement-sales.
func (h *AgentHandler) CreateSupplementSale(c *gin.Context) {
	var req dto.SupplementSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale := supplement.Sale{
		AgentID:     c.Param("id"),
		ProductType: req.ProductType,
		Quantity:    req.Quantity,
		Remark:      req.Remark,
	}
	if req.SaleDate != "" {
		parsed, err := time.Parse("2006-01-02", req.SaleDate)
		if err != nil {
			h.Error(c, apperror.NewValidation("saleDate must be YYYY-MM-DD"))
			return
		}
		sale.SaleDate = parsed
	}

	created, err := h.supplements.Create(c.Request.Context(), &sale)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.IDResponse{ID: created.ID})
}

// ListSupplementSales handles GET /api/agents/:id/supplement-sales.
func (h *AgentHandler) ListSupplementSales(c *gin.Context) {
	sales, err := h.supplements.ListByAgent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sales)
}

// DeleteSupplementSale handles DELETE /api/supplement-sales/:id.
func (h *AgentHandler) DeleteSupplementSale(c *gin.Context) {
	if err := h.supplements.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "deleted")
}

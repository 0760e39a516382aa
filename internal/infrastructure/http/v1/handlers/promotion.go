package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"nomur/internal/core/apperror"
	"nomur/internal/domain/promotion"
	"nomur/internal/infrastructure/http/v1/dto"
)

// PromotionHandler serves promotion rules.
type PromotionHandler struct {
	*BaseHandler
	promotions *promotion.Service
}

// NewPromotionHandler creates a new promotion handler.
func NewPromotionHandler(base *BaseHandler, promotions *promotion.Service) *PromotionHandler {
	return &PromotionHandler{BaseHandler: base, promotions: promotions}
}

// List handles GET /api/promotions.
func (h *PromotionHandler) List(c *gin.Context) {
	promotions, err := h.promotions.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, promotions)
}

// Create handles POST /api/promotions.
func (h *PromotionHandler) Create(c *gin.Context) {
	var p promotion.Promotion
	if !h.BindJSON(c, &p) {
		return
	}

	created, err := h.promotions.Create(c.Request.Context(), &p)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, created)
}

// Update handles PUT /api/promotions/:id. The body is bound twice: once
// into the promotion and once into the ActiveFlag probe, so a missing
// isActive field preserves the stored value instead of clearing it.
func (h *PromotionHandler) Update(c *gin.Context) {
	var p promotion.Promotion
	if err := c.ShouldBindBodyWith(&p, binding.JSON); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return
	}
	var flag dto.ActiveFlag
	if err := c.ShouldBindBodyWith(&flag, binding.JSON); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return
	}
	p.ID = c.Param("id")

	updated, err := h.promotions.Update(c.Request.Context(), &p, flag.IsActive != nil)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete handles DELETE /api/promotions/:id.
func (h *PromotionHandler) Delete(c *gin.Context) {
	if err := h.promotions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "promotion deleted")
}

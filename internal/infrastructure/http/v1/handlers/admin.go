package handlers

import (
	"github.com/gin-gonic/gin"

	"nomur/internal/domain/admin"
	"nomur/internal/infrastructure/http/v1/dto"
)

// AdminHandler serves the admin directory and the phone sign-in check.
type AdminHandler struct {
	*BaseHandler
	admins *admin.Service
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(base *BaseHandler, admins *admin.Service) *AdminHandler {
	return &AdminHandler{BaseHandler: base, admins: admins}
}

// List handles GET /api/admins.
func (h *AdminHandler) List(c *gin.Context) {
	admins, err := h.admins.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, admins)
}

// Create handles POST /api/admins.
func (h *AdminHandler) Create(c *gin.Context) {
	var a admin.Admin
	if !h.BindJSON(c, &a) {
		return
	}

	created, err := h.admins.Create(c.Request.Context(), &a)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, created)
}

// Delete handles DELETE /api/admins/:id.
func (h *AdminHandler) Delete(c *gin.Context) {
	if err := h.admins.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "admin deleted")
}

// Verify handles POST /api/auth/verify. An unknown phone is a normal
// response with authorized set to false, not an error.
func (h *AdminHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.admins.Verify(c.Request.Context(), req.Phone, req.Role)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

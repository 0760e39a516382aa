package handlers

import (
	"github.com/gin-gonic/gin"

	"nomur/internal/domain/product"
	"nomur/internal/domain/productgroup"
)

// ProductHandler serves the product catalog.
type ProductHandler struct {
	*BaseHandler
	products *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, products *product.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, products: products}
}

// List handles GET /api/products.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, products)
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var p product.Product
	if !h.BindJSON(c, &p) {
		return
	}

	created, err := h.products.Create(c.Request.Context(), &p)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, created)
}

// Update handles PUT /api/products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	var p product.Product
	if !h.BindJSON(c, &p) {
		return
	}
	p.ID = c.Param("id")

	updated, err := h.products.Update(c.Request.Context(), &p)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete handles DELETE /api/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "deleted")
}

// GroupHandler serves product groups.
type GroupHandler struct {
	*BaseHandler
	groups *productgroup.Service
}

// NewGroupHandler creates a new product group handler.
func NewGroupHandler(base *BaseHandler, groups *productgroup.Service) *GroupHandler {
	return &GroupHandler{BaseHandler: base, groups: groups}
}

// List handles GET /api/product-groups.
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, groups)
}

// Create handles POST /api/product-groups.
func (h *GroupHandler) Create(c *gin.Context) {
	var g productgroup.Group
	if !h.BindJSON(c, &g) {
		return
	}

	created, err := h.groups.Create(c.Request.Context(), &g)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, created)
}

// Update handles PUT /api/product-groups/:id.
func (h *GroupHandler) Update(c *gin.Context) {
	var g productgroup.Group
	if !h.BindJSON(c, &g) {
		return
	}
	g.ID = c.Param("id")

	updated, err := h.groups.Update(c.Request.Context(), &g)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete handles DELETE /api/product-groups/:id.
func (h *GroupHandler) Delete(c *gin.Context) {
	if err := h.groups.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "deleted")
}

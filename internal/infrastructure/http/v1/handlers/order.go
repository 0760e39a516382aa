package handlers

import (
	"github.com/gin-gonic/gin"

	"nomur/internal/domain/gift"
	"nomur/internal/domain/order"
	"nomur/internal/infrastructure/http/v1/dto"
)

// OrderHandler serves the order lifecycle plus the gift delivery
// records hanging off each order.
type OrderHandler struct {
	*BaseHandler
	orders *order.Service
	gifts  *gift.Service
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(base *BaseHandler, orders *order.Service, gifts *gift.Service) *OrderHandler {
	return &OrderHandler{BaseHandler: base, orders: orders, gifts: gifts}
}

// List handles GET /api/orders. An optional agentId query narrows the
// listing to one distributor.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), c.Query("agentId"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, orders)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, o)
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var o order.Order
	if !h.BindJSON(c, &o) {
		return
	}

	created, err := h.orders.Create(c.Request.Context(), &o)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, created)
}

// Update handles PUT /api/orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	var o order.Order
	if !h.BindJSON(c, &o) {
		return
	}
	o.ID = c.Param("id")

	updated, err := h.orders.Update(c.Request.Context(), &o)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// UpdateStatus handles PUT /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.StatusUpdateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	updated, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// UpdateGifts handles PUT /api/orders/:id/gifts.
func (h *OrderHandler) UpdateGifts(c *gin.Context) {
	var req dto.OrderGiftUpdateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.gifts.UpdateOrderDelivery(c.Request.Context(), c.Param("id"), req.GiftItems, req.Remark); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "gift delivery updated")
}

// ListDeliveryRecords handles GET /api/orders/:id/gift-delivery-records.
func (h *OrderHandler) ListDeliveryRecords(c *gin.Context) {
	records, err := h.gifts.ListOrderRecords(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, records)
}

// DeleteDeliveryRecord handles
// DELETE /api/orders/:id/gift-delivery-records/:recordId.
func (h *OrderHandler) DeleteDeliveryRecord(c *gin.Context) {
	if err := h.gifts.DeleteRecord(c.Request.Context(), c.Param("id"), c.Param("recordId")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "delivery record deleted")
}

// Delete handles DELETE /api/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "order deleted")
}

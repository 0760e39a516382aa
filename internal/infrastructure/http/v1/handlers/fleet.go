package handlers

import (
	"github.com/gin-gonic/gin"

	"nomur/internal/domain/fleet"
)

// FleetHandler serves drivers and truck types.
type FleetHandler struct {
	*BaseHandler
	fleet *fleet.Service
}

// NewFleetHandler creates a new fleet handler.
func NewFleetHandler(base *BaseHandler, fleetService *fleet.Service) *FleetHandler {
	return &FleetHandler{BaseHandler: base, fleet: fleetService}
}

// ListDrivers handles GET /api/drivers.
func (h *FleetHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.fleet.ListDrivers(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, drivers)
}

// CreateDriver handles POST /api/drivers.
func (h *FleetHandler) CreateDriver(c *gin.Context) {
	var d fleet.Driver
	if !h.BindJSON(c, &d) {
		return
	}

	created, err := h.fleet.CreateDriver(c.Request.Context(), &d)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, created)
}

// ListTruckTypes handles GET /api/truck-types.
func (h *FleetHandler) ListTruckTypes(c *gin.Context) {
	truckTypes, err := h.fleet.ListTruckTypes(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, truckTypes)
}

// CreateTruckType handles POST /api/truck-types.
func (h *FleetHandler) CreateTruckType(c *gin.Context) {
	var t fleet.TruckType
	if !h.BindJSON(c, &t) {
		return
	}

	created, err := h.fleet.CreateTruckType(c.Request.Context(), &t)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, created)
}

// UpdateTruckType handles PUT /api/truck-types/:id.
func (h *FleetHandler) UpdateTruckType(c *gin.Context) {
	var t fleet.TruckType
	if !h.BindJSON(c, &t) {
		return
	}
	t.ID = c.Param("id")

	updated, err := h.fleet.UpdateTruckType(c.Request.Context(), &t)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// DeleteTruckType handles DELETE /api/truck-types/:id.
func (h *FleetHandler) DeleteTruckType(c *gin.Context) {
	if err := h.fleet.DeleteTruckType(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "truck type deleted")
}

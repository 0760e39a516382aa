package handlers

import (
	"github.com/gin-gonic/gin"

	"nomur/internal/domain/payment"
	"nomur/internal/infrastructure/http/v1/dto"
)

// PaymentHandler serves company payment accounts and their
// account-scoped ledger views.
type PaymentHandler struct {
	*BaseHandler
	accounts *payment.Service
}

// NewPaymentHandler creates a new payment account handler.
func NewPaymentHandler(base *BaseHandler, accounts *payment.Service) *PaymentHandler {
	return &PaymentHandler{BaseHandler: base, accounts: accounts}
}

// List handles GET /api/payment-accounts.
func (h *PaymentHandler) List(c *gin.Context) {
	accounts, err := h.accounts.ListActive(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, accounts)
}

// Create handles POST /api/payment-accounts.
func (h *PaymentHandler) Create(c *gin.Context) {
	var a payment.Account
	if !h.BindJSON(c, &a) {
		return
	}

	created, err := h.accounts.Create(c.Request.Context(), &a)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, created)
}

// Update handles PUT /api/payment-accounts/:id.
func (h *PaymentHandler) Update(c *gin.Context) {
	var a payment.Account
	if !h.BindJSON(c, &a) {
		return
	}
	a.ID = c.Param("id")

	if err := h.accounts.Update(c.Request.Context(), &a); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "payment account updated")
}

// Deactivate handles DELETE /api/payment-accounts/:id.
func (h *PaymentHandler) Deactivate(c *gin.Context) {
	if err := h.accounts.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "payment account deactivated")
}

// BalanceDetails handles GET /api/payment-accounts/:id/balance-details.
func (h *PaymentHandler) BalanceDetails(c *gin.Context) {
	details, err := h.accounts.BalanceDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, details)
}

// Recharges handles GET /api/payment-accounts/:id/transactions.
func (h *PaymentHandler) Recharges(c *gin.Context) {
	listing, err := h.accounts.Recharges(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, listing)
}

// Deduct handles POST /api/payment-accounts/:id/deduct.
func (h *PaymentHandler) Deduct(c *gin.Context) {
	var req dto.AccountDeductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tx, err := h.accounts.Deduct(c.Request.Context(), c.Param("id"), req.Amount, req.Reason, req.Remark)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, tx)
}

// SetOpeningBalance handles PUT /api/payment-accounts/:id/balance.
func (h *PaymentHandler) SetOpeningBalance(c *gin.Context) {
	var req dto.AccountBalanceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.accounts.SetOpeningBalance(c.Request.Context(), c.Param("id"), req.Balance); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "opening balance updated")
}

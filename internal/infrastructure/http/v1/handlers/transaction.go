package handlers

import (
	"github.com/gin-gonic/gin"

	"nomur/internal/domain/ledger"
)

// TransactionHandler serves the balance ledger.
type TransactionHandler struct {
	*BaseHandler
	transactions *ledger.Service
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(base *BaseHandler, transactions *ledger.Service) *TransactionHandler {
	return &TransactionHandler{BaseHandler: base, transactions: transactions}
}

// List handles GET /api/transactions. An optional agentId query
// narrows the listing to one distributor.
func (h *TransactionHandler) List(c *gin.Context) {
	transactions, err := h.transactions.List(c.Request.Context(), c.Query("agentId"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, transactions)
}

// Recharge handles POST /api/transactions/recharge.
func (h *TransactionHandler) Recharge(c *gin.Context) {
	var req ledger.RechargeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tx, err := h.transactions.Recharge(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, tx)
}

// Deduct handles POST /api/transactions/deduct.
func (h *TransactionHandler) Deduct(c *gin.Context) {
	var req ledger.DeductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tx, err := h.transactions.Deduct(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, tx)
}

// Transfer handles POST /api/transactions/transfer.
func (h *TransactionHandler) Transfer(c *gin.Context) {
	var req ledger.TransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.transactions.Transfer(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Update handles PUT /api/transactions/:id.
func (h *TransactionHandler) Update(c *gin.Context) {
	var tx ledger.Transaction
	if !h.BindJSON(c, &tx) {
		return
	}
	tx.ID = c.Param("id")

	if err := h.transactions.Update(c.Request.Context(), &tx); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "transaction updated")
}

// Delete handles DELETE /api/transactions/:id.
func (h *TransactionHandler) Delete(c *gin.Context) {
	if err := h.transactions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "transaction deleted")
}

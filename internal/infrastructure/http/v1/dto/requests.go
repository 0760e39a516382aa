package dto

import (
	"nomur/internal/core/types"
	"nomur/internal/domain/gift"
)

// VerifyRequest is the phone sign-in check.
type VerifyRequest struct {
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// StatusUpdateRequest moves an order through its lifecycle.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// GiftRedistributeRequest sets delivered totals across an agent's
// order history.
type GiftRedistributeRequest struct {
	Gifts []gift.Target `json:"gifts"`
}

// OrderGiftUpdateRequest edits delivered quantities on one order.
type OrderGiftUpdateRequest struct {
	GiftItems []gift.DeliveryUpdate `json:"giftItems"`
	Remark    string                `json:"remark,omitempty"`
}

// AccountDeductRequest debits a payment account.
type AccountDeductRequest struct {
	Amount types.Money `json:"amount"`
	Reason string      `json:"reason,omitempty"`
	Remark string      `json:"remark,omitempty"`
}

// AccountBalanceRequest sets an account's opening balance.
type AccountBalanceRequest struct {
	Balance types.Money `json:"balance"`
}

// SupplementSaleRequest is one manual sales entry. SaleDate is a bare
// calendar date.
type SupplementSaleRequest struct {
	ProductType string         `json:"productType"`
	Quantity    types.Quantity `json:"quantity"`
	SaleDate    string         `json:"saleDate,omitempty"`
	Remark      string         `json:"remark,omitempty"`
}

// CheckDuplicateRequest asks whether a filename was already used.
type CheckDuplicateRequest struct {
	Filename string `json:"filename"`
}

// ActiveFlag detects whether the client sent isActive at all: a bare
// toggle only flips the flag, and a full update without it preserves
// the stored value.
type ActiveFlag struct {
	IsActive *bool `json:"isActive"`
}

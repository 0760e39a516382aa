// Package ledger provides the transaction log that defines agent
// balances. The log is the source of truth; the balance column on agents
// is a cache updated in the same transaction as every ledger write.
package ledger

import (
	"time"

	"nomur/internal/core/types"
)

// Transaction types.
const (
	TypeRecharge = "recharge"
	TypeDeduct   = "deduct"
)

// Transaction reasons.
const (
	ReasonGift        = "gift"
	ReasonPayment     = "payment"
	ReasonFreight     = "freight"
	ReasonShipping    = "shipping"
	ReasonFine        = "fine"
	ReasonTransferIn  = "transfer_in"
	ReasonTransferOut = "transfer_out"
	ReasonMarketing   = "marketing"
	ReasonWithdraw    = "withdraw"
	ReasonFee         = "fee"
	ReasonOther       = "other"
)

// ValidReason reports whether reason is a known ledger reason.
func ValidReason(reason string) bool {
	switch reason {
	case ReasonGift, ReasonPayment, ReasonFreight, ReasonShipping, ReasonFine,
		ReasonTransferIn, ReasonTransferOut, ReasonMarketing, ReasonWithdraw,
		ReasonFee, ReasonOther:
		return true
	}
	return false
}

// Transaction is one ledger entry. Amount is signed: recharges are
// conventionally positive and deducts negative, but privileged edits may
// flip the sign.
type Transaction struct {
	ID               string         `json:"id"`
	AgentID          string         `json:"agentId,omitempty"`
	PaymentAccountID string         `json:"paymentAccountId,omitempty"`
	Type             string         `json:"type"`
	Reason           string         `json:"reason"`
	Amount           types.Money    `json:"amount"`
	Proof            []string       `json:"proof,omitempty"`
	RelatedOrderID   string         `json:"relatedOrderId,omitempty"`
	RelatedAgentID   string         `json:"relatedAgentId,omitempty"`
	ProductID        string         `json:"productId,omitempty"`
	Quantity         types.Quantity `json:"quantity,omitempty"`
	Remark           string         `json:"remark,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`

	// Display fields filled by list queries.
	AgentName          string             `json:"agentName,omitempty"`
	PaymentAccountName string             `json:"paymentAccountName,omitempty"`
	OrderItems         []OrderItemSummary `json:"orderItems,omitempty"`
}

// OrderItemSummary is one display line of a linked order. Group lines
// are collapsed to a single entry showing the group name and the group
// count.
type OrderItemSummary struct {
	ProductName string         `json:"productName"`
	Quantity    types.Quantity `json:"quantity"`
	GroupID     string         `json:"groupId,omitempty"`
}

// IsAccountScoped reports whether the entry belongs to a payment account
// rather than an agent balance: either it carries no agent at all, or
// its reason is one of the account-only reasons. Account-scoped entries
// never move an agent balance.
func (t *Transaction) IsAccountScoped() bool {
	if t.PaymentAccountID != "" && t.AgentID == "" {
		return true
	}
	switch t.Reason {
	case ReasonWithdraw, ReasonFee, ReasonOther:
		return true
	}
	return false
}

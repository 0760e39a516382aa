// Package gift provides the gift allocation engine: per-agent gift
// summaries, delivered-quantity redistribution across order history and
// the append-only delivery record log.
package gift

import (
	"time"

	"nomur/internal/core/types"
)

// SummaryEntry aggregates one gift key (product or group) over an
// agent's orders.
type SummaryEntry struct {
	ProductID           string         `json:"productId,omitempty"`
	ProductName         string         `json:"productName,omitempty"`
	GroupID             string         `json:"groupId,omitempty"`
	GroupName           string         `json:"groupName,omitempty"`
	ProductIDs          []string       `json:"productIds,omitempty"`
	TotalQuantity       types.Quantity `json:"totalQuantity"`
	DeliveredQuantity   types.Quantity `json:"deliveredQuantity"`
	UndeliveredQuantity types.Quantity `json:"undeliveredQuantity"`
	IsGroup             bool           `json:"isGroup"`
}

// Target is one redistribution request line: set the delivered total for
// a gift key across the whole order history.
type Target struct {
	ProductID         string         `json:"productId,omitempty"`
	GroupID           string         `json:"groupId,omitempty"`
	IsGroup           bool           `json:"isGroup,omitempty"`
	DeliveredQuantity types.Quantity `json:"deliveredQuantity"`
}

// Key returns the aggregation key, empty when the target is malformed.
func (t Target) Key() string {
	if t.IsGroup && t.GroupID != "" {
		return "group:" + t.GroupID
	}
	if t.ProductID != "" {
		return "product:" + t.ProductID
	}
	return ""
}

// DeliveryUpdate is one line of a per-order delivered-quantity update.
// ProductID may actually hold a group id (a known client quirk); the
// matcher falls back to group matching when no product line matches.
type DeliveryUpdate struct {
	ProductID         string         `json:"productId,omitempty"`
	GroupID           string         `json:"groupId,omitempty"`
	ProductName       string         `json:"productName,omitempty"`
	DeliveredQuantity types.Quantity `json:"deliveredQuantity"`
}

// DeliveryRecord is one append-only row per delivered-quantity change.
// Quantity stores the absolute delta.
type DeliveryRecord struct {
	ID              string         `json:"id"`
	OrderID         string         `json:"orderId"`
	AgentID         string         `json:"agentId"`
	ProductID       string         `json:"productId,omitempty"`
	ProductName     string         `json:"productName,omitempty"`
	GroupID         string         `json:"groupId,omitempty"`
	GroupName       string         `json:"groupName,omitempty"`
	Quantity        types.Quantity `json:"quantity"`
	DeliveredBy     string         `json:"deliveredBy,omitempty"`
	DeliveredByName string         `json:"deliveredByName,omitempty"`
	Remark          string         `json:"remark,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}

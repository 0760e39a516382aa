// Package order provides the order ledger: every order mutation moves
// the agent balance and the paired shipping transaction atomically.
package order

import (
	"time"

	"github.com/shopspring/decimal"

	"nomur/internal/core/types"
	"nomur/internal/domain/jsonval"
)

// Order statuses, in lifecycle order.
const (
	StatusPending   = "pending"
	StatusShipped   = "shipped"
	StatusCompleted = "completed"
)

// statusRank orders statuses for monotonicity checks.
func statusRank(status string) int {
	switch status {
	case StatusPending:
		return 0
	case StatusShipped:
		return 1
	case StatusCompleted:
		return 2
	default:
		return -1
	}
}

// Item is one charged order line. Group lines carry the group fields and
// one row per member product (groupQuantity holds the per-group count).
type Item struct {
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName,omitempty"`
	Quantity      types.Quantity  `json:"quantity"`
	Price         types.Money     `json:"price"`
	Weight        decimal.Decimal `json:"weight"`
	GroupID       string          `json:"groupId,omitempty"`
	GroupName     string          `json:"groupName,omitempty"`
	GroupQuantity types.Quantity  `json:"groupQuantity,omitempty"`
}

// GiftItem is one free line attached to an order, keyed by product or
// group, with a promised quantity and a separately tracked delivered
// quantity.
type GiftItem struct {
	ProductID         string         `json:"productId,omitempty"`
	GroupID           string         `json:"groupId,omitempty"`
	IsGroup           bool           `json:"isGroup,omitempty"`
	ProductName       string         `json:"productName,omitempty"`
	GroupName         string         `json:"groupName,omitempty"`
	Quantity          types.Quantity `json:"quantity"`
	DeliveredQuantity types.Quantity `json:"deliveredQuantity"`
}

// Key identifies the gift line for aggregation: "group:<id>" when the
// line is flagged as a group and carries a group id, "product:<id>"
// otherwise. Legacy rows with a groupId but no isGroup flag count as
// product lines.
func (g *GiftItem) Key() string {
	if g.IsGroup && g.GroupID != "" {
		return "group:" + g.GroupID
	}
	return "product:" + g.ProductID
}

// Order is one sales order.
type Order struct {
	ID           string               `json:"id"`
	AgentID      string               `json:"agentId"`
	Items        []Item               `json:"items"`
	TotalWeight  decimal.Decimal      `json:"totalWeight"`
	TotalAmount  types.Money          `json:"totalAmount"`
	DriverPhone  string               `json:"driverPhone,omitempty"`
	PromotionRef jsonval.PromotionRef `json:"promotionId"`
	GiftItems    []GiftItem           `json:"giftItems"`
	Images       []string             `json:"images,omitempty"`
	Remark       string               `json:"remark,omitempty"`
	IsGift       bool                 `json:"isGift,omitempty"`
	Status       string               `json:"status"`
	ShippedAt    *time.Time           `json:"shippedAt,omitempty"`
	CompletedAt  *time.Time           `json:"completedAt,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`

	// Display fields filled by list queries.
	AgentName      string   `json:"agentName,omitempty"`
	PromotionNames []string `json:"promotionNames,omitempty"`
}

// CanTransitionTo reports whether moving to status is a forward step.
func (o *Order) CanTransitionTo(status string) bool {
	from, to := statusRank(o.Status), statusRank(status)
	return to >= 0 && to > from
}

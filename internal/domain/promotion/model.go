// Package promotion provides promotion rules and the progress
// calculator that derives gift entitlements from an agent's order
// history.
package promotion

import (
	"time"

	"nomur/internal/core/types"
)

// Condition types.
const (
	ConditionProduct = "product"
	ConditionGroup   = "group"
)

// Condition is one purchase requirement of the multi-condition format.
type Condition struct {
	Type      string         `json:"type"`
	ProductID string         `json:"productId,omitempty"`
	GroupID   string         `json:"groupId,omitempty"`
	Quantity  types.Quantity `json:"quantity"`
}

// Gift is one reward line, granted per satisfied multiple.
type Gift struct {
	ProductID string         `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
}

// Promotion grants gifts once purchased quantity crosses a threshold.
// New rows carry ConditionDetails; legacy rows carry Threshold (the
// total-quantity trigger) and possibly ConditionProducts/ConditionGroupID.
type Promotion struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	Threshold         types.Quantity `json:"threshold,omitempty"`
	ConditionDetails  []Condition    `json:"conditionDetails"`
	ConditionProducts []string       `json:"conditionProducts,omitempty"`
	ConditionGroupID  string         `json:"conditionGroupId,omitempty"`
	Gifts             []Gift         `json:"gifts"`
	IsActive          bool           `json:"isActive"`
	StartDate         *time.Time     `json:"startDate,omitempty"`
	EndDate           *time.Time     `json:"endDate,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
}

// HasConditionDetails reports whether the promotion uses the
// multi-condition format.
func (p *Promotion) HasConditionDetails() bool {
	return len(p.ConditionDetails) > 0
}

// Progress is the computed state of one promotion for one agent.
type Progress struct {
	PromotionID   string         `json:"promotionId"`
	Purchased     types.Quantity `json:"purchased"`
	GiftsReceived types.Quantity `json:"giftsReceived"`
}

// Package stats provides read-only rollups over orders and transactions.
// Everything here is derived and safe to recompute on every call.
package stats

import (
	"nomur/internal/core/types"
)

// ProductStat is one product's shipped quantity in a window.
type ProductStat struct {
	ProductID   string         `json:"productId"`
	ProductName string         `json:"productName"`
	Quantity    types.Quantity `json:"quantity"`
}

// GlobalStats covers the current calendar year and the trailing 30 days,
// excluding gift-origin orders.
type GlobalStats struct {
	TotalShipments          types.Quantity `json:"totalShipments"`
	Last30DaysShipments     types.Quantity `json:"last30DaysShipments"`
	ProductStats            []ProductStat  `json:"productStats"`
	Last30DaysProductStats  []ProductStat  `json:"last30DaysProductStats"`
}

// TargetStat is the completion of one yearly target.
type TargetStat struct {
	Target       types.Quantity `json:"target"`
	Completed    types.Quantity `json:"completed"`
	Percentage   int            `json:"percentage"`
	IsGroup      bool           `json:"isGroup"`
	Products     []string       `json:"products,omitempty"`
	ProductNames string         `json:"productNames,omitempty"`
	GroupID      string         `json:"groupId,omitempty"`
}

// AgentStats is one agent's yearly target view. Gift quantities are
// reported separately and never count toward completion.
type AgentStats struct {
	YearlyStats        map[string]TargetStat `json:"yearlyStats"`
	TotalGiftsReceived types.Quantity        `json:"totalGiftsReceived"`
}

// Package supplement tracks manually entered sales that count toward an
// agent's yearly targets without touching the balance ledger.
package supplement

import (
	"time"

	"nomur/internal/core/types"
)

// Product types of the legacy entry form.
const (
	TypeProductA = "productA"
	TypeMixed    = "mixed"
)

// Sale is one manual sales entry.
type Sale struct {
	ID          string         `json:"id"`
	AgentID     string         `json:"agentId"`
	ProductType string         `json:"productType"`
	Quantity    types.Quantity `json:"quantity"`
	SaleDate    time.Time      `json:"saleDate"`
	Remark      string         `json:"remark,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

package stats

import (
	"context"
	"time"

	"nomur/internal/core/types"
	"nomur/internal/domain/agent"
	"nomur/internal/domain/order"
	"nomur/internal/domain/supplement"
)

// OrderStore reads order windows for rollups. Gift-origin orders
// (is_gift) are excluded by the queries.
type OrderStore interface {
	// ListYearNonGift returns non-gift orders created in the given year.
	ListYearNonGift(ctx context.Context, year int) ([]*order.Order, error)

	// ListSinceNonGift returns non-gift orders created at or after from.
	ListSinceNonGift(ctx context.Context, from time.Time) ([]*order.Order, error)

	// ListAgentYearNonGift returns one agent's non-gift orders for a year.
	ListAgentYearNonGift(ctx context.Context, agentID string, year int) ([]*order.Order, error)
}

// TransferStore reads outbound transfer quantities: transfer_in entries
// carrying a product id mark stock the agent moved to someone else.
type TransferStore interface {
	TransferredQuantities(ctx context.Context, agentID string, year int) (map[string]types.Quantity, error)
}

// ProductInfo is the id/name pair the rollups need from the catalog.
type ProductInfo struct {
	ID   string
	Name string
}

// CatalogStore resolves product and group display names. Products keeps
// catalog order so zero-quantity entries land where the catalog puts them.
type CatalogStore interface {
	Products(ctx context.Context) ([]ProductInfo, error)
	GroupNames(ctx context.Context) (map[string]string, error)
}

// AgentStore loads agents for per-agent rollups.
type AgentStore interface {
	GetByID(ctx context.Context, id string) (*agent.Agent, error)
}

// SupplementStore reads a year's manual sales entries.
type SupplementStore interface {
	ListByAgentYear(ctx context.Context, agentID string, year int) ([]*supplement.Sale, error)
}

package order

import (
	"context"

	"nomur/internal/core/types"
	"nomur/internal/domain/ledger"
)

// Repository persists orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)

	// GetByIDForUpdate loads the order with a row lock. Edits, status
	// changes and gift updates branch on the locked row.
	GetByIDForUpdate(ctx context.Context, id string) (*Order, error)

	// List returns orders newest first, optionally filtered by agent.
	List(ctx context.Context, agentID string) ([]*Order, error)

	// ListByAgentAsc returns an agent's orders oldest first, the order
	// gift allocation and promotion progress walk them in.
	ListByAgentAsc(ctx context.Context, agentID string) ([]*Order, error)

	Update(ctx context.Context, o *Order) error
	UpdateStatus(ctx context.Context, o *Order) error
	UpdateGiftItems(ctx context.Context, orderID string, items []GiftItem) error
	Delete(ctx context.Context, id string) error
}

// BalanceStore is the slice of the agent repository the order ledger
// needs: row locks and relative balance adjustments.
type BalanceStore interface {
	LockAgent(ctx context.Context, agentID string) error
	AgentExists(ctx context.Context, agentID string) (bool, error)
	AdjustBalance(ctx context.Context, agentID string, delta types.Money) error
}

// TransactionStore is the slice of the ledger repository the order
// ledger needs for the paired shipping transaction.
type TransactionStore interface {
	Insert(ctx context.Context, t *ledger.Transaction) error
	UpdateShippingAmount(ctx context.Context, orderID string, amount types.Money) error
	DeleteByOrder(ctx context.Context, orderID string) error
}

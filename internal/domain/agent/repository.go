package agent

import (
	"context"

	"nomur/internal/core/types"
)

// Repository persists agents.
type Repository interface {
	Create(ctx context.Context, a *Agent) error
	GetByID(ctx context.Context, id string) (*Agent, error)

	// GetByIDForUpdate loads the agent row with a row lock. Must be
	// called inside a transaction; balance mutations branch on the
	// locked row.
	GetByIDForUpdate(ctx context.Context, id string) (*Agent, error)

	GetByPhone(ctx context.Context, phone string) (*Agent, error)

	// List returns agents ordered by sort_order ASC, created_at DESC.
	List(ctx context.Context) ([]*Agent, error)

	Update(ctx context.Context, a *Agent) error
	Delete(ctx context.Context, id string) error

	// AdjustBalance applies a relative balance change
	// (balance = balance + delta).
	AdjustBalance(ctx context.Context, id string, delta types.Money) error

	// MaxSortOrder returns the highest sort_order, 0 when empty.
	MaxSortOrder(ctx context.Context) (int, error)

	UpdateSortOrder(ctx context.Context, id string, sortOrder int) error

	// CountOrders and CountTransactions guard agent deletion.
	CountOrders(ctx context.Context, agentID string) (int64, error)
	CountTransactions(ctx context.Context, agentID string) (int64, error)
}

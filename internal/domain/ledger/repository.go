package ledger

import (
	"context"

	"nomur/internal/core/types"
	"nomur/internal/domain/upload"
)

// Repository persists ledger transactions.
type Repository interface {
	Insert(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, id string) (*Transaction, error)

	// GetByIDForUpdate loads the row with a row lock for edit/delete.
	GetByIDForUpdate(ctx context.Context, id string) (*Transaction, error)

	// List returns transactions newest first with agent and payment
	// account names joined, optionally filtered by agent.
	List(ctx context.Context, agentID string) ([]*Transaction, error)

	Update(ctx context.Context, t *Transaction) error
	Delete(ctx context.Context, id string) error

	// SumByAccount returns the signed amount sum for a payment account.
	SumByAccount(ctx context.Context, accountID string) (types.Money, error)

	// ListByAccount returns an account's transactions newest first.
	ListByAccount(ctx context.Context, accountID string) ([]*Transaction, error)
}

// AgentStore is the slice of the agent repository the ledger needs.
type AgentStore interface {
	LockAgent(ctx context.Context, agentID string) error
	AgentExists(ctx context.Context, agentID string) (bool, error)
	AgentName(ctx context.Context, agentID string) (string, error)
	AdjustBalance(ctx context.Context, agentID string, delta types.Money) error
}

// UploadStore checks recharge proofs for reuse and registers new ones.
type UploadStore interface {
	// FindByFilename returns the original upload record for a filename,
	// or nil when unused.
	FindByFilename(ctx context.Context, filename string) (*upload.Record, error)
	Insert(ctx context.Context, r *upload.Record) error
}

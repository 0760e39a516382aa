package payment

import (
	"context"

	"nomur/internal/core/types"
	"nomur/internal/domain/ledger"
)

// Repository persists payment accounts.
type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	ListActive(ctx context.Context) ([]*Account, error)
	Update(ctx context.Context, a *Account) error
	SetBalance(ctx context.Context, id string, balance types.Money) error
	Deactivate(ctx context.Context, id string) error
	CountTransactions(ctx context.Context, accountID string) (int64, error)
}

// LedgerStore is the slice of the ledger the account views need.
type LedgerStore interface {
	Insert(ctx context.Context, t *ledger.Transaction) error
	SumByAccount(ctx context.Context, accountID string) (types.Money, error)
	ListByAccount(ctx context.Context, accountID string) ([]*ledger.Transaction, error)
}

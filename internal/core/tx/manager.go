// Package tx defines transaction management abstractions.
package tx

import "context"

// Manager abstracts transaction management for the service layer.
// Services depend on this interface, not on a concrete pool.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If a transaction is already active in ctx, fn joins it via a savepoint.
	// The transaction commits when fn returns nil and rolls back otherwise.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager runs read-only transactions (repeatable snapshot reads).
type ReadOnlyManager interface {
	RunReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

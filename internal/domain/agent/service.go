package agent

import (
	"context"
	"fmt"
	"time"

	"nomur/internal/core/apperror"
	"nomur/internal/core/id"
	"nomur/internal/core/tx"
	"nomur/internal/core/types"
	"nomur/pkg/logger"
)

// SortEntry is one row of a batch reorder request.
type SortEntry struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sortOrder"`
}

// Service provides business operations for the agent directory.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new agent service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create inserts a new agent with zero balance and appends it to the end
// of the sort order.
func (s *Service) Create(ctx context.Context, a *Agent) (*Agent, error) {
	if a.Name == "" {
		return nil, apperror.NewValidation("agent name is required")
	}

	if a.ID == "" {
		a.ID = id.New().String()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	a.Balance = types.Zero()
	if a.YearlyTargets == nil {
		a.YearlyTargets = map[string]TargetValue{}
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		maxOrder, err := s.repo.MaxSortOrder(ctx)
		if err != nil {
			return fmt.Errorf("max sort order: %w", err)
		}
		a.SortOrder = maxOrder + 1
		return s.repo.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "agent created", "agent_id", a.ID, "name", a.Name)
	return a, nil
}

// Get returns an agent by id.
func (s *Service) Get(ctx context.Context, agentID string) (*Agent, error) {
	a, err := s.repo.GetByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperror.NewNotFound("agent", agentID)
	}
	return a, nil
}

// List returns agents in display order.
func (s *Service) List(ctx context.Context) ([]*Agent, error) {
	return s.repo.List(ctx)
}

// Update modifies agent profile fields and targets. Balance is never
// patched here; it only moves with ledger writes.
func (s *Service) Update(ctx context.Context, a *Agent) (*Agent, error) {
	existing, err := s.Get(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if a.Name == "" {
		return nil, apperror.NewValidation("agent name is required")
	}

	a.Balance = existing.Balance
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now().UTC()
	if a.SortOrder == 0 {
		a.SortOrder = existing.SortOrder
	}
	if a.YearlyTargets == nil {
		a.YearlyTargets = existing.YearlyTargets
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update agent: %w", err)
	}

	logger.Info(ctx, "agent updated", "agent_id", a.ID)
	return a, nil
}

// UpdateSortOrder applies a batch reorder in one transaction.
func (s *Service) UpdateSortOrder(ctx context.Context, entries []SortEntry) error {
	if len(entries) == 0 {
		return apperror.NewValidation("sort entries are required")
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, e := range entries {
			if e.ID == "" {
				return apperror.NewValidation("sort entry missing agent id")
			}
			if err := s.repo.UpdateSortOrder(ctx, e.ID, e.SortOrder); err != nil {
				return fmt.Errorf("update sort order for %s: %w", e.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "agents reordered", "count", len(entries))
	return nil
}

// Delete removes an agent. Refused while orders or transactions exist.
func (s *Service) Delete(ctx context.Context, agentID string) error {
	if _, err := s.Get(ctx, agentID); err != nil {
		return err
	}

	orders, err := s.repo.CountOrders(ctx, agentID)
	if err != nil {
		return fmt.Errorf("count orders: %w", err)
	}
	if orders > 0 {
		return apperror.NewReferenced("agent has orders and cannot be deleted")
	}

	transactions, err := s.repo.CountTransactions(ctx, agentID)
	if err != nil {
		return fmt.Errorf("count transactions: %w", err)
	}
	if transactions > 0 {
		return apperror.NewReferenced("agent has transactions and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, agentID); err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}

	logger.Info(ctx, "agent deleted", "agent_id", agentID)
	return nil
}

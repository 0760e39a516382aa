package order

import (
	"context"
	"fmt"
	"time"

	"nomur/internal/core/apperror"
	"nomur/internal/core/id"
	"nomur/internal/core/tx"
	"nomur/internal/core/types"
	"nomur/internal/domain/audit"
	"nomur/internal/domain/ledger"
	"nomur/pkg/logger"
)

// Service is the order ledger. Every mutation keeps the order row, the
// agent balance and the paired shipping transaction consistent within
// one database transaction.
type Service struct {
	repo         Repository
	balances     BalanceStore
	transactions TransactionStore
	trail        audit.Trail
	txManager    tx.Manager
}

// NewService creates a new order service.
func NewService(
	repo Repository,
	balances BalanceStore,
	transactions TransactionStore,
	trail audit.Trail,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:         repo,
		balances:     balances,
		transactions: transactions,
		trail:        trail,
		txManager:    txManager,
	}
}

// Create inserts the order, debits the agent balance by totalAmount and
// writes the paired shipping transaction. All three writes are one
// transaction.
func (s *Service) Create(ctx context.Context, o *Order) (*Order, error) {
	if o.AgentID == "" {
		return nil, apperror.NewValidation("agent id is required")
	}
	if len(o.Items) == 0 {
		return nil, apperror.NewValidation("order must contain at least one item")
	}

	if o.ID == "" {
		o.ID = id.New().String()
	}
	o.Status = StatusPending
	o.CreatedAt = time.Now().UTC()
	o.ShippedAt = nil
	o.CompletedAt = nil
	if o.GiftItems == nil {
		o.GiftItems = []GiftItem{}
	}
	if o.Images == nil {
		o.Images = []string{}
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.balances.LockAgent(ctx, o.AgentID); err != nil {
			return err
		}

		if err := s.repo.Create(ctx, o); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		if err := s.balances.AdjustBalance(ctx, o.AgentID, o.TotalAmount.Neg()); err != nil {
			return fmt.Errorf("debit balance: %w", err)
		}

		shipping := &ledger.Transaction{
			ID:             id.New().String(),
			AgentID:        o.AgentID,
			Type:           ledger.TypeDeduct,
			Reason:         ledger.ReasonShipping,
			Amount:         o.TotalAmount.Neg(),
			RelatedOrderID: o.ID,
			CreatedAt:      o.CreatedAt,
		}
		if err := s.transactions.Insert(ctx, shipping); err != nil {
			return fmt.Errorf("insert shipping transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order created",
		"order_id", o.ID,
		"agent_id", o.AgentID,
		"total_amount", o.TotalAmount,
	)
	return o, nil
}

// Get returns an order by id.
func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.NewNotFound("order", orderID)
	}
	return o, nil
}

// List returns orders newest first, optionally filtered by agent.
func (s *Service) List(ctx context.Context, agentID string) ([]*Order, error) {
	return s.repo.List(ctx, agentID)
}

// Update applies a privileged edit. The balance moves by the negated
// amount difference and the linked shipping transaction is re-pointed at
// the new total.
func (s *Service) Update(ctx context.Context, o *Order) (*Order, error) {
	if len(o.Items) == 0 {
		return nil, apperror.NewValidation("order must contain at least one item")
	}

	var updated *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByIDForUpdate(ctx, o.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperror.NewNotFound("order", o.ID)
		}

		if err := s.balances.LockAgent(ctx, existing.AgentID); err != nil {
			return err
		}

		amountDiff := o.TotalAmount.Sub(existing.TotalAmount)
		if !amountDiff.IsZero() {
			if err := s.balances.AdjustBalance(ctx, existing.AgentID, amountDiff.Neg()); err != nil {
				return fmt.Errorf("adjust balance: %w", err)
			}
			if err := s.transactions.UpdateShippingAmount(ctx, o.ID, o.TotalAmount.Neg()); err != nil {
				return fmt.Errorf("update shipping transaction: %w", err)
			}
		}

		// Immutable bookkeeping fields.
		o.AgentID = existing.AgentID
		o.Status = existing.Status
		o.ShippedAt = existing.ShippedAt
		o.CompletedAt = existing.CompletedAt
		o.CreatedAt = existing.CreatedAt
		if o.GiftItems == nil {
			o.GiftItems = existing.GiftItems
		}
		if o.Images == nil {
			o.Images = existing.Images
		}

		if err := s.repo.Update(ctx, o); err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		if err := s.trail.LogChange(ctx, "order", o.ID, audit.ActionUpdate, map[string]any{
			"totalAmount": map[string]any{"old": existing.TotalAmount, "new": o.TotalAmount},
		}); err != nil {
			return fmt.Errorf("audit order update: %w", err)
		}

		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order updated", "order_id", o.ID, "total_amount", o.TotalAmount)
	return updated, nil
}

// UpdateStatus moves the order forward through
// pending -> shipped -> completed. Timestamps are stamped once;
// completing an order that never shipped also stamps shipped_at.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) (*Order, error) {
	if statusRank(status) < 0 {
		return nil, apperror.NewValidation("invalid order status: " + status)
	}

	var result *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		o, err := s.repo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperror.NewNotFound("order", orderID)
		}

		if !o.CanTransitionTo(status) {
			return apperror.NewValidation(
				fmt.Sprintf("cannot change order status from %s to %s", o.Status, status))
		}

		now := time.Now().UTC()
		o.Status = status
		switch status {
		case StatusShipped:
			if o.ShippedAt == nil {
				o.ShippedAt = &now
			}
		case StatusCompleted:
			if o.ShippedAt == nil {
				o.ShippedAt = &now
			}
			if o.CompletedAt == nil {
				o.CompletedAt = &now
			}
		}

		if err := s.repo.UpdateStatus(ctx, o); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order status changed", "order_id", orderID, "status", status)
	return result, nil
}

// Delete removes the order and its linked transactions. The charge is
// refunded only when the order reached shipped or completed.
func (s *Service) Delete(ctx context.Context, orderID string) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		o, err := s.repo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperror.NewNotFound("order", orderID)
		}

		if err := s.balances.LockAgent(ctx, o.AgentID); err != nil {
			return err
		}

		refunded := types.Zero()
		if o.Status == StatusShipped || o.Status == StatusCompleted {
			refunded = o.TotalAmount
			if err := s.balances.AdjustBalance(ctx, o.AgentID, refunded); err != nil {
				return fmt.Errorf("refund balance: %w", err)
			}
		}

		if err := s.transactions.DeleteByOrder(ctx, orderID); err != nil {
			return fmt.Errorf("delete linked transactions: %w", err)
		}
		if err := s.repo.Delete(ctx, orderID); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}

		return s.trail.LogChange(ctx, "order", orderID, audit.ActionDelete, map[string]any{
			"agentId":     o.AgentID,
			"totalAmount": o.TotalAmount,
			"status":      o.Status,
			"refunded":    refunded,
		})
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "order deleted", "order_id", orderID)
	return nil
}

package promotion

import (
	"context"
	"fmt"
	"time"

	"nomur/internal/core/apperror"
	"nomur/internal/core/id"
	"nomur/internal/core/tx"
	"nomur/pkg/logger"
)

// Service provides business operations for promotions.
type Service struct {
	repo      Repository
	orders    OrderStore
	groups    GroupStore
	agents    AgentStore
	txManager tx.Manager
}

// NewService creates a new promotion service.
func NewService(repo Repository, orders OrderStore, groups GroupStore, agents AgentStore, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		orders:    orders,
		groups:    groups,
		agents:    agents,
		txManager: txManager,
	}
}

// Create validates and inserts a promotion.
func (s *Service) Create(ctx context.Context, p *Promotion) (*Promotion, error) {
	if p.Name == "" {
		return nil, apperror.NewValidation("promotion name is required")
	}
	if !p.HasConditionDetails() && !p.Threshold.IsPositive() {
		return nil, apperror.NewValidation("promotion needs condition details or a positive threshold")
	}
	if len(p.Gifts) == 0 {
		return nil, apperror.NewValidation("promotion must grant at least one gift")
	}

	if p.ID == "" {
		p.ID = id.New().String()
	}
	p.CreatedAt = time.Now().UTC()
	if p.ConditionDetails == nil {
		p.ConditionDetails = []Condition{}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create promotion: %w", err)
	}

	logger.Info(ctx, "promotion created", "promotion_id", p.ID, "name", p.Name)
	return p, nil
}

// Get returns a promotion by id.
func (s *Service) Get(ctx context.Context, promotionID string) (*Promotion, error) {
	p, err := s.repo.GetByID(ctx, promotionID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NewNotFound("promotion", promotionID)
	}
	return p, nil
}

// List returns all promotions.
func (s *Service) List(ctx context.Context) ([]*Promotion, error) {
	return s.repo.List(ctx)
}

// SetActive toggles a promotion's active flag without touching other
// fields.
func (s *Service) SetActive(ctx context.Context, promotionID string, active bool) error {
	if _, err := s.Get(ctx, promotionID); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, promotionID, active); err != nil {
		return fmt.Errorf("set promotion active: %w", err)
	}
	logger.Info(ctx, "promotion toggled", "promotion_id", promotionID, "active", active)
	return nil
}

// Update replaces a promotion's rule fields. An omitted active flag
// keeps the stored value.
func (s *Service) Update(ctx context.Context, p *Promotion, isActiveSet bool) (*Promotion, error) {
	existing, err := s.Get(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, apperror.NewValidation("promotion name is required")
	}

	p.CreatedAt = existing.CreatedAt
	if !isActiveSet {
		p.IsActive = existing.IsActive
	}
	if p.ConditionDetails == nil {
		p.ConditionDetails = existing.ConditionDetails
	}
	if p.Gifts == nil {
		p.Gifts = existing.Gifts
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update promotion: %w", err)
	}

	logger.Info(ctx, "promotion updated", "promotion_id", p.ID)
	return p, nil
}

// Delete removes a promotion and strips its id from every referencing
// order (scalar refs become NULL, arrays are filtered, emptied arrays
// become NULL). Orders are never deleted.
func (s *Service) Delete(ctx context.Context, promotionID string) error {
	if _, err := s.Get(ctx, promotionID); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		referencing, err := s.orders.ListReferencing(ctx, promotionID)
		if err != nil {
			return fmt.Errorf("list referencing orders: %w", err)
		}

		for _, o := range referencing {
			stripped := o.PromotionRef.Without(promotionID)
			if err := s.orders.UpdatePromotionRef(ctx, o.ID, stripped); err != nil {
				return fmt.Errorf("strip promotion from order %s: %w", o.ID, err)
			}
		}

		if err := s.repo.Delete(ctx, promotionID); err != nil {
			return fmt.Errorf("delete promotion: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "promotion deleted", "promotion_id", promotionID)
	return nil
}

// ProgressForAgent computes promotion progress over the agent's order
// history.
func (s *Service) ProgressForAgent(ctx context.Context, agentID string) ([]Progress, error) {
	exists, err := s.agents.AgentExists(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NewNotFound("agent", agentID)
	}

	orders, err := s.orders.ListByAgentAsc(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	promotions, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load promotions: %w", err)
	}

	groups, err := s.groups.MemberIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load group members: %w", err)
	}

	return CalculateProgress(orders, promotions, groups), nil
}

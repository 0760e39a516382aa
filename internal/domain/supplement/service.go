package supplement

import (
	"context"
	"fmt"
	"time"

	"nomur/internal/core/apperror"
	"nomur/internal/core/id"
	"nomur/pkg/logger"
)

// Service provides supplement sale operations.
type Service struct {
	repo   Repository
	agents AgentStore
}

// NewService creates a new supplement sales service.
func NewService(repo Repository, agents AgentStore) *Service {
	return &Service{repo: repo, agents: agents}
}

// Create records a manual sale. Sale date defaults to today.
func (s *Service) Create(ctx context.Context, sale *Sale) (*Sale, error) {
	if sale.ProductType != TypeProductA && sale.ProductType != TypeMixed {
		return nil, apperror.NewValidation("product type must be productA or mixed")
	}
	if !sale.Quantity.IsPositive() {
		return nil, apperror.NewValidation("quantity must be positive")
	}

	exists, err := s.agents.AgentExists(ctx, sale.AgentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NewNotFound("agent", sale.AgentID)
	}

	if sale.ID == "" {
		sale.ID = id.New().String()
	}
	now := time.Now().UTC()
	if sale.SaleDate.IsZero() {
		sale.SaleDate = now.Truncate(24 * time.Hour)
	}
	sale.CreatedAt = now

	if err := s.repo.Insert(ctx, sale); err != nil {
		return nil, fmt.Errorf("insert supplement sale: %w", err)
	}

	logger.Info(ctx, "supplement sale recorded",
		"sale_id", sale.ID,
		"agent_id", sale.AgentID,
		"quantity", sale.Quantity,
	)
	return sale, nil
}

// ListByAgent returns an agent's supplement sales, newest first.
func (s *Service) ListByAgent(ctx context.Context, agentID string) ([]*Sale, error) {
	return s.repo.ListByAgent(ctx, agentID)
}

// Delete removes a supplement sale.
func (s *Service) Delete(ctx context.Context, saleID string) error {
	if err := s.repo.Delete(ctx, saleID); err != nil {
		return fmt.Errorf("delete supplement sale: %w", err)
	}
	logger.Info(ctx, "supplement sale deleted", "sale_id", saleID)
	return nil
}

package product

import (
	"context"
	"fmt"
	"time"

	"nomur/internal/core/apperror"
	"nomur/internal/core/id"
	"nomur/pkg/logger"
)

// Service provides business operations for the product catalog.
type Service struct {
	repo Repository
}

// NewService creates a new product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and inserts a product.
func (s *Service) Create(ctx context.Context, p *Product) (*Product, error) {
	if p.Name == "" {
		return nil, apperror.NewValidation("product name is required")
	}
	if p.Price.IsNegative() {
		return nil, apperror.NewValidation("product price must not be negative")
	}

	if p.ID == "" {
		p.ID = id.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Materials == nil {
		p.Materials = []Material{}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	logger.Info(ctx, "product created", "product_id", p.ID, "name", p.Name)
	return p, nil
}

// Get returns a product by id.
func (s *Service) Get(ctx context.Context, productID string) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NewNotFound("product", productID)
	}
	return p, nil
}

// List returns all products.
func (s *Service) List(ctx context.Context) ([]*Product, error) {
	return s.repo.List(ctx)
}

// Update modifies an existing product.
func (s *Service) Update(ctx context.Context, p *Product) (*Product, error) {
	if p.Name == "" {
		return nil, apperror.NewValidation("product name is required")
	}

	existing, err := s.Get(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	if p.Materials == nil {
		p.Materials = existing.Materials
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	logger.Info(ctx, "product updated", "product_id", p.ID)
	return p, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, productID string) error {
	if _, err := s.Get(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	logger.Info(ctx, "product deleted", "product_id", productID)
	return nil
}

package productgroup

import (
	"context"
	"fmt"
	"time"

	"nomur/internal/core/apperror"
	"nomur/internal/core/id"
	"nomur/internal/domain/product"
	"nomur/pkg/logger"
)

// Service provides business operations for product groups.
type Service struct {
	repo     Repository
	products product.Repository
}

// NewService creates a new product group service.
func NewService(repo Repository, products product.Repository) *Service {
	return &Service{repo: repo, products: products}
}

// Create validates and inserts a group. All member products must exist
// and share identical weight.
func (s *Service) Create(ctx context.Context, g *Group) (*Group, error) {
	if err := s.validate(ctx, g); err != nil {
		return nil, err
	}

	if g.ID == "" {
		g.ID = id.New().String()
	}
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now

	if err := s.repo.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("create product group: %w", err)
	}

	logger.Info(ctx, "product group created", "group_id", g.ID, "name", g.Name, "products", len(g.ProductIDs))
	return g, nil
}

// Get returns a group by id.
func (s *Service) Get(ctx context.Context, groupID string) (*Group, error) {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperror.NewNotFound("product group", groupID)
	}
	return g, nil
}

// List returns all groups.
func (s *Service) List(ctx context.Context) ([]*Group, error) {
	return s.repo.List(ctx)
}

// Update modifies a group, re-validating the equal-weight rule.
func (s *Service) Update(ctx context.Context, g *Group) (*Group, error) {
	existing, err := s.Get(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, g); err != nil {
		return nil, err
	}

	g.CreatedAt = existing.CreatedAt
	g.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("update product group: %w", err)
	}

	logger.Info(ctx, "product group updated", "group_id", g.ID)
	return g, nil
}

// Delete removes a group. Refused while the group is referenced by an
// agent's yearly target or a promotion condition.
func (s *Service) Delete(ctx context.Context, groupID string) error {
	if _, err := s.Get(ctx, groupID); err != nil {
		return err
	}

	targetRefs, err := s.repo.CountTargetReferences(ctx, groupID)
	if err != nil {
		return fmt.Errorf("count target references: %w", err)
	}
	if targetRefs > 0 {
		return apperror.NewReferenced("group is referenced by agent targets and cannot be deleted")
	}

	promoRefs, err := s.repo.CountPromotionReferences(ctx, groupID)
	if err != nil {
		return fmt.Errorf("count promotion references: %w", err)
	}
	if promoRefs > 0 {
		return apperror.NewReferenced("group is referenced by promotions and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, groupID); err != nil {
		return fmt.Errorf("delete product group: %w", err)
	}

	logger.Info(ctx, "product group deleted", "group_id", groupID)
	return nil
}

// validate checks name, membership and the equal-weight rule.
func (s *Service) validate(ctx context.Context, g *Group) error {
	if g.Name == "" {
		return apperror.NewValidation("group name is required")
	}
	if len(g.ProductIDs) == 0 {
		return apperror.NewValidation("group must contain at least one product")
	}

	members, err := s.products.GetByIDs(ctx, g.ProductIDs)
	if err != nil {
		return fmt.Errorf("load group products: %w", err)
	}
	if len(members) != len(g.ProductIDs) {
		return apperror.NewValidation("group references a product that does not exist")
	}

	weight := members[0].Weight
	for _, p := range members[1:] {
		if !p.Weight.Equal(weight) {
			return apperror.NewValidation("all products in a group must have the same weight")
		}
	}

	return nil
}

package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nomur/internal/core/apperror"
	"nomur/internal/core/id"
	"nomur/pkg/logger"
)

// Service manages the admin directory and phone verification.
type Service struct {
	repo   Repository
	agents AgentStore
}

// NewService creates a new admin service.
func NewService(repo Repository, agents AgentStore) *Service {
	return &Service{repo: repo, agents: agents}
}

// List returns every admin row.
func (s *Service) List(ctx context.Context) ([]*Admin, error) {
	return s.repo.List(ctx)
}

// Create adds an admin. Role defaults to admin; a reused phone is a
// duplicate error.
func (s *Service) Create(ctx context.Context, a *Admin) (*Admin, error) {
	a.Name = strings.TrimSpace(a.Name)
	a.Phone = strings.TrimSpace(a.Phone)
	if a.Name == "" || a.Phone == "" {
		return nil, apperror.NewValidation("name and phone are required")
	}
	if a.Role == "" {
		a.Role = RoleAdmin
	}
	if a.Role != RoleAdmin && a.Role != RoleSuperAdmin {
		return nil, apperror.NewValidation("role must be admin or super_admin")
	}

	existing, err := s.repo.GetByPhone(ctx, a.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewDuplicate("phone already registered")
	}

	a.ID = id.New().String()
	a.IsActive = true
	a.CreatedAt = time.Now()
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}

	logger.Info(ctx, "admin created", "admin_id", a.ID, "role", a.Role)
	return a, nil
}

// Delete removes an admin row.
func (s *Service) Delete(ctx context.Context, adminID string) error {
	if err := s.repo.Delete(ctx, adminID); err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	logger.Info(ctx, "admin deleted", "admin_id", adminID)
	return nil
}

// Verify resolves a phone number against the directory the caller claims
// membership of. An unknown phone is a normal unauthorized result, never
// an error.
func (s *Service) Verify(ctx context.Context, phone, role string) (*VerifyResult, error) {
	if phone == "" {
		return nil, apperror.NewValidation("phone is required")
	}

	switch role {
	case "admin":
		a, err := s.repo.GetByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		if a != nil && a.IsActive {
			return &VerifyResult{
				Authorized: true,
				UserType:   "admin",
				UserID:     a.ID,
				UserName:   a.Name,
				Role:       a.Role,
			}, nil
		}
	case "agent":
		ag, err := s.agents.GetByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		if ag != nil {
			return &VerifyResult{
				Authorized: true,
				UserType:   "agent",
				UserID:     ag.ID,
				UserName:   ag.Name,
				Balance:    ag.Balance.InexactFloat64(),
			}, nil
		}
	}

	return &VerifyResult{
		Authorized: false,
		Message:    "phone is not registered",
	}, nil
}

// CheckPrivileged validates the acting admin for destructive routes. The
// admin must exist, be active, carry an admin role, and the presented
// role must match the stored one.
func (s *Service) CheckPrivileged(ctx context.Context, adminID, presentedRole string) (*Admin, error) {
	if adminID == "" || presentedRole == "" {
		return nil, apperror.NewForbidden("admin credentials are required")
	}

	a, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if a == nil || !a.IsActive {
		return nil, apperror.NewForbidden("admin not found")
	}
	if a.Role != RoleAdmin && a.Role != RoleSuperAdmin {
		return nil, apperror.NewForbidden("admin privileges required")
	}
	if a.Role != presentedRole {
		return nil, apperror.NewForbidden("role mismatch")
	}
	return a, nil
}

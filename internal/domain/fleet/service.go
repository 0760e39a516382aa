package fleet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nomur/internal/core/apperror"
	"nomur/internal/core/id"
	"nomur/internal/core/tx"
	"nomur/pkg/logger"
)

// Service manages the driver and truck type catalogs.
type Service struct {
	drivers    DriverRepository
	truckTypes TruckTypeRepository
	txManager  tx.Manager
}

// NewService creates a new fleet service.
func NewService(drivers DriverRepository, truckTypes TruckTypeRepository, txManager tx.Manager) *Service {
	return &Service{drivers: drivers, truckTypes: truckTypes, txManager: txManager}
}

// ListDrivers returns every driver.
func (s *Service) ListDrivers(ctx context.Context) ([]*Driver, error) {
	return s.drivers.List(ctx)
}

// CreateDriver adds a driver.
func (s *Service) CreateDriver(ctx context.Context, d *Driver) (*Driver, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return nil, apperror.NewValidation("driver name is required")
	}

	d.ID = id.New().String()
	d.CreatedAt = time.Now()
	if err := s.drivers.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create driver: %w", err)
	}

	logger.Info(ctx, "driver created", "driver_id", d.ID)
	return d, nil
}

// ListTruckTypes returns truck types, default first then oldest first.
func (s *Service) ListTruckTypes(ctx context.Context) ([]*TruckType, error) {
	return s.truckTypes.List(ctx)
}

// CreateTruckType adds a truck type. Marking it default clears the flag
// on every other type in the same transaction.
func (s *Service) CreateTruckType(ctx context.Context, t *TruckType) (*TruckType, error) {
	if err := validateTruckType(t); err != nil {
		return nil, err
	}

	t.ID = id.New().String()
	t.CreatedAt = time.Now()
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if t.IsDefault {
			if err := s.truckTypes.ClearDefault(ctx); err != nil {
				return err
			}
		}
		return s.truckTypes.Create(ctx, t)
	})
	if err != nil {
		return nil, fmt.Errorf("create truck type: %w", err)
	}

	logger.Info(ctx, "truck type created", "truck_type_id", t.ID, "default", t.IsDefault)
	return t, nil
}

// UpdateTruckType rewrites a truck type, keeping the single-default rule.
func (s *Service) UpdateTruckType(ctx context.Context, t *TruckType) (*TruckType, error) {
	if err := validateTruckType(t); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.truckTypes.GetByID(ctx, t.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperror.NewNotFound("truck type", t.ID)
		}
		t.CreatedAt = existing.CreatedAt
		if t.IsDefault {
			if err := s.truckTypes.ClearDefault(ctx); err != nil {
				return err
			}
		}
		return s.truckTypes.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "truck type updated", "truck_type_id", t.ID)
	return t, nil
}

// DeleteTruckType removes a truck type.
func (s *Service) DeleteTruckType(ctx context.Context, truckTypeID string) error {
	if err := s.truckTypes.Delete(ctx, truckTypeID); err != nil {
		return fmt.Errorf("delete truck type: %w", err)
	}
	logger.Info(ctx, "truck type deleted", "truck_type_id", truckTypeID)
	return nil
}

func validateTruckType(t *TruckType) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return apperror.NewValidation("truck type name is required")
	}
	if t.MinWeight.IsNegative() || t.MaxWeight.IsNegative() {
		return apperror.NewValidation("weights must not be negative")
	}
	if t.MaxWeight.IsPositive() && t.MaxWeight.LessThan(t.MinWeight) {
		return apperror.NewValidation("maxWeight must be at least minWeight")
	}
	return nil
}

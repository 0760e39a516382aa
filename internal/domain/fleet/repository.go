package fleet

import "context"

// DriverRepository persists drivers.
type DriverRepository interface {
	Create(ctx context.Context, d *Driver) error
	List(ctx context.Context) ([]*Driver, error)
}

// TruckTypeRepository persists truck types. ClearDefault resets the
// is_default flag on every row.
type TruckTypeRepository interface {
	Create(ctx context.Context, t *TruckType) error
	GetByID(ctx context.Context, id string) (*TruckType, error)
	List(ctx context.Context) ([]*TruckType, error)
	Update(ctx context.Context, t *TruckType) error
	Delete(ctx context.Context, id string) error
	ClearDefault(ctx context.Context) error
}

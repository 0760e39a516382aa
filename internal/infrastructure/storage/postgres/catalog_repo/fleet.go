package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"nomur/internal/domain/fleet"
	"nomur/internal/infrastructure/storage/postgres"
)

const (
	driversTable    = "drivers"
	truckTypesTable = "truck_types"
)

type driverRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Phone     string    `db:"phone"`
	CreatedAt time.Time `db:"created_at"`
}

type truckTypeRow struct {
	ID        string          `db:"id"`
	Name      string          `db:"name"`
	MinWeight decimal.Decimal `db:"min_weight"`
	MaxWeight decimal.Decimal `db:"max_weight"`
	IsDefault bool            `db:"is_default"`
	CreatedAt time.Time       `db:"created_at"`
}

// DriverRepo implements fleet.DriverRepository.
type DriverRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewDriverRepo creates a new driver repository.
func NewDriverRepo(txManager *postgres.TxManager) *DriverRepo {
	return &DriverRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a driver row.
func (r *DriverRepo) Create(ctx context.Context, d *fleet.Driver) error {
	sql, args, err := r.builder.Insert(driversTable).
		Columns("id", "name", "phone", "created_at").
		Values(d.ID, d.Name, d.Phone, d.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert driver: %w", err)
	}
	return nil
}

// List returns every driver.
func (r *DriverRepo) List(ctx context.Context) ([]*fleet.Driver, error) {
	sql, args, err := r.builder.Select("id", "name", "phone", "created_at").
		From(driversTable).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []*driverRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}

	drivers := make([]*fleet.Driver, len(rows))
	for i, row := range rows {
		drivers[i] = &fleet.Driver{ID: row.ID, Name: row.Name, Phone: row.Phone, CreatedAt: row.CreatedAt}
	}
	return drivers, nil
}

// TruckTypeRepo implements fleet.TruckTypeRepository.
type TruckTypeRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewTruckTypeRepo creates a new truck type repository.
func NewTruckTypeRepo(txManager *postgres.TxManager) *TruckTypeRepo {
	return &TruckTypeRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *truckTypeRow) toDomain() *fleet.TruckType {
	return &fleet.TruckType{
		ID:        r.ID,
		Name:      r.Name,
		MinWeight: r.MinWeight,
		MaxWeight: r.MaxWeight,
		IsDefault: r.IsDefault,
		CreatedAt: r.CreatedAt,
	}
}

var truckTypeColumns = []string{"id", "name", "min_weight", "max_weight", "is_default", "created_at"}

// Create inserts a truck type row.
func (r *TruckTypeRepo) Create(ctx context.Context, t *fleet.TruckType) error {
	sql, args, err := r.builder.Insert(truckTypesTable).
		Columns(truckTypeColumns...).
		Values(t.ID, t.Name, t.MinWeight, t.MaxWeight, t.IsDefault, t.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert truck type: %w", err)
	}
	return nil
}

// GetByID loads a truck type, nil when missing.
func (r *TruckTypeRepo) GetByID(ctx context.Context, id string) (*fleet.TruckType, error) {
	sql, args, err := r.builder.Select(truckTypeColumns...).
		From(truckTypesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row truckTypeRow
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &row, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get truck type: %w", err)
	}
	return row.toDomain(), nil
}

// List returns truck types, default first then oldest first.
func (r *TruckTypeRepo) List(ctx context.Context) ([]*fleet.TruckType, error) {
	sql, args, err := r.builder.Select(truckTypeColumns...).
		From(truckTypesTable).
		OrderBy("is_default DESC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []*truckTypeRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list truck types: %w", err)
	}

	truckTypes := make([]*fleet.TruckType, len(rows))
	for i, row := range rows {
		truckTypes[i] = row.toDomain()
	}
	return truckTypes, nil
}

// Update rewrites a truck type row.
func (r *TruckTypeRepo) Update(ctx context.Context, t *fleet.TruckType) error {
	sql, args, err := r.builder.Update(truckTypesTable).
		Set("name", t.Name).
		Set("min_weight", t.MinWeight).
		Set("max_weight", t.MaxWeight).
		Set("is_default", t.IsDefault).
		Where(squirrel.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update truck type: %w", err)
	}
	return nil
}

// Delete removes a truck type row.
func (r *TruckTypeRepo) Delete(ctx context.Context, id string) error {
	sql, args, err := r.builder.Delete(truckTypesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete truck type: %w", err)
	}
	return nil
}

// ClearDefault resets the default flag on every truck type.
func (r *TruckTypeRepo) ClearDefault(ctx context.Context) error {
	if _, err := r.txManager.GetQuerier(ctx).
		Exec(ctx, "UPDATE "+truckTypesTable+" SET is_default = FALSE WHERE is_default"); err != nil {
		return fmt.Errorf("clear default truck type: %w", err)
	}
	return nil
}

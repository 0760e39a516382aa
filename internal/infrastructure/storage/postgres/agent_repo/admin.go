package agent_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"nomur/internal/domain/admin"
	"nomur/internal/infrastructure/storage/postgres"
)

const adminsTable = "admins"

var adminColumns = []string{"id", "name", "phone", "role", "is_active", "created_at"}

type adminRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Phone     string    `db:"phone"`
	Role      string    `db:"role"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *adminRow) toDomain() *admin.Admin {
	return &admin.Admin{
		ID:        r.ID,
		Name:      r.Name,
		Phone:     r.Phone,
		Role:      r.Role,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
	}
}

// AdminRepo implements admin.Repository.
type AdminRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewAdminRepo creates a new admin repository.
func NewAdminRepo(txManager *postgres.TxManager) *AdminRepo {
	return &AdminRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *AdminRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts an admin row.
func (r *AdminRepo) Create(ctx context.Context, a *admin.Admin) error {
	sql, args, err := r.builder.Insert(adminsTable).
		Columns(adminColumns...).
		Values(a.ID, a.Name, a.Phone, a.Role, a.IsActive, a.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (r *AdminRepo) getBy(ctx context.Context, pred squirrel.Eq) (*admin.Admin, error) {
	sql, args, err := r.builder.Select(adminColumns...).
		From(adminsTable).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row adminRow
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return row.toDomain(), nil
}

// GetByID loads an admin, nil when missing.
func (r *AdminRepo) GetByID(ctx context.Context, id string) (*admin.Admin, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByPhone loads an admin by phone, nil when missing.
func (r *AdminRepo) GetByPhone(ctx context.Context, phone string) (*admin.Admin, error) {
	return r.getBy(ctx, squirrel.Eq{"phone": phone})
}

// List returns every admin row.
func (r *AdminRepo) List(ctx context.Context) ([]*admin.Admin, error) {
	sql, args, err := r.builder.Select(adminColumns...).
		From(adminsTable).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []*adminRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}

	admins := make([]*admin.Admin, len(rows))
	for i, row := range rows {
		admins[i] = row.toDomain()
	}
	return admins, nil
}

// Delete removes an admin row.
func (r *AdminRepo) Delete(ctx context.Context, id string) error {
	sql, args, err := r.builder.Delete(adminsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	return nil
}

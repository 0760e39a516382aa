package agent_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"nomur/internal/core/types"
	"nomur/internal/domain/supplement"
	"nomur/internal/infrastructure/storage/postgres"
)

const supplementTable = "supplement_sales"

var supplementColumns = []string{
	"id", "agent_id", "product_type", "quantity", "sale_date", "remark", "created_at",
}

type supplementRow struct {
	ID          string         `db:"id"`
	AgentID     string         `db:"agent_id"`
	ProductType string         `db:"product_type"`
	Quantity    types.Quantity `db:"quantity"`
	SaleDate    time.Time      `db:"sale_date"`
	Remark      string         `db:"remark"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r *supplementRow) toDomain() *supplement.Sale {
	return &supplement.Sale{
		ID:          r.ID,
		AgentID:     r.AgentID,
		ProductType: r.ProductType,
		Quantity:    r.Quantity,
		SaleDate:    r.SaleDate,
		Remark:      r.Remark,
		CreatedAt:   r.CreatedAt,
	}
}

// SupplementRepo implements supplement.Repository.
type SupplementRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewSupplementRepo creates a new supplement sales repository.
func NewSupplementRepo(txManager *postgres.TxManager) *SupplementRepo {
	return &SupplementRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *SupplementRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Insert adds a sales entry.
func (r *SupplementRepo) Insert(ctx context.Context, s *supplement.Sale) error {
	sql, args, err := r.builder.Insert(supplementTable).
		Columns(supplementColumns...).
		Values(s.ID, s.AgentID, s.ProductType, s.Quantity, s.SaleDate, s.Remark, s.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert supplement sale: %w", err)
	}
	return nil
}

func (r *SupplementRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*supplement.Sale, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []*supplementRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list supplement sales: %w", err)
	}

	sales := make([]*supplement.Sale, len(rows))
	for i, row := range rows {
		sales[i] = row.toDomain()
	}
	return sales, nil
}

// ListByAgent returns an agent's entries, newest sale first.
func (r *SupplementRepo) ListByAgent(ctx context.Context, agentID string) ([]*supplement.Sale, error) {
	return r.list(ctx, r.builder.Select(supplementColumns...).
		From(supplementTable).
		Where(squirrel.Eq{"agent_id": agentID}).
		OrderBy("sale_date DESC", "created_at DESC"))
}

// ListByAgentYear returns an agent's entries whose sale date falls in
// the given year.
func (r *SupplementRepo) ListByAgentYear(ctx context.Context, agentID string, year int) ([]*supplement.Sale, error) {
	return r.list(ctx, r.builder.Select(supplementColumns...).
		From(supplementTable).
		Where(squirrel.Eq{"agent_id": agentID}).
		Where(squirrel.Expr("EXTRACT(YEAR FROM sale_date) = ?", year)))
}

// Delete removes an entry.
func (r *SupplementRepo) Delete(ctx context.Context, id string) error {
	sql, args, err := r.builder.Delete(supplementTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete supplement sale: %w", err)
	}
	return nil
}

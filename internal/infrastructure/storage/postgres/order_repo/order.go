// Package order_repo provides PostgreSQL storage for orders and gift
// delivery records.
package order_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"nomur/internal/core/types"
	"nomur/internal/domain/jsonval"
	"nomur/internal/domain/order"
	"nomur/internal/infrastructure/storage/postgres"
)

const ordersTable = "orders"

var orderColumns = []string{
	"id", "agent_id", "items", "total_weight", "total_amount", "driver_phone",
	"promotion_id", "gift_items", "images", "remark", "is_gift", "status",
	"shipped_at", "completed_at", "created_at",
}

type orderRow struct {
	ID          string          `db:"id"`
	AgentID     string          `db:"agent_id"`
	Items       []byte          `db:"items"`
	TotalWeight decimal.Decimal `db:"total_weight"`
	TotalAmount types.Money     `db:"total_amount"`
	DriverPhone string          `db:"driver_phone"`
	PromotionID []byte          `db:"promotion_id"`
	GiftItems   []byte          `db:"gift_items"`
	Images      []byte          `db:"images"`
	Remark      string          `db:"remark"`
	IsGift      bool            `db:"is_gift"`
	Status      string          `db:"status"`
	ShippedAt   *time.Time      `db:"shipped_at"`
	CompletedAt *time.Time      `db:"completed_at"`
	CreatedAt   time.Time       `db:"created_at"`
	AgentName   *string         `db:"agent_name"`
}

func (r *orderRow) toDomain() *order.Order {
	o := &order.Order{
		ID:           r.ID,
		AgentID:      r.AgentID,
		Items:        jsonval.DecodeSlice[order.Item](r.Items),
		TotalWeight:  r.TotalWeight,
		TotalAmount:  r.TotalAmount,
		DriverPhone:  r.DriverPhone,
		PromotionRef: jsonval.DecodePromotionRef(r.PromotionID),
		GiftItems:    jsonval.DecodeSlice[order.GiftItem](r.GiftItems),
		Images:       jsonval.DecodeStrings(r.Images),
		Remark:       r.Remark,
		IsGift:       r.IsGift,
		Status:       r.Status,
		ShippedAt:    r.ShippedAt,
		CompletedAt:  r.CompletedAt,
		CreatedAt:    r.CreatedAt,
	}
	if r.AgentName != nil {
		o.AgentName = *r.AgentName
	}
	return o
}

// OrderRepo implements order.Repository and the order-facing stores of
// the gift, promotion and stats domains.
type OrderRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewOrderRepo creates a new order repository.
func NewOrderRepo(txManager *postgres.TxManager) *OrderRepo {
	return &OrderRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *OrderRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts an order row.
func (r *OrderRepo) Create(ctx context.Context, o *order.Order) error {
	sql, args, err := r.builder.Insert(ordersTable).
		Columns(orderColumns...).
		Values(
			o.ID, o.AgentID, jsonval.Encode(o.Items), o.TotalWeight, o.TotalAmount,
			o.DriverPhone, o.PromotionRef.StorageValue(), jsonval.Encode(o.GiftItems),
			jsonval.Encode(o.Images), o.Remark, o.IsGift, o.Status,
			o.ShippedAt, o.CompletedAt, o.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) getBy(ctx context.Context, id string, forUpdate bool) (*order.Order, error) {
	q := r.builder.Select(orderColumns...).
		From(ordersTable).
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row orderRow
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return row.toDomain(), nil
}

// GetByID loads an order, nil when missing.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	return r.getBy(ctx, id, false)
}

// GetByIDForUpdate loads an order with a row lock.
func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*order.Order, error) {
	return r.getBy(ctx, id, true)
}

func (r *OrderRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*order.Order, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []*orderRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]*order.Order, len(rows))
	for i, row := range rows {
		orders[i] = row.toDomain()
	}
	return orders, nil
}

func prefixed(columns []string, alias string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

// List returns orders newest first with the agent name joined,
// optionally filtered by agent.
func (r *OrderRepo) List(ctx context.Context, agentID string) ([]*order.Order, error) {
	q := r.builder.Select(append(prefixed(orderColumns, "o"), "a.name AS agent_name")...).
		From(ordersTable + " o").
		LeftJoin("agents a ON o.agent_id = a.id").
		OrderBy("o.created_at DESC")
	if agentID != "" {
		q = q.Where(squirrel.Eq{"o.agent_id": agentID})
	}
	return r.list(ctx, q)
}

// ListByAgentAsc returns an agent's orders oldest first.
func (r *OrderRepo) ListByAgentAsc(ctx context.Context, agentID string) ([]*order.Order, error) {
	return r.list(ctx, r.builder.Select(orderColumns...).
		From(ordersTable).
		Where(squirrel.Eq{"agent_id": agentID}).
		OrderBy("created_at ASC"))
}

// Update rewrites the mutable order columns.
func (r *OrderRepo) Update(ctx context.Context, o *order.Order) error {
	sql, args, err := r.builder.Update(ordersTable).
		Set("agent_id", o.AgentID).
		Set("items", jsonval.Encode(o.Items)).
		Set("total_weight", o.TotalWeight).
		Set("total_amount", o.TotalAmount).
		Set("driver_phone", o.DriverPhone).
		Set("promotion_id", o.PromotionRef.StorageValue()).
		Set("gift_items", jsonval.Encode(o.GiftItems)).
		Set("images", jsonval.Encode(o.Images)).
		Set("remark", o.Remark).
		Set("is_gift", o.IsGift).
		Where(squirrel.Eq{"id": o.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// UpdateStatus writes the status and lifecycle timestamps.
func (r *OrderRepo) UpdateStatus(ctx context.Context, o *order.Order) error {
	sql, args, err := r.builder.Update(ordersTable).
		Set("status", o.Status).
		Set("shipped_at", o.ShippedAt).
		Set("completed_at", o.CompletedAt).
		Where(squirrel.Eq{"id": o.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// UpdateGiftItems rewrites the gift lines only.
func (r *OrderRepo) UpdateGiftItems(ctx context.Context, orderID string, items []order.GiftItem) error {
	sql, args, err := r.builder.Update(ordersTable).
		Set("gift_items", jsonval.Encode(items)).
		Where(squirrel.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update gift items: %w", err)
	}
	return nil
}

// Delete removes an order row.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	sql, args, err := r.builder.Delete(ordersTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// ListReferencing returns orders whose promotion reference contains the
// promotion id, with row locks. The reference column holds either the
// bare id or a JSON array containing it.
func (r *OrderRepo) ListReferencing(ctx context.Context, promotionID string) ([]*order.Order, error) {
	return r.list(ctx, r.builder.Select(orderColumns...).
		From(ordersTable).
		Where(squirrel.Or{
			squirrel.Eq{"promotion_id": promotionID},
			squirrel.Expr("promotion_id LIKE '%' || ? || '%'", promotionID),
		}).
		Suffix("FOR UPDATE"))
}

// UpdatePromotionRef rewrites the promotion reference column.
func (r *OrderRepo) UpdatePromotionRef(ctx context.Context, orderID string, ref jsonval.PromotionRef) error {
	sql, args, err := r.builder.Update(ordersTable).
		Set("promotion_id", ref.StorageValue()).
		Where(squirrel.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update promotion ref: %w", err)
	}
	return nil
}

// ListYearNonGift returns non-gift orders created in the given year.
func (r *OrderRepo) ListYearNonGift(ctx context.Context, year int) ([]*order.Order, error) {
	return r.list(ctx, r.builder.Select(orderColumns...).
		From(ordersTable).
		Where(squirrel.Expr("EXTRACT(YEAR FROM created_at) = ?", year)).
		Where("NOT is_gift"))
}

// ListSinceNonGift returns non-gift orders created at or after from.
func (r *OrderRepo) ListSinceNonGift(ctx context.Context, from time.Time) ([]*order.Order, error) {
	return r.list(ctx, r.builder.Select(orderColumns...).
		From(ordersTable).
		Where(squirrel.GtOrEq{"created_at": from}).
		Where("NOT is_gift"))
}

// ListAgentYearNonGift returns one agent's non-gift orders for a year.
func (r *OrderRepo) ListAgentYearNonGift(ctx context.Context, agentID string, year int) ([]*order.Order, error) {
	return r.list(ctx, r.builder.Select(orderColumns...).
		From(ordersTable).
		Where(squirrel.Eq{"agent_id": agentID}).
		Where(squirrel.Expr("EXTRACT(YEAR FROM created_at) = ?", year)).
		Where("NOT is_gift"))
}

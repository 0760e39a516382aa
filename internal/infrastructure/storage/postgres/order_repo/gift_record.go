package order_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"nomur/internal/core/types"
	"nomur/internal/domain/gift"
	"nomur/internal/infrastructure/storage/postgres"
)

const giftRecordsTable = "gift_delivery_records"

var giftRecordColumns = []string{
	"id", "order_id", "agent_id", "product_id", "product_name",
	"group_id", "group_name", "quantity", "delivered_by",
	"delivered_by_name", "remark", "created_at",
}

type giftRecordRow struct {
	ID              string         `db:"id"`
	OrderID         string         `db:"order_id"`
	AgentID         string         `db:"agent_id"`
	ProductID       string         `db:"product_id"`
	ProductName     string         `db:"product_name"`
	GroupID         string         `db:"group_id"`
	GroupName       string         `db:"group_name"`
	Quantity        types.Quantity `db:"quantity"`
	DeliveredBy     string         `db:"delivered_by"`
	DeliveredByName string         `db:"delivered_by_name"`
	Remark          string         `db:"remark"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (r *giftRecordRow) toDomain() *gift.DeliveryRecord {
	return &gift.DeliveryRecord{
		ID:              r.ID,
		OrderID:         r.OrderID,
		AgentID:         r.AgentID,
		ProductID:       r.ProductID,
		ProductName:     r.ProductName,
		GroupID:         r.GroupID,
		GroupName:       r.GroupName,
		Quantity:        r.Quantity,
		DeliveredBy:     r.DeliveredBy,
		DeliveredByName: r.DeliveredByName,
		Remark:          r.Remark,
		CreatedAt:       r.CreatedAt,
	}
}

// GiftRecordRepo implements gift.RecordRepository.
type GiftRecordRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewGiftRecordRepo creates a new gift delivery record repository.
func NewGiftRecordRepo(txManager *postgres.TxManager) *GiftRecordRepo {
	return &GiftRecordRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *GiftRecordRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Insert appends a delivery record.
func (r *GiftRecordRepo) Insert(ctx context.Context, rec *gift.DeliveryRecord) error {
	sql, args, err := r.builder.Insert(giftRecordsTable).
		Columns(giftRecordColumns...).
		Values(
			rec.ID, rec.OrderID, rec.AgentID, rec.ProductID, rec.ProductName,
			rec.GroupID, rec.GroupName, rec.Quantity, rec.DeliveredBy,
			rec.DeliveredByName, rec.Remark, rec.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert delivery record: %w", err)
	}
	return nil
}

// GetByID loads one record scoped to its order, nil when missing.
func (r *GiftRecordRepo) GetByID(ctx context.Context, orderID, recordID string) (*gift.DeliveryRecord, error) {
	sql, args, err := r.builder.Select(giftRecordColumns...).
		From(giftRecordsTable).
		Where(squirrel.Eq{"id": recordID, "order_id": orderID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row giftRecordRow
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery record: %w", err)
	}
	return row.toDomain(), nil
}

// ListByOrder returns an order's records, newest first.
func (r *GiftRecordRepo) ListByOrder(ctx context.Context, orderID string) ([]*gift.DeliveryRecord, error) {
	sql, args, err := r.builder.Select(giftRecordColumns...).
		From(giftRecordsTable).
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []*giftRecordRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list delivery records: %w", err)
	}

	records := make([]*gift.DeliveryRecord, len(rows))
	for i, row := range rows {
		records[i] = row.toDomain()
	}
	return records, nil
}

// Delete removes a record.
func (r *GiftRecordRepo) Delete(ctx context.Context, recordID string) error {
	sql, args, err := r.builder.Delete(giftRecordsTable).
		Where(squirrel.Eq{"id": recordID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete delivery record: %w", err)
	}
	return nil
}

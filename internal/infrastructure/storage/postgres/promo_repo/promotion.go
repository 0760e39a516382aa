// Package promo_repo provides PostgreSQL storage for promotions.
package promo_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"nomur/internal/core/types"
	"nomur/internal/domain/jsonval"
	"nomur/internal/domain/promotion"
	"nomur/internal/infrastructure/storage/postgres"
)

const promotionsTable = "promotions"

var promotionColumns = []string{
	"id", "name", "description", "threshold", "condition_details",
	"condition_products", "condition_group_id", "gifts", "is_active",
	"start_date", "end_date", "created_at",
}

type promotionRow struct {
	ID                string         `db:"id"`
	Name              string         `db:"name"`
	Description       string         `db:"description"`
	Threshold         types.Quantity `db:"threshold"`
	ConditionDetails  []byte         `db:"condition_details"`
	ConditionProducts []byte         `db:"condition_products"`
	ConditionGroupID  *string        `db:"condition_group_id"`
	Gifts             []byte         `db:"gifts"`
	IsActive          bool           `db:"is_active"`
	StartDate         *time.Time     `db:"start_date"`
	EndDate           *time.Time     `db:"end_date"`
	CreatedAt         time.Time      `db:"created_at"`
}

func (r *promotionRow) toDomain() *promotion.Promotion {
	p := &promotion.Promotion{
		ID:                r.ID,
		Name:              r.Name,
		Description:       r.Description,
		Threshold:         r.Threshold,
		ConditionDetails:  jsonval.DecodeSlice[promotion.Condition](r.ConditionDetails),
		ConditionProducts: jsonval.DecodeStrings(r.ConditionProducts),
		Gifts:             jsonval.DecodeSlice[promotion.Gift](r.Gifts),
		IsActive:          r.IsActive,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		CreatedAt:         r.CreatedAt,
	}
	if r.ConditionGroupID != nil {
		p.ConditionGroupID = *r.ConditionGroupID
	}
	return p
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// PromotionRepo implements promotion.Repository.
type PromotionRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewPromotionRepo creates a new promotion repository.
func NewPromotionRepo(txManager *postgres.TxManager) *PromotionRepo {
	return &PromotionRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *PromotionRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts a promotion row.
func (r *PromotionRepo) Create(ctx context.Context, p *promotion.Promotion) error {
	sql, args, err := r.builder.Insert(promotionsTable).
		Columns(promotionColumns...).
		Values(
			p.ID, p.Name, p.Description, p.Threshold,
			jsonval.Encode(p.ConditionDetails), jsonval.Encode(p.ConditionProducts),
			nullable(p.ConditionGroupID), jsonval.Encode(p.Gifts),
			p.IsActive, p.StartDate, p.EndDate, p.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert promotion: %w", err)
	}
	return nil
}

// GetByID loads a promotion, nil when missing.
func (r *PromotionRepo) GetByID(ctx context.Context, id string) (*promotion.Promotion, error) {
	sql, args, err := r.builder.Select(promotionColumns...).
		From(promotionsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row promotionRow
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get promotion: %w", err)
	}
	return row.toDomain(), nil
}

// GetByIDs loads the promotions matching ids.
func (r *PromotionRepo) GetByIDs(ctx context.Context, ids []string) ([]*promotion.Promotion, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, r.builder.Select(promotionColumns...).
		From(promotionsTable).
		Where(squirrel.Eq{"id": ids}))
}

// List returns promotions newest first.
func (r *PromotionRepo) List(ctx context.Context) ([]*promotion.Promotion, error) {
	return r.list(ctx, r.builder.Select(promotionColumns...).
		From(promotionsTable).
		OrderBy("created_at DESC"))
}

// ListActive returns active promotions.
func (r *PromotionRepo) ListActive(ctx context.Context) ([]*promotion.Promotion, error) {
	return r.list(ctx, r.builder.Select(promotionColumns...).
		From(promotionsTable).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("created_at DESC"))
}

func (r *PromotionRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*promotion.Promotion, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []*promotionRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}

	promotions := make([]*promotion.Promotion, len(rows))
	for i, row := range rows {
		promotions[i] = row.toDomain()
	}
	return promotions, nil
}

// Update rewrites a promotion row.
func (r *PromotionRepo) Update(ctx context.Context, p *promotion.Promotion) error {
	sql, args, err := r.builder.Update(promotionsTable).
		Set("name", p.Name).
		Set("description", p.Description).
		Set("threshold", p.Threshold).
		Set("condition_details", jsonval.Encode(p.ConditionDetails)).
		Set("condition_products", jsonval.Encode(p.ConditionProducts)).
		Set("condition_group_id", nullable(p.ConditionGroupID)).
		Set("gifts", jsonval.Encode(p.Gifts)).
		Set("is_active", p.IsActive).
		Set("start_date", p.StartDate).
		Set("end_date", p.EndDate).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update promotion: %w", err)
	}
	return nil
}

// SetActive toggles the active flag.
func (r *PromotionRepo) SetActive(ctx context.Context, id string, active bool) error {
	sql, args, err := r.builder.Update(promotionsTable).
		Set("is_active", active).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("set promotion active: %w", err)
	}
	return nil
}

// Delete removes a promotion row.
func (r *PromotionRepo) Delete(ctx context.Context, id string) error {
	sql, args, err := r.builder.Delete(promotionsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	return nil
}

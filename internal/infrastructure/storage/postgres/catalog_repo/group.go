package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"nomur/internal/domain/gift"
	"nomur/internal/domain/jsonval"
	"nomur/internal/domain/productgroup"
	"nomur/internal/domain/promotion"
	"nomur/internal/infrastructure/storage/postgres"
)

const groupsTable = "product_groups"

var groupColumns = []string{
	"id", "name", "description", "product_ids", "created_at", "updated_at",
}

type groupRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	ProductIDs  []byte    `db:"product_ids"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *groupRow) toDomain() *productgroup.Group {
	return &productgroup.Group{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ProductIDs:  jsonval.DecodeStrings(r.ProductIDs),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// GroupRepo implements productgroup.Repository and the group lookups of
// the gift, promotion and stats domains.
type GroupRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewGroupRepo creates a new product group repository.
func NewGroupRepo(txManager *postgres.TxManager) *GroupRepo {
	return &GroupRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *GroupRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts a group row.
func (r *GroupRepo) Create(ctx context.Context, g *productgroup.Group) error {
	sql, args, err := r.builder.Insert(groupsTable).
		Columns(groupColumns...).
		Values(
			g.ID, g.Name, g.Description, jsonval.Encode(g.ProductIDs),
			g.CreatedAt, g.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

// GetByID loads a group, nil when missing.
func (r *GroupRepo) GetByID(ctx context.Context, id string) (*productgroup.Group, error) {
	sql, args, err := r.builder.Select(groupColumns...).
		From(groupsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row groupRow
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	return row.toDomain(), nil
}

// List returns groups in insertion order.
func (r *GroupRepo) List(ctx context.Context) ([]*productgroup.Group, error) {
	sql, args, err := r.builder.Select(groupColumns...).
		From(groupsTable).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []*groupRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	groups := make([]*productgroup.Group, len(rows))
	for i, row := range rows {
		groups[i] = row.toDomain()
	}
	return groups, nil
}

// Update rewrites a group row.
func (r *GroupRepo) Update(ctx context.Context, g *productgroup.Group) error {
	sql, args, err := r.builder.Update(groupsTable).
		Set("name", g.Name).
		Set("description", g.Description).
		Set("product_ids", jsonval.Encode(g.ProductIDs)).
		Set("updated_at", g.UpdatedAt).
		Where(squirrel.Eq{"id": g.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	return nil
}

// Delete removes a group row.
func (r *GroupRepo) Delete(ctx context.Context, id string) error {
	sql, args, err := r.builder.Delete(groupsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}

// CountTargetReferences counts agents carrying a yearly target bound to
// the group. Group targets embed the group id in the JSON value.
func (r *GroupRepo) CountTargetReferences(ctx context.Context, groupID string) (int64, error) {
	const q = `SELECT COUNT(*) FROM agents
		WHERE yearly_targets IS NOT NULL
		AND yearly_targets::text LIKE '%' || $1 || '%'`

	var count int64
	if err := r.querier(ctx).QueryRow(ctx, q, groupID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count target references: %w", err)
	}
	return count, nil
}

// CountPromotionReferences counts promotions conditioning on the group,
// through the legacy column or a group condition detail.
func (r *GroupRepo) CountPromotionReferences(ctx context.Context, groupID string) (int64, error) {
	const q = `SELECT COUNT(*) FROM promotions
		WHERE condition_group_id = $1
		OR (condition_details IS NOT NULL AND condition_details::text LIKE '%' || $1 || '%')`

	var count int64
	if err := r.querier(ctx).QueryRow(ctx, q, groupID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count promotion references: %w", err)
	}
	return count, nil
}

// GroupInfos maps group id to the fields gift summaries need.
func (r *GroupRepo) GroupInfos(ctx context.Context) (map[string]gift.GroupInfo, error) {
	groups, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	infos := make(map[string]gift.GroupInfo, len(groups))
	for _, g := range groups {
		infos[g.ID] = gift.GroupInfo{Name: g.Name, ProductIDs: g.ProductIDs}
	}
	return infos, nil
}

// MemberIDs maps group id to member product ids.
func (r *GroupRepo) MemberIDs(ctx context.Context) (promotion.GroupMembers, error) {
	groups, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	members := make(promotion.GroupMembers, len(groups))
	for _, g := range groups {
		members[g.ID] = g.ProductIDs
	}
	return members, nil
}

// GroupNames maps group id to display name.
func (r *GroupRepo) GroupNames(ctx context.Context) (map[string]string, error) {
	groups, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}
	return names, nil
}

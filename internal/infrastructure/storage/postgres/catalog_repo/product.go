// Package catalog_repo provides PostgreSQL storage for the product
// catalog, product groups, fleet and upload records.
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

	"nomur/internal/domain/jsonval"
	"nomur/internal/domain/product"
	"nomur/internal/domain/stats"
	"nomur/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

var productColumns = []string{
	"id", "name", "image", "price", "weight", "materials", "created_at", "updated_at",
}

type productRow struct {
	ID        string          `db:"id"`
	Name      string          `db:"name"`
	Image     string          `db:"image"`
	Price     decimal.Decimal `db:"price"`
	Weight    decimal.Decimal `db:"weight"`
	Materials []byte          `db:"materials"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

func (r *productRow) toDomain() *product.Product {
	return &product.Product{
		ID:        r.ID,
		Name:      r.Name,
		Image:     r.Image,
		Price:     r.Price,
		Weight:    r.Weight,
		Materials: jsonval.DecodeSlice[product.Material](r.Materials),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ProductRepo implements product.Repository.
type ProductRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ProductRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts a product row.
func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	sql, args, err := r.builder.Insert(productsTable).
		Columns(productColumns...).
		Values(
			p.ID, p.Name, p.Image, p.Price, p.Weight,
			jsonval.Encode(p.Materials), p.CreatedAt, p.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID loads a product, nil when missing.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*product.Product, error) {
	sql, args, err := r.builder.Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row productRow
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return row.toDomain(), nil
}

// GetByIDs loads the products matching ids, in no particular order.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]*product.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, r.builder.Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"id": ids}))
}

// List returns the whole catalog in insertion order.
func (r *ProductRepo) List(ctx context.Context) ([]*product.Product, error) {
	return r.list(ctx, r.builder.Select(productColumns...).
		From(productsTable).
		OrderBy("created_at ASC"))
}

func (r *ProductRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*product.Product, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []*productRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]*product.Product, len(rows))
	for i, row := range rows {
		products[i] = row.toDomain()
	}
	return products, nil
}

// Update rewrites a product row.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	sql, args, err := r.builder.Update(productsTable).
		Set("name", p.Name).
		Set("image", p.Image).
		Set("price", p.Price).
		Set("weight", p.Weight).
		Set("materials", jsonval.Encode(p.Materials)).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete removes a product row.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	sql, args, err := r.builder.Delete(productsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// ProductNames maps product id to display name.
func (r *ProductRepo) ProductNames(ctx context.Context) (map[string]string, error) {
	infos, err := r.Products(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(infos))
	for _, p := range infos {
		names[p.ID] = p.Name
	}
	return names, nil
}

// Products returns id/name pairs in catalog order.
func (r *ProductRepo) Products(ctx context.Context) ([]stats.ProductInfo, error) {
	rows, err := r.querier(ctx).
		Query(ctx, "SELECT id, name FROM "+productsTable+" ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("list product names: %w", err)
	}
	defer rows.Close()

	var infos []stats.ProductInfo
	for rows.Next() {
		var info stats.ProductInfo
		if err := rows.Scan(&info.ID, &info.Name); err != nil {
			return nil, fmt.Errorf("scan product name: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

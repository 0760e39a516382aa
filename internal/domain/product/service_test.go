package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomur/internal/core/apperror"
)

type fakeRepo struct {
	products map[string]*Product
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: map[string]*Product{}}
}

func (r *fakeRepo) Create(_ context.Context, p *Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) GetByIDs(_ context.Context, ids []string) ([]*Product, error) {
	var out []*Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) List(_ context.Context) ([]*Product, error) {
	var out []*Product
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, p *Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	delete(r.products, id)
	return nil
}

func TestCreateProduct(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, &Product{
		Name:   "Flour 25kg",
		Price:  decimal.NewFromInt(120),
		Weight: decimal.NewFromInt(25),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotNil(t, created.Materials)

	_, err = svc.Create(ctx, &Product{Price: decimal.NewFromInt(1)})
	require.Error(t, err)

	_, err = svc.Create(ctx, &Product{Name: "bad", Price: decimal.NewFromInt(-1)})
	require.Error(t, err)
}

func TestUpdateProduct(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &Product{
		Name:      "Flour 25kg",
		Price:     decimal.NewFromInt(120),
		Materials: []Material{{Name: "wheat", Quantity: decimal.NewFromInt(26), Unit: "kg"}},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, &Product{
		ID:    created.ID,
		Name:  "Flour 25kg premium",
		Price: decimal.NewFromInt(130),
	})
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	// Omitted materials keep the stored recipe.
	assert.Len(t, repo.products[created.ID].Materials, 1)

	_, err = svc.Update(ctx, &Product{ID: "missing", Name: "x"})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteProduct(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &Product{Name: "Flour 25kg", Price: decimal.NewFromInt(120)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, repo.products)

	err = svc.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

package productgroup

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomur/internal/core/apperror"
	"nomur/internal/domain/product"
)

type fakeRepo struct {
	groups     map[string]*Group
	targetRefs map[string]int64
	promoRefs  map[string]int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		groups:     map[string]*Group{},
		targetRefs: map[string]int64{},
		promoRefs:  map[string]int64{},
	}
}

func (r *fakeRepo) Create(_ context.Context, g *Group) error {
	cp := *g
	r.groups[g.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Group, error) {
	g, ok := r.groups[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (r *fakeRepo) List(_ context.Context) ([]*Group, error) {
	var out []*Group
	for _, g := range r.groups {
		cp := *g
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, g *Group) error {
	cp := *g
	r.groups[g.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	delete(r.groups, id)
	return nil
}

func (r *fakeRepo) CountTargetReferences(_ context.Context, groupID string) (int64, error) {
	return r.targetRefs[groupID], nil
}

func (r *fakeRepo) CountPromotionReferences(_ context.Context, groupID string) (int64, error) {
	return r.promoRefs[groupID], nil
}

type fakeProducts struct {
	products map[string]*product.Product
}

func (r *fakeProducts) Create(_ context.Context, p *product.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProducts) GetByID(_ context.Context, id string) (*product.Product, error) {
	return r.products[id], nil
}

func (r *fakeProducts) GetByIDs(_ context.Context, ids []string) ([]*product.Product, error) {
	var out []*product.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProducts) List(_ context.Context) ([]*product.Product, error) { return nil, nil }
func (r *fakeProducts) Update(_ context.Context, _ *product.Product) error { return nil }
func (r *fakeProducts) Delete(_ context.Context, _ string) error           { return nil }

func newTestService() (*Service, *fakeRepo, *fakeProducts) {
	repo := newFakeRepo()
	products := &fakeProducts{products: map[string]*product.Product{
		"p1": {ID: "p1", Name: "Flour 25kg", Weight: decimal.NewFromInt(25)},
		"p2": {ID: "p2", Name: "Bran 25kg", Weight: decimal.NewFromInt(25)},
		"p3": {ID: "p3", Name: "Flour 50kg", Weight: decimal.NewFromInt(50)},
	}}
	return NewService(repo, products), repo, products
}

func TestCreateEqualWeightRule(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &Group{Name: "25kg bags", ProductIDs: []string{"p1", "p2"}})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Len(t, repo.groups, 1)

	_, err = svc.Create(ctx, &Group{Name: "mixed", ProductIDs: []string{"p1", "p3"}})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &Group{ProductIDs: []string{"p1"}})
	require.Error(t, err)

	_, err = svc.Create(ctx, &Group{Name: "empty"})
	require.Error(t, err)

	_, err = svc.Create(ctx, &Group{Name: "ghost member", ProductIDs: []string{"p1", "nope"}})
	require.Error(t, err)
}

func TestUpdateRevalidatesMembers(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &Group{Name: "25kg bags", ProductIDs: []string{"p1"}})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, &Group{ID: created.ID, Name: "25kg bags", ProductIDs: []string{"p1", "p2"}})
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, []string{"p1", "p2"}, repo.groups[created.ID].ProductIDs)

	_, err = svc.Update(ctx, &Group{ID: created.ID, Name: "bad", ProductIDs: []string{"p1", "p3"}})
	require.Error(t, err)

	_, err = svc.Update(ctx, &Group{ID: "missing", Name: "x", ProductIDs: []string{"p1"}})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteGuardedByReferences(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &Group{Name: "25kg bags", ProductIDs: []string{"p1"}})
	require.NoError(t, err)

	repo.targetRefs[created.ID] = 1
	err = svc.Delete(ctx, created.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeReferenced, appErr.Code)

	repo.targetRefs[created.ID] = 0
	repo.promoRefs[created.ID] = 2
	require.Error(t, svc.Delete(ctx, created.ID))

	repo.promoRefs[created.ID] = 0
	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, repo.groups)
}

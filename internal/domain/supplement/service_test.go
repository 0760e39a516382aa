package supplement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomur/internal/core/apperror"
	"nomur/internal/core/types"
)

type fakeRepo struct {
	sales map[string]*Sale
}

func (r *fakeRepo) Insert(_ context.Context, s *Sale) error {
	cp := *s
	r.sales[s.ID] = &cp
	return nil
}

func (r *fakeRepo) ListByAgent(_ context.Context, agentID string) ([]*Sale, error) {
	var out []*Sale
	for _, s := range r.sales {
		if s.AgentID == agentID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByAgentYear(_ context.Context, agentID string, year int) ([]*Sale, error) {
	var out []*Sale
	for _, s := range r.sales {
		if s.AgentID == agentID && s.SaleDate.Year() == year {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	delete(r.sales, id)
	return nil
}

type fakeAgents struct {
	known map[string]bool
}

func (s *fakeAgents) AgentExists(_ context.Context, agentID string) (bool, error) {
	return s.known[agentID], nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := &fakeRepo{sales: map[string]*Sale{}}
	agents := &fakeAgents{known: map[string]bool{"a1": true}}
	return NewService(repo, agents), repo
}

func TestCreateDefaultsSaleDate(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &Sale{
		AgentID:     "a1",
		ProductType: TypeProductA,
		Quantity:    types.NewQuantityFromInt(30),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.SaleDate.IsZero())
	assert.Len(t, repo.sales, 1)
}

func TestCreateKeepsExplicitSaleDate(t *testing.T) {
	svc, _ := newTestService()

	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(context.Background(), &Sale{
		AgentID:     "a1",
		ProductType: TypeMixed,
		Quantity:    types.NewQuantityFromInt(10),
		SaleDate:    date,
	})
	require.NoError(t, err)
	assert.Equal(t, date, created.SaleDate)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &Sale{AgentID: "a1", ProductType: "flour", Quantity: types.NewQuantityFromInt(1)})
	require.Error(t, err)

	_, err = svc.Create(ctx, &Sale{AgentID: "a1", ProductType: TypeProductA})
	require.Error(t, err)

	_, err = svc.Create(ctx, &Sale{AgentID: "ghost", ProductType: TypeProductA, Quantity: types.NewQuantityFromInt(1)})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &Sale{
		AgentID:     "a1",
		ProductType: TypeProductA,
		Quantity:    types.NewQuantityFromInt(5),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, repo.sales)
}

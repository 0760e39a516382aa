package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomur/internal/core/apperror"
	"nomur/internal/core/types"
	"nomur/internal/domain/agent"
)

type fakeRepo struct {
	admins map[string]*Admin
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{admins: map[string]*Admin{}}
}

func (r *fakeRepo) Create(_ context.Context, a *Admin) error {
	cp := *a
	r.admins[a.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Admin, error) {
	a, ok := r.admins[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) GetByPhone(_ context.Context, phone string) (*Admin, error) {
	for _, a := range r.admins {
		if a.Phone == phone {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) List(_ context.Context) ([]*Admin, error) {
	var out []*Admin
	for _, a := range r.admins {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	delete(r.admins, id)
	return nil
}

type fakeAgents struct {
	agents map[string]*agent.Agent
}

func (s *fakeAgents) GetByPhone(_ context.Context, phone string) (*agent.Agent, error) {
	for _, a := range s.agents {
		if a.Phone1 == phone || a.Phone2 == phone {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	agents := &fakeAgents{agents: map[string]*agent.Agent{
		"a1": {ID: "a1", Name: "North Depot", Phone1: "13900000001", Balance: types.MustMoney("1500")},
	}}
	return NewService(repo, agents), repo
}

func TestCreateDefaultsAndDuplicates(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &Admin{Name: " Wang ", Phone: " 13800000001 "})
	require.NoError(t, err)
	assert.Equal(t, "Wang", created.Name)
	assert.Equal(t, "13800000001", created.Phone)
	assert.Equal(t, RoleAdmin, created.Role)
	assert.True(t, created.IsActive)
	assert.Len(t, repo.admins, 1)

	_, err = svc.Create(ctx, &Admin{Name: "Li", Phone: "13800000001"})
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &Admin{Phone: "13800000001"})
	require.Error(t, err)

	_, err = svc.Create(ctx, &Admin{Name: "Wang"})
	require.Error(t, err)

	_, err = svc.Create(ctx, &Admin{Name: "Wang", Phone: "13800000001", Role: "root"})
	require.Error(t, err)
}

func TestVerifyAdmin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &Admin{Name: "Wang", Phone: "13800000001", Role: RoleSuperAdmin})
	require.NoError(t, err)

	result, err := svc.Verify(ctx, "13800000001", "admin")
	require.NoError(t, err)
	assert.True(t, result.Authorized)
	assert.Equal(t, "admin", result.UserType)
	assert.Equal(t, created.ID, result.UserID)
	assert.Equal(t, RoleSuperAdmin, result.Role)
}

func TestVerifyAgent(t *testing.T) {
	svc, _ := newTestService()

	result, err := svc.Verify(context.Background(), "13900000001", "agent")
	require.NoError(t, err)
	assert.True(t, result.Authorized)
	assert.Equal(t, "agent", result.UserType)
	assert.Equal(t, "a1", result.UserID)
	assert.Equal(t, "North Depot", result.UserName)
	assert.Equal(t, float64(1500), result.Balance)
}

func TestVerifyUnknownPhoneIsNotAnError(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, role := range []string{"admin", "agent", "bogus"} {
		result, err := svc.Verify(ctx, "10000000000", role)
		require.NoError(t, err)
		assert.False(t, result.Authorized)
		assert.NotEmpty(t, result.Message)
	}

	_, err := svc.Verify(ctx, "", "admin")
	require.Error(t, err)
}

func TestCheckPrivileged(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &Admin{Name: "Wang", Phone: "13800000001", Role: RoleAdmin})
	require.NoError(t, err)

	got, err := svc.CheckPrivileged(ctx, created.ID, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	// Presented role must match the stored one.
	_, err = svc.CheckPrivileged(ctx, created.ID, RoleSuperAdmin)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)

	_, err = svc.CheckPrivileged(ctx, "", RoleAdmin)
	require.Error(t, err)

	_, err = svc.CheckPrivileged(ctx, "missing", RoleAdmin)
	require.Error(t, err)

	repo.admins[created.ID].IsActive = false
	_, err = svc.CheckPrivileged(ctx, created.ID, RoleAdmin)
	require.Error(t, err)
}

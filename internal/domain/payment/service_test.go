package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomur/internal/core/apperror"
	"nomur/internal/core/types"
	"nomur/internal/domain/ledger"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	accounts map[string]*Account
	txCounts map[string]int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{accounts: map[string]*Account{}, txCounts: map[string]int64{}}
}

func (r *fakeRepo) Create(_ context.Context, a *Account) error {
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) ListActive(_ context.Context) ([]*Account, error) {
	var out []*Account
	for _, a := range r.accounts {
		if a.IsActive {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, a *Account) error {
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

func (r *fakeRepo) SetBalance(_ context.Context, id string, balance types.Money) error {
	r.accounts[id].Balance = balance
	return nil
}

func (r *fakeRepo) Deactivate(_ context.Context, id string) error {
	r.accounts[id].IsActive = false
	return nil
}

func (r *fakeRepo) CountTransactions(_ context.Context, accountID string) (int64, error) {
	return r.txCounts[accountID], nil
}

type fakeLedger struct {
	entries []*ledger.Transaction
}

func (l *fakeLedger) Insert(_ context.Context, t *ledger.Transaction) error {
	cp := *t
	l.entries = append(l.entries, &cp)
	return nil
}

func (l *fakeLedger) SumByAccount(_ context.Context, accountID string) (types.Money, error) {
	sum := types.Zero()
	for _, t := range l.entries {
		if t.PaymentAccountID == accountID {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

func (l *fakeLedger) ListByAccount(_ context.Context, accountID string) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction
	for _, t := range l.entries {
		if t.PaymentAccountID == accountID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeRepo, *fakeLedger) {
	repo := newFakeRepo()
	entries := &fakeLedger{}
	return NewService(repo, entries, fakeTxManager{}), repo, entries
}

func TestCreateDefaults(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(context.Background(), &Account{Name: "  Main Account "})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Main Account", created.Name)
	assert.True(t, created.Balance.IsZero())
	assert.True(t, created.IsActive)

	_, err = svc.Create(context.Background(), &Account{Name: "   "})
	require.Error(t, err)
}

func TestListActiveComputesEffectiveBalance(t *testing.T) {
	svc, _, entries := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &Account{Name: "Main"})
	require.NoError(t, err)
	require.NoError(t, svc.SetOpeningBalance(ctx, created.ID, types.MustMoney("1000")))

	require.NoError(t, entries.Insert(ctx, &ledger.Transaction{
		ID: "t1", PaymentAccountID: created.ID, Type: ledger.TypeRecharge,
		Reason: ledger.ReasonPayment, Amount: types.MustMoney("500"),
	}))
	require.NoError(t, entries.Insert(ctx, &ledger.Transaction{
		ID: "t2", PaymentAccountID: created.ID, Type: ledger.TypeDeduct,
		Reason: ledger.ReasonWithdraw, Amount: types.MustMoney("-200"),
	}))

	accounts, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	// Opening 1000 plus ledger sum 300.
	assert.True(t, accounts[0].Balance.Equal(types.MustMoney("1300")), "balance = %s", accounts[0].Balance)
}

func TestDeductChecksEffectiveBalance(t *testing.T) {
	svc, _, entries := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &Account{Name: "Main"})
	require.NoError(t, err)
	require.NoError(t, svc.SetOpeningBalance(ctx, created.ID, types.MustMoney("100")))

	entry, err := svc.Deduct(ctx, created.ID, types.MustMoney("60"), ledger.ReasonFee, "bank fee")
	require.NoError(t, err)
	assert.Equal(t, ledger.TypeDeduct, entry.Type)
	assert.True(t, entry.Amount.Equal(types.MustMoney("-60")))
	assert.Empty(t, entry.AgentID)

	// 100 - 60 = 40 left; another 60 must be refused.
	_, err = svc.Deduct(ctx, created.ID, types.MustMoney("60"), ledger.ReasonFee, "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientBalance, appErr.Code)

	// The refused deduct wrote nothing.
	sum, err := entries.SumByAccount(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(types.MustMoney("-60")))
}

func TestDeductValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Deduct(ctx, "any", types.Zero(), "", "")
	require.Error(t, err)

	_, err = svc.Deduct(ctx, "missing", types.MustMoney("10"), "", "")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeactivateRefusedWhileReferenced(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &Account{Name: "Main"})
	require.NoError(t, err)

	repo.txCounts[created.ID] = 3
	err = svc.Deactivate(ctx, created.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeReferenced, appErr.Code)

	repo.txCounts[created.ID] = 0
	require.NoError(t, svc.Deactivate(ctx, created.ID))
	assert.False(t, repo.accounts[created.ID].IsActive)
}

func TestUpdatePreservesBalanceAndState(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &Account{Name: "Main"})
	require.NoError(t, err)
	require.NoError(t, svc.SetOpeningBalance(ctx, created.ID, types.MustMoney("900")))

	err = svc.Update(ctx, &Account{
		ID:      created.ID,
		Name:    "Renamed",
		Balance: types.MustMoney("999999"),
	})
	require.NoError(t, err)

	stored := repo.accounts[created.ID]
	assert.Equal(t, "Renamed", stored.Name)
	assert.True(t, stored.Balance.Equal(types.MustMoney("900")))
	assert.True(t, stored.IsActive)
}

func TestRechargesFiltersIncomingPayments(t *testing.T) {
	svc, _, entries := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &Account{Name: "Main"})
	require.NoError(t, err)

	require.NoError(t, entries.Insert(ctx, &ledger.Transaction{
		ID: "t1", PaymentAccountID: created.ID, Type: ledger.TypeRecharge,
		Reason: ledger.ReasonPayment, Amount: types.MustMoney("300"),
	}))
	require.NoError(t, entries.Insert(ctx, &ledger.Transaction{
		ID: "t2", PaymentAccountID: created.ID, Type: ledger.TypeDeduct,
		Reason: ledger.ReasonWithdraw, Amount: types.MustMoney("-100"),
	}))
	require.NoError(t, entries.Insert(ctx, &ledger.Transaction{
		ID: "t3", PaymentAccountID: created.ID, Type: ledger.TypeRecharge,
		Reason: ledger.ReasonPayment, Amount: types.MustMoney("200"),
	}))

	listing, err := svc.Recharges(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, listing.Summary.TotalCount)
	assert.True(t, listing.Summary.TotalAmount.Equal(types.MustMoney("500")))
	assert.Len(t, listing.Transactions, 2)
}

func TestBalanceDetails(t *testing.T) {
	svc, _, entries := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &Account{Name: "Main"})
	require.NoError(t, err)
	require.NoError(t, svc.SetOpeningBalance(ctx, created.ID, types.MustMoney("50")))

	require.NoError(t, entries.Insert(ctx, &ledger.Transaction{
		ID: "t1", PaymentAccountID: created.ID, Type: ledger.TypeRecharge,
		Reason: ledger.ReasonPayment, Amount: types.MustMoney("25"),
	}))

	details, err := svc.BalanceDetails(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, details.Account.Balance.Equal(types.MustMoney("75")))
	assert.Len(t, details.Transactions, 1)
}

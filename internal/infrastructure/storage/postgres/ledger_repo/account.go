package ledger_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"nomur/internal/core/types"
	"nomur/internal/domain/payment"
	"nomur/internal/infrastructure/storage/postgres"
)

const accountsTable = "payment_accounts"

var accountColumns = []string{
	"id", "name", "account_no", "bank_name", "qr_code", "balance", "is_active", "created_at",
}

type accountRow struct {
	ID        string      `db:"id"`
	Name      string      `db:"name"`
	AccountNo string      `db:"account_no"`
	BankName  string      `db:"bank_name"`
	QRCode    string      `db:"qr_code"`
	Balance   types.Money `db:"balance"`
	IsActive  bool        `db:"is_active"`
	CreatedAt time.Time   `db:"created_at"`
}

func (r *accountRow) toDomain() *payment.Account {
	return &payment.Account{
		ID:        r.ID,
		Name:      r.Name,
		AccountNo: r.AccountNo,
		BankName:  r.BankName,
		QRCode:    r.QRCode,
		Balance:   r.Balance,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
	}
}

// AccountRepo implements payment.Repository.
type AccountRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewAccountRepo creates a new payment account repository.
func NewAccountRepo(txManager *postgres.TxManager) *AccountRepo {
	return &AccountRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *AccountRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts an account row.
func (r *AccountRepo) Create(ctx context.Context, a *payment.Account) error {
	sql, args, err := r.builder.Insert(accountsTable).
		Columns(accountColumns...).
		Values(a.ID, a.Name, a.AccountNo, a.BankName, a.QRCode, a.Balance, a.IsActive, a.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID loads an account, nil when missing.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*payment.Account, error) {
	sql, args, err := r.builder.Select(accountColumns...).
		From(accountsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row accountRow
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return row.toDomain(), nil
}

// ListActive returns active accounts in insertion order.
func (r *AccountRepo) ListActive(ctx context.Context) ([]*payment.Account, error) {
	sql, args, err := r.builder.Select(accountColumns...).
		From(accountsTable).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []*accountRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	accounts := make([]*payment.Account, len(rows))
	for i, row := range rows {
		accounts[i] = row.toDomain()
	}
	return accounts, nil
}

// Update rewrites the descriptive columns. Stored balance moves only
// through SetBalance.
func (r *AccountRepo) Update(ctx context.Context, a *payment.Account) error {
	sql, args, err := r.builder.Update(accountsTable).
		Set("name", a.Name).
		Set("account_no", a.AccountNo).
		Set("bank_name", a.BankName).
		Set("qr_code", a.QRCode).
		Where(squirrel.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

// SetBalance rewrites the stored opening balance.
func (r *AccountRepo) SetBalance(ctx context.Context, id string, balance types.Money) error {
	sql, args, err := r.builder.Update(accountsTable).
		Set("balance", balance).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}

// Deactivate soft-deletes an account.
func (r *AccountRepo) Deactivate(ctx context.Context, id string) error {
	sql, args, err := r.builder.Update(accountsTable).
		Set("is_active", false).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("deactivate account: %w", err)
	}
	return nil
}

// CountTransactions counts ledger entries referencing the account.
func (r *AccountRepo) CountTransactions(ctx context.Context, accountID string) (int64, error) {
	var count int64
	err := r.querier(ctx).
		QueryRow(ctx, "SELECT COUNT(*) FROM "+transactionsTable+
			" WHERE payment_account_id = $1", accountID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count account transactions: %w", err)
	}
	return count, nil
}

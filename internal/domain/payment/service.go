package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nomur/internal/core/apperror"
	"nomur/internal/core/id"
	"nomur/internal/core/tx"
	"nomur/internal/core/types"
	"nomur/internal/domain/ledger"
	"nomur/pkg/logger"
)

// BalanceDetails is the account view with its full ledger history.
type BalanceDetails struct {
	Account      *Account              `json:"account"`
	Transactions []*ledger.Transaction `json:"transactions"`
}

// RechargeListing is the per-account incoming payment view.
type RechargeListing struct {
	Transactions []*ledger.Transaction `json:"transactions"`
	Summary      RechargeSummary       `json:"summary"`
}

// RechargeSummary totals an account's incoming payments.
type RechargeSummary struct {
	TotalCount  int         `json:"totalCount"`
	TotalAmount types.Money `json:"totalAmount"`
}

// Service provides payment account operations.
type Service struct {
	repo      Repository
	entries   LedgerStore
	txManager tx.Manager
}

// NewService creates a new payment account service.
func NewService(repo Repository, entries LedgerStore, txManager tx.Manager) *Service {
	return &Service{repo: repo, entries: entries, txManager: txManager}
}

// Create inserts a new account.
func (s *Service) Create(ctx context.Context, a *Account) (*Account, error) {
	if strings.TrimSpace(a.Name) == "" {
		return nil, apperror.NewValidation("account name is required")
	}

	if a.ID == "" {
		a.ID = id.New().String()
	}
	a.Name = strings.TrimSpace(a.Name)
	a.Balance = types.Zero()
	a.IsActive = true
	a.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create payment account: %w", err)
	}

	logger.Info(ctx, "payment account created", "account_id", a.ID, "name", a.Name)
	return a, nil
}

// ListActive returns active accounts with effective balances
// (opening balance plus the account's ledger sum).
func (s *Service) ListActive(ctx context.Context) ([]*Account, error) {
	accounts, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	for _, a := range accounts {
		sum, err := s.entries.SumByAccount(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("sum account %s: %w", a.ID, err)
		}
		a.Balance = a.Balance.Add(sum)
	}
	return accounts, nil
}

// Update modifies account profile fields. Name is required.
func (s *Service) Update(ctx context.Context, a *Account) error {
	if strings.TrimSpace(a.Name) == "" {
		return apperror.NewValidation("account name is required")
	}

	existing, err := s.get(ctx, a.ID)
	if err != nil {
		return err
	}
	a.Name = strings.TrimSpace(a.Name)
	a.Balance = existing.Balance
	a.IsActive = existing.IsActive
	a.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, a); err != nil {
		return fmt.Errorf("update payment account: %w", err)
	}

	logger.Info(ctx, "payment account updated", "account_id", a.ID)
	return nil
}

// Deactivate soft-deletes an account. Refused while ledger entries
// reference it.
func (s *Service) Deactivate(ctx context.Context, accountID string) error {
	if _, err := s.get(ctx, accountID); err != nil {
		return err
	}

	count, err := s.repo.CountTransactions(ctx, accountID)
	if err != nil {
		return fmt.Errorf("count account transactions: %w", err)
	}
	if count > 0 {
		return apperror.NewReferenced("account has transactions and cannot be deleted")
	}

	if err := s.repo.Deactivate(ctx, accountID); err != nil {
		return fmt.Errorf("deactivate payment account: %w", err)
	}

	logger.Info(ctx, "payment account deactivated", "account_id", accountID)
	return nil
}

// SetOpeningBalance overwrites the stored opening balance.
func (s *Service) SetOpeningBalance(ctx context.Context, accountID string, balance types.Money) error {
	if _, err := s.get(ctx, accountID); err != nil {
		return err
	}
	if err := s.repo.SetBalance(ctx, accountID, balance); err != nil {
		return fmt.Errorf("set opening balance: %w", err)
	}
	logger.Info(ctx, "payment account opening balance set", "account_id", accountID, "balance", balance)
	return nil
}

// BalanceDetails returns the account with its effective balance and
// full transaction history.
func (s *Service) BalanceDetails(ctx context.Context, accountID string) (*BalanceDetails, error) {
	account, err := s.get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.entries.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list account transactions: %w", err)
	}

	balance := account.Balance
	for _, t := range transactions {
		balance = balance.Add(t.Amount)
	}
	account.Balance = balance

	return &BalanceDetails{Account: account, Transactions: transactions}, nil
}

// Recharges returns the account's incoming payments with totals.
func (s *Service) Recharges(ctx context.Context, accountID string) (*RechargeListing, error) {
	if _, err := s.get(ctx, accountID); err != nil {
		return nil, err
	}

	all, err := s.entries.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list account transactions: %w", err)
	}

	incoming := make([]*ledger.Transaction, 0, len(all))
	total := types.Zero()
	for _, t := range all {
		if t.Type == ledger.TypeRecharge && t.Reason == ledger.ReasonPayment {
			incoming = append(incoming, t)
			total = total.Add(t.Amount)
		}
	}

	return &RechargeListing{
		Transactions: incoming,
		Summary:      RechargeSummary{TotalCount: len(incoming), TotalAmount: total},
	}, nil
}

// Deduct charges an account. The effective balance must cover the
// amount; the entry carries no agent and never moves agent balances.
func (s *Service) Deduct(ctx context.Context, accountID string, amount types.Money, reason, remark string) (*ledger.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("deduct amount must be positive")
	}
	if reason == "" {
		reason = ledger.ReasonOther
	}

	var entry *ledger.Transaction
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		account, err := s.get(ctx, accountID)
		if err != nil {
			return err
		}

		sum, err := s.entries.SumByAccount(ctx, accountID)
		if err != nil {
			return fmt.Errorf("sum account: %w", err)
		}
		effective := account.Balance.Add(sum)
		if effective.LessThan(amount) {
			return apperror.NewInsufficientBalance(accountID, amount, effective)
		}

		entry = &ledger.Transaction{
			ID:               id.New().String(),
			PaymentAccountID: accountID,
			Type:             ledger.TypeDeduct,
			Reason:           reason,
			Amount:           amount.Neg(),
			Remark:           remark,
			CreatedAt:        time.Now().UTC(),
		}
		if err := s.entries.Insert(ctx, entry); err != nil {
			return fmt.Errorf("insert account deduct: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "payment account deducted", "account_id", accountID, "amount", amount)
	return entry, nil
}

func (s *Service) get(ctx context.Context, accountID string) (*Account, error) {
	a, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperror.NewNotFound("payment account", accountID)
	}
	return a, nil
}

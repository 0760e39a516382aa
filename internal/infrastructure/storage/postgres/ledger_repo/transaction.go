// Package ledger_repo provides PostgreSQL storage for the transaction
// ledger and payment accounts.
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
	"nomur/internal/domain/jsonval"
	"nomur/internal/domain/ledger"
	"nomur/internal/domain/order"
	"nomur/internal/infrastructure/storage/postgres"
)

const transactionsTable = "transactions"

var transactionColumns = []string{
	"id", "agent_id", "payment_account_id", "type", "reason", "amount",
	"proof", "related_order_id", "related_agent_id", "product_id",
	"quantity", "remark", "created_at",
}

type transactionRow struct {
	ID               string          `db:"id"`
	AgentID          *string         `db:"agent_id"`
	PaymentAccountID *string         `db:"payment_account_id"`
	Type             string          `db:"type"`
	Reason           string          `db:"reason"`
	Amount           types.Money     `db:"amount"`
	Proof            []byte          `db:"proof"`
	RelatedOrderID   *string         `db:"related_order_id"`
	RelatedAgentID   *string         `db:"related_agent_id"`
	ProductID        *string         `db:"product_id"`
	Quantity         *types.Quantity `db:"quantity"`
	Remark           string          `db:"remark"`
	CreatedAt        time.Time       `db:"created_at"`

	AgentName          *string `db:"agent_name"`
	PaymentAccountName *string `db:"payment_account_name"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *transactionRow) toDomain() *ledger.Transaction {
	t := &ledger.Transaction{
		ID:                 r.ID,
		AgentID:            deref(r.AgentID),
		PaymentAccountID:   deref(r.PaymentAccountID),
		Type:               r.Type,
		Reason:             r.Reason,
		Amount:             r.Amount,
		Proof:              jsonval.DecodeStrings(r.Proof),
		RelatedOrderID:     deref(r.RelatedOrderID),
		RelatedAgentID:     deref(r.RelatedAgentID),
		ProductID:          deref(r.ProductID),
		Remark:             r.Remark,
		CreatedAt:          r.CreatedAt,
		AgentName:          deref(r.AgentName),
		PaymentAccountName: deref(r.PaymentAccountName),
	}
	if r.Quantity != nil {
		t.Quantity = *r.Quantity
	}
	return t
}

// TransactionRepo implements ledger.Repository and the ledger-facing
// stores of the order, payment and stats domains.
type TransactionRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewTransactionRepo creates a new transaction repository.
func NewTransactionRepo(txManager *postgres.TxManager) *TransactionRepo {
	return &TransactionRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *TransactionRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func proofValue(proof []string) any {
	switch len(proof) {
	case 0:
		return nil
	case 1:
		return proof[0]
	default:
		return jsonval.Encode(proof)
	}
}

func quantityValue(q types.Quantity) any {
	if q.IsZero() {
		return nil
	}
	return q
}

// Insert adds a ledger entry.
func (r *TransactionRepo) Insert(ctx context.Context, t *ledger.Transaction) error {
	sql, args, err := r.builder.Insert(transactionsTable).
		Columns(transactionColumns...).
		Values(
			t.ID, nullable(t.AgentID), nullable(t.PaymentAccountID),
			t.Type, t.Reason, t.Amount, proofValue(t.Proof),
			nullable(t.RelatedOrderID), nullable(t.RelatedAgentID),
			nullable(t.ProductID), quantityValue(t.Quantity),
			t.Remark, t.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepo) getBy(ctx context.Context, id string, forUpdate bool) (*ledger.Transaction, error) {
	q := r.builder.Select(transactionColumns...).
		From(transactionsTable).
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row transactionRow
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return row.toDomain(), nil
}

// GetByID loads a ledger entry, nil when missing.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*ledger.Transaction, error) {
	return r.getBy(ctx, id, false)
}

// GetByIDForUpdate loads a ledger entry with a row lock.
func (r *TransactionRepo) GetByIDForUpdate(ctx context.Context, id string) (*ledger.Transaction, error) {
	return r.getBy(ctx, id, true)
}

func prefixed(columns []string, alias string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

// List returns entries newest first with agent and payment account names
// joined, optionally filtered by agent. Entries linked to an order carry
// that order's display items.
func (r *TransactionRepo) List(ctx context.Context, agentID string) ([]*ledger.Transaction, error) {
	q := r.builder.Select(append(prefixed(transactionColumns, "t"),
		"a.name AS agent_name",
		"pa.name AS payment_account_name",
	)...).
		From(transactionsTable + " t").
		LeftJoin("agents a ON t.agent_id = a.id").
		LeftJoin("payment_accounts pa ON t.payment_account_id = pa.id").
		OrderBy("t.created_at DESC")
	if agentID != "" {
		q = q.Where(squirrel.Eq{"t.agent_id": agentID})
	}

	transactions, err := r.list(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := r.attachOrderItems(ctx, transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *TransactionRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*ledger.Transaction, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []*transactionRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	transactions := make([]*ledger.Transaction, len(rows))
	for i, row := range rows {
		transactions[i] = row.toDomain()
	}
	return transactions, nil
}

// attachOrderItems fills the display items for entries linked to an
// order. Group lines collapse to one entry with the group count.
func (r *TransactionRepo) attachOrderItems(ctx context.Context, transactions []*ledger.Transaction) error {
	orderIDs := make([]string, 0)
	seen := make(map[string]bool)
	for _, t := range transactions {
		if t.RelatedOrderID != "" && !seen[t.RelatedOrderID] {
			seen[t.RelatedOrderID] = true
			orderIDs = append(orderIDs, t.RelatedOrderID)
		}
	}
	if len(orderIDs) == 0 {
		return nil
	}

	sql, args, err := r.builder.Select("id", "items").
		From("orders").
		Where(squirrel.Eq{"id": orderIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build select: %w", err)
	}

	rows, err := r.querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	summaries := make(map[string][]ledger.OrderItemSummary, len(orderIDs))
	for rows.Next() {
		var orderID string
		var raw []byte
		if err := rows.Scan(&orderID, &raw); err != nil {
			return fmt.Errorf("scan order items: %w", err)
		}
		summaries[orderID] = summarizeItems(jsonval.DecodeSlice[order.Item](raw))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load order items: %w", err)
	}

	for _, t := range transactions {
		if t.RelatedOrderID != "" {
			t.OrderItems = summaries[t.RelatedOrderID]
		}
	}
	return nil
}

func summarizeItems(items []order.Item) []ledger.OrderItemSummary {
	out := make([]ledger.OrderItemSummary, 0, len(items))
	seenGroups := make(map[string]bool)
	for _, item := range items {
		if item.GroupID != "" && item.GroupName != "" && !item.GroupQuantity.IsZero() {
			if seenGroups[item.GroupID] {
				continue
			}
			seenGroups[item.GroupID] = true
			out = append(out, ledger.OrderItemSummary{
				ProductName: item.GroupName,
				Quantity:    item.GroupQuantity,
				GroupID:     item.GroupID,
			})
			continue
		}
		out = append(out, ledger.OrderItemSummary{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		})
	}
	return out
}

// Update rewrites the editable columns. The type column never changes.
func (r *TransactionRepo) Update(ctx context.Context, t *ledger.Transaction) error {
	sql, args, err := r.builder.Update(transactionsTable).
		Set("agent_id", nullable(t.AgentID)).
		Set("payment_account_id", nullable(t.PaymentAccountID)).
		Set("reason", t.Reason).
		Set("amount", t.Amount).
		Set("proof", proofValue(t.Proof)).
		Set("related_agent_id", nullable(t.RelatedAgentID)).
		Set("product_id", nullable(t.ProductID)).
		Set("quantity", quantityValue(t.Quantity)).
		Set("remark", t.Remark).
		Where(squirrel.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

// Delete removes a ledger entry.
func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	sql, args, err := r.builder.Delete(transactionsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// SumByAccount returns the signed amount sum for a payment account.
func (r *TransactionRepo) SumByAccount(ctx context.Context, accountID string) (types.Money, error) {
	var sum types.Money
	err := r.querier(ctx).
		QueryRow(ctx, "SELECT COALESCE(SUM(amount), 0) FROM "+transactionsTable+
			" WHERE payment_account_id = $1", accountID).
		Scan(&sum)
	if err != nil {
		return types.Money{}, fmt.Errorf("sum by account: %w", err)
	}
	return sum, nil
}

// ListByAccount returns an account's entries newest first.
func (r *TransactionRepo) ListByAccount(ctx context.Context, accountID string) ([]*ledger.Transaction, error) {
	return r.list(ctx, r.builder.Select(append(prefixed(transactionColumns, "t"),
		"a.name AS agent_name",
		"pa.name AS payment_account_name",
	)...).
		From(transactionsTable+" t").
		LeftJoin("agents a ON t.agent_id = a.id").
		LeftJoin("payment_accounts pa ON t.payment_account_id = pa.id").
		Where(squirrel.Eq{"t.payment_account_id": accountID}).
		OrderBy("t.created_at DESC"))
}

// UpdateShippingAmount rewrites the amount of the shipping entry linked
// to an order.
func (r *TransactionRepo) UpdateShippingAmount(ctx context.Context, orderID string, amount types.Money) error {
	sql, args, err := r.builder.Update(transactionsTable).
		Set("amount", amount).
		Where(squirrel.Eq{"related_order_id": orderID, "reason": ledger.ReasonShipping}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update shipping amount: %w", err)
	}
	return nil
}

// DeleteByOrder removes the entries linked to an order.
func (r *TransactionRepo) DeleteByOrder(ctx context.Context, orderID string) error {
	sql, args, err := r.builder.Delete(transactionsTable).
		Where(squirrel.Eq{"related_order_id": orderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete by order: %w", err)
	}
	return nil
}

// TransferredQuantities sums the product quantities an agent moved out
// through transfers in the given year. Transfer credits on the source
// agent carry the product and quantity.
func (r *TransactionRepo) TransferredQuantities(ctx context.Context, agentID string, year int) (map[string]types.Quantity, error) {
	const q = `SELECT product_id, COALESCE(SUM(quantity), 0) FROM transactions
		WHERE agent_id = $1 AND type = $2 AND reason = $3
		AND EXTRACT(YEAR FROM created_at) = $4
		AND product_id IS NOT NULL AND quantity IS NOT NULL
		GROUP BY product_id`

	rows, err := r.querier(ctx).Query(ctx, q, agentID, ledger.TypeRecharge, ledger.ReasonTransferIn, year)
	if err != nil {
		return nil, fmt.Errorf("transferred quantities: %w", err)
	}
	defer rows.Close()

	out := make(map[string]types.Quantity)
	for rows.Next() {
		var productID string
		var qty types.Quantity
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("scan transferred quantity: %w", err)
		}
		out[productID] = qty
	}
	return out, rows.Err()
}

// Package agent_repo provides PostgreSQL storage for agents, admins and
// supplement sales.
package agent_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"nomur/internal/core/apperror"
	"nomur/internal/core/types"
	"nomur/internal/domain/agent"
	"nomur/internal/domain/jsonval"
	"nomur/internal/infrastructure/storage/postgres"
)

const agentsTable = "agents"

var agentColumns = []string{
	"id", "avatar", "name", "phone1", "phone2", "address",
	"yearly_targets", "balance", "sort_order", "created_at", "updated_at",
}

type agentRow struct {
	ID            string      `db:"id"`
	Avatar        string      `db:"avatar"`
	Name          string      `db:"name"`
	Phone1        string      `db:"phone1"`
	Phone2        string      `db:"phone2"`
	Address       string      `db:"address"`
	YearlyTargets []byte      `db:"yearly_targets"`
	Balance       types.Money `db:"balance"`
	SortOrder     int         `db:"sort_order"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

func (r *agentRow) toDomain() *agent.Agent {
	return &agent.Agent{
		ID:            r.ID,
		Avatar:        r.Avatar,
		Name:          r.Name,
		Phone1:        r.Phone1,
		Phone2:        r.Phone2,
		Address:       r.Address,
		YearlyTargets: jsonval.DecodeMap[agent.TargetValue](r.YearlyTargets),
		Balance:       r.Balance,
		SortOrder:     r.SortOrder,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// AgentRepo implements agent.Repository and the agent-facing stores of
// the other domains (row locks, existence checks, balance adjustments).
type AgentRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewAgentRepo creates a new agent repository.
func NewAgentRepo(txManager *postgres.TxManager) *AgentRepo {
	return &AgentRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *AgentRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts an agent row.
func (r *AgentRepo) Create(ctx context.Context, a *agent.Agent) error {
	sql, args, err := r.builder.Insert(agentsTable).
		Columns(agentColumns...).
		Values(
			a.ID, a.Avatar, a.Name, a.Phone1, a.Phone2, a.Address,
			jsonval.Encode(a.YearlyTargets), a.Balance, a.SortOrder,
			a.CreatedAt, a.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert agent: %w", err)
	}
	return nil
}

func (r *AgentRepo) getBy(ctx context.Context, q squirrel.SelectBuilder) (*agent.Agent, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row agentRow
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get agent: %w", err)
	}
	return row.toDomain(), nil
}

// GetByID loads an agent, nil when missing.
func (r *AgentRepo) GetByID(ctx context.Context, id string) (*agent.Agent, error) {
	return r.getBy(ctx, r.builder.Select(agentColumns...).
		From(agentsTable).
		Where(squirrel.Eq{"id": id}))
}

// GetByIDForUpdate loads an agent with a row lock.
func (r *AgentRepo) GetByIDForUpdate(ctx context.Context, id string) (*agent.Agent, error) {
	return r.getBy(ctx, r.builder.Select(agentColumns...).
		From(agentsTable).
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE"))
}

// GetByPhone matches either phone column.
func (r *AgentRepo) GetByPhone(ctx context.Context, phone string) (*agent.Agent, error) {
	return r.getBy(ctx, r.builder.Select(agentColumns...).
		From(agentsTable).
		Where(squirrel.Or{
			squirrel.Eq{"phone1": phone},
			squirrel.Eq{"phone2": phone},
		}).
		Limit(1))
}

// List returns agents ordered by sort_order ASC, created_at DESC.
func (r *AgentRepo) List(ctx context.Context) ([]*agent.Agent, error) {
	sql, args, err := r.builder.Select(agentColumns...).
		From(agentsTable).
		OrderBy("sort_order ASC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []*agentRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}

	agents := make([]*agent.Agent, len(rows))
	for i, row := range rows {
		agents[i] = row.toDomain()
	}
	return agents, nil
}

// Update rewrites the mutable columns. Balance and created_at never move
// here; balance changes go through AdjustBalance.
func (r *AgentRepo) Update(ctx context.Context, a *agent.Agent) error {
	sql, args, err := r.builder.Update(agentsTable).
		Set("avatar", a.Avatar).
		Set("name", a.Name).
		Set("phone1", a.Phone1).
		Set("phone2", a.Phone2).
		Set("address", a.Address).
		Set("yearly_targets", jsonval.Encode(a.YearlyTargets)).
		Set("sort_order", a.SortOrder).
		Set("updated_at", a.UpdatedAt).
		Where(squirrel.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update agent: %w", err)
	}
	return nil
}

// Delete removes an agent row.
func (r *AgentRepo) Delete(ctx context.Context, id string) error {
	sql, args, err := r.builder.Delete(agentsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}
	return nil
}

// AdjustBalance applies a relative balance change.
func (r *AgentRepo) AdjustBalance(ctx context.Context, id string, delta types.Money) error {
	sql, args, err := r.builder.Update(agentsTable).
		Set("balance", squirrel.Expr("balance + ?", delta)).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	return nil
}

// MaxSortOrder returns the highest sort_order, 0 when the table is empty.
func (r *AgentRepo) MaxSortOrder(ctx context.Context) (int, error) {
	var max int
	err := r.querier(ctx).
		QueryRow(ctx, "SELECT COALESCE(MAX(sort_order), 0) FROM "+agentsTable).
		Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max sort order: %w", err)
	}
	return max, nil
}

// UpdateSortOrder moves one agent in the display order.
func (r *AgentRepo) UpdateSortOrder(ctx context.Context, id string, sortOrder int) error {
	sql, args, err := r.builder.Update(agentsTable).
		Set("sort_order", sortOrder).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update sort order: %w", err)
	}
	return nil
}

// CountOrders counts an agent's orders, guarding deletion.
func (r *AgentRepo) CountOrders(ctx context.Context, agentID string) (int64, error) {
	return r.countRows(ctx, "orders", agentID)
}

// CountTransactions counts an agent's ledger entries, guarding deletion.
func (r *AgentRepo) CountTransactions(ctx context.Context, agentID string) (int64, error) {
	return r.countRows(ctx, "transactions", agentID)
}

func (r *AgentRepo) countRows(ctx context.Context, table, agentID string) (int64, error) {
	sql, args, err := r.builder.Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{"agent_id": agentID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int64
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}

// LockAgent takes the agent's row lock, failing with not-found when the
// agent is missing.
func (r *AgentRepo) LockAgent(ctx context.Context, agentID string) error {
	var id string
	err := r.querier(ctx).
		QueryRow(ctx, "SELECT id FROM "+agentsTable+" WHERE id = $1 FOR UPDATE", agentID).
		Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFound("agent", agentID)
		}
		return fmt.Errorf("lock agent: %w", err)
	}
	return nil
}

// AgentExists reports whether the agent row exists.
func (r *AgentRepo) AgentExists(ctx context.Context, agentID string) (bool, error) {
	var exists bool
	err := r.querier(ctx).
		QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM "+agentsTable+" WHERE id = $1)", agentID).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("agent exists: %w", err)
	}
	return exists, nil
}

// AgentName returns the agent's display name, empty when missing.
func (r *AgentRepo) AgentName(ctx context.Context, agentID string) (string, error) {
	var name string
	err := r.querier(ctx).
		QueryRow(ctx, "SELECT name FROM "+agentsTable+" WHERE id = $1", agentID).
		Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("agent name: %w", err)
	}
	return name, nil
}

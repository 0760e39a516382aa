package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"nomur/internal/domain/upload"
	"nomur/internal/infrastructure/storage/postgres"
)

const uploadsTable = "upload_records"

var uploadColumns = []string{
	"id", "filename", "upload_type", "related_id", "agent_id", "created_at",
}

type uploadRow struct {
	ID         string    `db:"id"`
	Filename   string    `db:"filename"`
	UploadType string    `db:"upload_type"`
	RelatedID  string    `db:"related_id"`
	AgentID    string    `db:"agent_id"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r *uploadRow) toDomain() *upload.Record {
	return &upload.Record{
		ID:         r.ID,
		Filename:   r.Filename,
		UploadType: r.UploadType,
		RelatedID:  r.RelatedID,
		AgentID:    r.AgentID,
		CreatedAt:  r.CreatedAt,
	}
}

// UploadRepo implements upload.Repository.
type UploadRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewUploadRepo creates a new upload record repository.
func NewUploadRepo(txManager *postgres.TxManager) *UploadRepo {
	return &UploadRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *UploadRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Insert registers a filename.
func (r *UploadRepo) Insert(ctx context.Context, rec *upload.Record) error {
	sql, args, err := r.builder.Insert(uploadsTable).
		Columns(uploadColumns...).
		Values(rec.ID, rec.Filename, rec.UploadType, rec.RelatedID, rec.AgentID, rec.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert upload record: %w", err)
	}
	return nil
}

// FindByFilename returns the record registered for a filename, nil when
// the filename is unused.
func (r *UploadRepo) FindByFilename(ctx context.Context, filename string) (*upload.Record, error) {
	sql, args, err := r.builder.Select(uploadColumns...).
		From(uploadsTable).
		Where(squirrel.Eq{"filename": filename}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row uploadRow
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find upload record: %w", err)
	}
	return row.toDomain(), nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/rzkdmln/sicakap/internal/core/apperror"
	"github.com/rzkdmln/sicakap/internal/domain/redaksi"
)

const redaksiTable = "redaksi"

// Compile-time check.
var _ redaksi.Repository = (*RedaksiRepo)(nil)

// RedaksiRepo implements redaksi.Repository on postgres.
type RedaksiRepo struct {
	txManager *TxManager
	columns   []string
}

// NewRedaksiRepo creates the repository.
func NewRedaksiRepo(txManager *TxManager) *RedaksiRepo {
	return &RedaksiRepo{
		txManager: txManager,
		columns:   ExtractDBColumns[redaksi.Redaksi](),
	}
}

func (r *RedaksiRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *RedaksiRepo) Create(ctx context.Context, rd *redaksi.Redaksi) (int64, error) {
	now := time.Now()
	q := r.builder().
		Insert(redaksiTable).
		Columns("title", "content", "created_at", "updated_at").
		Values(rd.Title, rd.Content, now, now).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, apperror.NewDatabase(fmt.Errorf("insert redaksi: %w", err))
	}
	return id, nil
}

func (r *RedaksiRepo) GetByID(ctx context.Context, id int64) (*redaksi.Redaksi, error) {
	q := r.builder().Select(r.columns...).From(redaksiTable).
		Where(squirrel.Eq{"id": id}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rd redaksi.Redaksi
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rd, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("redaksi", id)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get redaksi: %w", err))
	}
	return &rd, nil
}

func (r *RedaksiRepo) Update(ctx context.Context, rd *redaksi.Redaksi) error {
	q := r.builder().
		Update(redaksiTable).
		Set("title", rd.Title).
		Set("content", rd.Content).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": rd.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("update redaksi: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("redaksi", rd.ID)
	}
	return nil
}

func (r *RedaksiRepo) Delete(ctx context.Context, id int64) error {
	q := r.builder().Delete(redaksiTable).Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("delete redaksi: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("redaksi", id)
	}
	return nil
}

func (r *RedaksiRepo) List(ctx context.Context) ([]redaksi.Redaksi, error) {
	q := r.builder().Select(r.columns...).From(redaksiTable).OrderBy("title ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []redaksi.Redaksi
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list redaksi: %w", err))
	}
	return items, nil
}

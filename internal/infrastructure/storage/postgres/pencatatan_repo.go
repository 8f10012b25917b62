package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rzkdmln/sicakap/internal/core/apperror"
	"github.com/rzkdmln/sicakap/internal/domain/pencatatan"
)

const pencatatanTable = "pencatatan"

// Compile-time check.
var _ pencatatan.Repository = (*PencatatanRepo)(nil)

// PencatatanRepo implements pencatatan.Repository on postgres.
type PencatatanRepo struct {
	txManager *TxManager
	columns   []string
}

// NewPencatatanRepo creates the repository.
func NewPencatatanRepo(txManager *TxManager) *PencatatanRepo {
	return &PencatatanRepo{
		txManager: txManager,
		columns:   ExtractDBColumns[pencatatan.Pencatatan](),
	}
}

func (r *PencatatanRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *PencatatanRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(r.columns...).From(pencatatanTable)
}

// Create inserts a record and returns its id.
func (r *PencatatanRepo) Create(ctx context.Context, rec *pencatatan.Pencatatan) (int64, error) {
	now := time.Now()
	q := r.builder().
		Insert(pencatatanTable).
		Columns("reg_number", "reg_date", "service_code", "nik", "name",
			"phone_number", "email", "no_skpwni", "no_skdwni", "no_kk", "no_skbwni",
			"status", "archive_path", "notes", "created_at", "updated_at").
		Values(rec.RegNumber, rec.RegDate, rec.ServiceCode, rec.NIK, rec.Name,
			rec.PhoneNumber, rec.Email, rec.NoSKPWNI, rec.NoSKDWNI, rec.NoKK, rec.NoSKBWNI,
			rec.Status, rec.ArchivePath, rec.Notes, now, now).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, apperror.NewDuplicate("pencatatan", "reg_number",
				fmt.Sprintf("%s/%d", rec.RegDate, rec.RegNumber))
		}
		return 0, apperror.NewDatabase(fmt.Errorf("insert pencatatan: %w", err))
	}
	return id, nil
}

// GetByID retrieves one record.
func (r *PencatatanRepo) GetByID(ctx context.Context, id int64) (*pencatatan.Pencatatan, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": id}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rec pencatatan.Pencatatan
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("pencatatan", id)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get pencatatan: %w", err))
	}
	return &rec, nil
}

// Update rewrites the mutable fields of a record.
func (r *PencatatanRepo) Update(ctx context.Context, rec *pencatatan.Pencatatan) error {
	q := r.builder().
		Update(pencatatanTable).
		Set("service_code", rec.ServiceCode).
		Set("nik", rec.NIK).
		Set("name", rec.Name).
		Set("phone_number", rec.PhoneNumber).
		Set("email", rec.Email).
		Set("no_skpwni", rec.NoSKPWNI).
		Set("no_skdwni", rec.NoSKDWNI).
		Set("no_kk", rec.NoKK).
		Set("no_skbwni", rec.NoSKBWNI).
		Set("status", rec.Status).
		Set("archive_path", rec.ArchivePath).
		Set("notes", rec.Notes).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": rec.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("update pencatatan: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("pencatatan", rec.ID)
	}
	return nil
}

// Delete removes a record.
func (r *PencatatanRepo) Delete(ctx context.Context, id int64) error {
	q := r.builder().Delete(pencatatanTable).Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("delete pencatatan: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("pencatatan", id)
	}
	return nil
}

// List returns records matching the filter, newest first.
func (r *PencatatanRepo) List(ctx context.Context, f pencatatan.Filter) ([]pencatatan.Pencatatan, error) {
	q := r.applyFilter(r.baseSelect(), f).
		OrderBy("reg_date DESC", "reg_number DESC").
		Limit(uint64(f.PerPage)).
		Offset(uint64(f.Offset()))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var recs []pencatatan.Pencatatan
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &recs, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list pencatatan: %w", err))
	}
	return recs, nil
}

// applyFilter adds WHERE clauses for the list filter.
func (r *PencatatanRepo) applyFilter(q squirrel.SelectBuilder, f pencatatan.Filter) squirrel.SelectBuilder {
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"nik": pattern},
			squirrel.Expr("reg_number::text LIKE ?", pattern),
		})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	if f.ServiceCode != "" {
		q = q.Where(squirrel.Eq{"service_code": f.ServiceCode})
	}
	if f.StartDate != "" {
		q = q.Where(squirrel.GtOrEq{"reg_date": f.StartDate})
	}
	if f.EndDate != "" {
		q = q.Where(squirrel.LtOrEq{"reg_date": f.EndDate})
	}
	return q
}

// Stats aggregates dashboard counters in a single round trip per facet.
func (r *PencatatanRepo) Stats(ctx context.Context, today string) (*pencatatan.Stats, error) {
	querier := r.txManager.GetQuerier(ctx)
	stats := &pencatatan.Stats{
		PerStatus:  make(map[string]int64),
		PerService: make(map[string]int64),
	}

	row := querier.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE reg_date = $1) FROM pencatatan`, today)
	if err := row.Scan(&stats.Total, &stats.Today); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("count pencatatan: %w", err))
	}

	if err := r.countBy(ctx, "status", stats.PerStatus); err != nil {
		return nil, err
	}
	if err := r.countBy(ctx, "service_code", stats.PerService); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *PencatatanRepo) countBy(ctx context.Context, column string, into map[string]int64) error {
	sql := fmt.Sprintf(`SELECT %s, COUNT(*) FROM pencatatan GROUP BY %s`, column, column)
	rows, err := r.txManager.GetQuerier(ctx).Query(ctx, sql)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("count by %s: %w", column, err))
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return apperror.NewDatabase(fmt.Errorf("scan count: %w", err))
		}
		into[key] = count
	}
	return rows.Err()
}

// DateStats summarizes number usage per registration date, newest first.
func (r *PencatatanRepo) DateStats(ctx context.Context, limit int) ([]pencatatan.DateStat, error) {
	sql := `
		SELECT reg_date AS date,
		       COUNT(*) AS total_records,
		       COUNT(DISTINCT reg_number) AS used_numbers,
		       MAX(reg_number) AS max_number
		FROM pencatatan
		GROUP BY reg_date
		ORDER BY reg_date DESC
		LIMIT $1
	`

	var stats []pencatatan.DateStat
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &stats, sql, limit); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("date stats: %w", err))
	}
	return stats, nil
}

// BackfillArchivePath attaches an archive path to the record matching the
// bulk-upload filename fields. Compact date is YYYYMMDD.
func (r *PencatatanRepo) BackfillArchivePath(ctx context.Context, regNumber int, serviceCode, regDateCompact, archivePath string) (int64, error) {
	regDate := fmt.Sprintf("%s-%s-%s", regDateCompact[:4], regDateCompact[4:6], regDateCompact[6:8])

	q := r.builder().
		Update(pencatatanTable).
		Set("archive_path", archivePath).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{
			"reg_number":   regNumber,
			"reg_date":     regDate,
			"service_code": serviceCode,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return 0, apperror.NewDatabase(fmt.Errorf("backfill archive path: %w", err))
	}
	return tag.RowsAffected(), nil
}

// isUniqueViolation reports whether err is a postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

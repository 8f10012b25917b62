package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/rzkdmln/sicakap/internal/domain/numbering"
)

// Compile-time check.
var _ numbering.Ledger = (*PencatatanLedger)(nil)

// PencatatanLedger exposes confirmed registration numbers from the
// pencatatan table to the numbering allocator. Read-only.
type PencatatanLedger struct {
	txManager *TxManager
}

// NewPencatatanLedger creates the ledger view.
func NewPencatatanLedger(txManager *TxManager) *PencatatanLedger {
	return &PencatatanLedger{txManager: txManager}
}

// UsedNumbers returns the numbers already written for the date within the
// configured range.
func (l *PencatatanLedger) UsedNumbers(ctx context.Context, date string, rng numbering.Range) ([]int, error) {
	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("reg_number").
		From(pencatatanTable).
		Where(squirrel.Eq{"reg_date": date}).
		Where(squirrel.GtOrEq{"reg_number": rng.Start}).
		Where(squirrel.LtOrEq{"reg_number": rng.End})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var numbers []int
	querier := l.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &numbers, sql, args...); err != nil {
		return nil, fmt.Errorf("select used numbers: %w", err)
	}
	return numbers, nil
}

// MaxUsedNumber returns the highest number written for the date, zero when
// none. Intentionally unbounded by the range so settings reflect rows
// written before a range change.
func (l *PencatatanLedger) MaxUsedNumber(ctx context.Context, date string) (int, error) {
	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("COALESCE(MAX(reg_number), 0)").
		From(pencatatanTable).
		Where(squirrel.Eq{"reg_date": date})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var max int
	querier := l.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&max); err != nil {
		return 0, fmt.Errorf("select max used number: %w", err)
	}
	return max, nil
}

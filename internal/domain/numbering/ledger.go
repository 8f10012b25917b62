package numbering

import "context"

// Ledger is the allocator's read-only view of durably persisted
// registrations. Once a number is written for a date it is used forever;
// the allocator never writes here, the record CRUD flow does.
type Ledger interface {
	// UsedNumbers returns the numbers persisted for date within rng.
	UsedNumbers(ctx context.Context, date string, rng Range) ([]int, error)

	// MaxUsedNumber returns the highest number persisted for date,
	// or 0 when none exist.
	MaxUsedNumber(ctx context.Context, date string) (int, error)
}

// Recorder receives notifications of allocator state changes for audit
// purposes. Implementations must tolerate being called concurrently.
type Recorder interface {
	RecordNumbering(ctx context.Context, action string, details map[string]any)
}

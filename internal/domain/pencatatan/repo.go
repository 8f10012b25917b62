package pencatatan

import "context"

// Repository is the persistence contract for records.
// The postgres implementation lives in infrastructure/storage/postgres.
type Repository interface {
	Create(ctx context.Context, rec *Pencatatan) (int64, error)
	GetByID(ctx context.Context, id int64) (*Pencatatan, error)
	Update(ctx context.Context, rec *Pencatatan) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter) ([]Pencatatan, error)

	Stats(ctx context.Context, today string) (*Stats, error)
	DateStats(ctx context.Context, limit int) ([]DateStat, error)

	// BackfillArchivePath attaches an archive path to the record matching
	// (reg_number, service_code, compact reg date YYYYMMDD). Returns the
	// number of rows touched.
	BackfillArchivePath(ctx context.Context, regNumber int, serviceCode, regDateCompact, archivePath string) (int64, error)
}

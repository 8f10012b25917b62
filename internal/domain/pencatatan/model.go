// Package pencatatan provides the citizen service-request record domain.
// A pencatatan row is the durable fact that a registration number was used
// for a date; the numbering allocator reads these rows as its ledger.
package pencatatan

import "time"

// Status values for a record's processing state.
const (
	StatusDiproses = "DIPROSES"
	StatusSelesai  = "SELESAI"
	StatusDitolak  = "DITOLAK"
)

// Pencatatan is a single service-request record.
type Pencatatan struct {
	ID          int64     `db:"id" json:"id"`
	RegNumber   int       `db:"reg_number" json:"reg_number"`
	RegDate     string    `db:"reg_date" json:"reg_date"`
	ServiceCode string    `db:"service_code" json:"service_code"`
	NIK         string    `db:"nik" json:"nik"`
	Name        string    `db:"name" json:"name"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	Email       string    `db:"email" json:"email"`
	NoSKPWNI    string    `db:"no_skpwni" json:"no_skpwni"`
	NoSKDWNI    string    `db:"no_skdwni" json:"no_skdwni"`
	NoKK        string    `db:"no_kk" json:"no_kk"`
	NoSKBWNI    string    `db:"no_skbwni" json:"no_skbwni"`
	Status      string    `db:"status" json:"status"`
	ArchivePath string    `db:"archive_path" json:"archive_path"`
	Notes       string    `db:"notes" json:"notes"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Filter narrows record listings.
type Filter struct {
	Search      string
	Status      string
	ServiceCode string
	StartDate   string
	EndDate     string
	Page        int
	PerPage     int
}

// Offset calculates the SQL offset for the page.
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PerPage
}

// Normalized clamps pagination to sane bounds.
func (f Filter) Normalized() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
	return f
}

// Stats aggregates record counts for the dashboard.
type Stats struct {
	Total      int64            `json:"total"`
	PerStatus  map[string]int64 `json:"per_status"`
	PerService map[string]int64 `json:"per_service"`
	Today      int64            `json:"hari_ini"`
}

// DateStat summarizes number usage for one registration date.
type DateStat struct {
	Date         string `db:"date" json:"date"`
	TotalRecords int64  `db:"total_records" json:"total_records"`
	UsedNumbers  int64  `db:"used_numbers" json:"used_numbers"`
	MaxNumber    int    `db:"max_number" json:"max_number"`
}

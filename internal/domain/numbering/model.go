// Package numbering implements the daily registration-number allocator.
//
// Numbers are issued from an operator-configured range, one per front-desk
// session per active date. A number is held as an in-memory reservation until
// the record it belongs to is persisted (confirm), the holder gives it up
// (release), the hold goes stale (expiry), or an operator resets the day.
package numbering

import (
	"time"

	"github.com/rzkdmln/sicakap/internal/core/apperror"
)

const (
	// ReservationTTL is how long an unconfirmed reservation blocks its number.
	ReservationTTL = 30 * time.Minute

	// MaxRangeSpan caps end-start on the configured registration range.
	MaxRangeSpan = 10000

	// DateLayout is the calendar-date wire format.
	DateLayout = "2006-01-02"
)

// AllocStatus tells the caller whether Allocate handed out a fresh number
// or returned the session's existing hold.
type AllocStatus string

const (
	StatusNew      AllocStatus = "new"
	StatusExisting AllocStatus = "existing"
)

// Range is the operator-configured interval of issuable numbers, inclusive.
type Range struct {
	Start int
	End   int
}

// Validate enforces start < end and the span cap.
func (r Range) Validate() error {
	if r.Start >= r.End {
		return apperror.NewValidation("start number must be smaller than end number").
			WithDetail("start_number", r.Start).
			WithDetail("end_number", r.End)
	}
	if r.End-r.Start > MaxRangeSpan {
		return apperror.NewValidation("number range is too large").
			WithDetail("max_span", MaxRangeSpan)
	}
	return nil
}

// Contains reports whether n falls inside the range.
func (r Range) Contains(n int) bool {
	return n >= r.Start && n <= r.End
}

// Reservation is a session-owned hold on a number for one date.
// Lives only in memory, never persisted.
type Reservation struct {
	Number    int
	SessionID string
	CreatedAt time.Time
	Date      string
}

// Allocation is the result of an Allocate call.
type Allocation struct {
	Number int
	Status AllocStatus
}

// Settings is the informational snapshot returned to the settings screen.
// CurrentNumber is max(used)+1 for the active date, or the range start when
// nothing is used yet; it reserves nothing by itself.
type Settings struct {
	StartNumber      int
	EndNumber        int
	CurrentNumber    int
	MaxUsedNumber    int
	BookedCount      int
	RemainingNumbers int
	CurrentDate      string
}

// DateSwitch reports the outcome of an active-date change.
type DateSwitch struct {
	CurrentDate  string
	PreviousDate string
}

// ParseDate validates a YYYY-MM-DD value and returns it normalized.
func ParseDate(value string) (string, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return "", apperror.NewValidation("invalid date format, use YYYY-MM-DD").
			WithDetail("date", value)
	}
	return t.Format(DateLayout), nil
}

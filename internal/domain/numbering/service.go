package numbering

import (
	"context"
	"fmt"
	"sync"

	"github.com/rzkdmln/sicakap/internal/core/apperror"
	"github.com/rzkdmln/sicakap/internal/core/clock"
	"github.com/rzkdmln/sicakap/pkg/logger"
)

// Service owns the process-wide allocator state: the reservation table, the
// active date and the configured range. Every read-then-write runs under one
// mutex so two concurrent Allocate calls can never pick the same smallest
// free number.
//
// The state is process-local. Running more than one instance breaks the
// uniqueness guarantee unless the table moves to a shared store.
type Service struct {
	mu         sync.Mutex
	table      *Table
	rng        Range
	activeDate string // empty until first access, then sticky

	ledger   Ledger
	clock    clock.Clock
	recorder Recorder
}

// Config holds allocator construction parameters.
type Config struct {
	Range  Range
	Ledger Ledger
	Clock  clock.Clock

	// Recorder is optional; nil disables audit notifications.
	Recorder Recorder
}

// NewService creates the allocator. Construct once at process start and
// inject into handlers; all mutation goes through its locked methods.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.Range.Validate(); err != nil {
		return nil, fmt.Errorf("registration range: %w", err)
	}
	if cfg.Ledger == nil {
		return nil, fmt.Errorf("numbering service requires a ledger")
	}
	c := cfg.Clock
	if c == nil {
		c = clock.System{}
	}
	return &Service{
		table:    NewTable(),
		rng:      cfg.Range,
		ledger:   cfg.Ledger,
		clock:    c,
		recorder: cfg.Recorder,
	}, nil
}

// Allocate hands out the smallest free number in the configured range for
// the active date, or returns the session's existing hold. The ledger read
// happens under the lock so the scan and the insert form one critical
// section; the ledger query is indexed and cheap enough to hold it.
func (s *Service) Allocate(ctx context.Context, sessionID string) (*Allocation, error) {
	if sessionID == "" {
		return nil, apperror.NewUnauthorized("missing session")
	}

	s.mu.Lock()
	alloc, date, err := s.allocateLocked(ctx, sessionID)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if alloc.Status == StatusNew {
		s.record(ctx, "allocate", map[string]any{
			"reg_number": alloc.Number,
			"date":       date,
			"session_id": sessionID,
		})
		logger.Info(ctx, "registration number reserved",
			"reg_number", alloc.Number, "date", date)
	}
	return alloc, nil
}

// allocateLocked is the allocation critical section. Caller holds s.mu.
func (s *Service) allocateLocked(ctx context.Context, sessionID string) (*Allocation, string, error) {
	now := s.clock.Now()
	if expired := s.table.ExpireStale(now); expired > 0 {
		logger.Info(ctx, "expired stale reservations", "count", expired)
	}

	date := s.currentDateLocked()

	// Idempotent re-request: one live reservation per session per date.
	if existing := s.table.FindBySession(sessionID, date); existing != nil {
		return &Allocation{Number: existing.Number, Status: StatusExisting}, date, nil
	}

	used, err := s.ledger.UsedNumbers(ctx, date, s.rng)
	if err != nil {
		return nil, date, fmt.Errorf("read used numbers for %s: %w", date, err)
	}

	taken := s.table.NumbersForDate(date, s.rng)
	for _, n := range used {
		taken[n] = struct{}{}
	}

	for candidate := s.rng.Start; candidate <= s.rng.End; candidate++ {
		if _, ok := taken[candidate]; ok {
			continue
		}
		s.table.Insert(&Reservation{
			Number:    candidate,
			SessionID: sessionID,
			CreatedAt: now,
			Date:      date,
		})
		return &Allocation{Number: candidate, Status: StatusNew}, date, nil
	}

	return nil, date, apperror.NewRangeExhausted(date, s.rng.Start, s.rng.End)
}

// Release drops the session's hold on number. Silent no-op when the
// reservation is absent or owned by another session, so retried client
// calls never fail.
func (s *Service) Release(ctx context.Context, sessionID string, number int) bool {
	s.mu.Lock()
	res := s.table.Get(number)
	owned := res != nil && res.SessionID == sessionID
	if owned {
		s.table.RemoveByNumber(number)
	}
	s.mu.Unlock()

	if owned {
		s.record(ctx, "release", map[string]any{
			"reg_number": number,
			"date":       res.Date,
			"session_id": sessionID,
		})
		logger.Info(ctx, "registration number released",
			"reg_number", number, "date", res.Date)
	}
	return owned
}

// Confirm signals that the record carrying number has been persisted and
// drops the reservation. It is a hand-off, not a transactional commit: the
// allocator does not verify the ledger write. Same no-op semantics as
// Release for unknown or foreign numbers.
func (s *Service) Confirm(ctx context.Context, sessionID string, number int) bool {
	s.mu.Lock()
	res := s.table.Get(number)
	owned := res != nil && res.SessionID == sessionID
	if owned {
		s.table.RemoveByNumber(number)
	}
	s.mu.Unlock()

	if owned {
		s.record(ctx, "confirm", map[string]any{
			"reg_number": number,
			"date":       res.Date,
			"session_id": sessionID,
		})
		logger.Info(ctx, "registration number confirmed",
			"reg_number", number, "date", res.Date)
	}
	return owned
}

// SwitchDate changes the active date and clears the ENTIRE reservation
// table, not just the old date's entries: switching is an infrequent
// operator action and any in-flight reservation is stale relative to the
// new context. Rejects malformed dates with no side effects.
func (s *Service) SwitchDate(ctx context.Context, newDate string) (*DateSwitch, error) {
	date, err := ParseDate(newDate)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	previous := s.activeDate
	s.activeDate = date
	cleared := s.table.ClearAll()
	s.mu.Unlock()

	s.record(ctx, "switch-date", map[string]any{
		"current_date":  date,
		"previous_date": previous,
		"cleared":       cleared,
	})
	logger.Info(ctx, "active date switched",
		"current_date", date, "previous_date", previous, "cleared", cleared)

	return &DateSwitch{CurrentDate: date, PreviousDate: previous}, nil
}

// ResetDay clears reservations for the active date only.
func (s *Service) ResetDay(ctx context.Context) (string, int) {
	s.mu.Lock()
	date := s.currentDateLocked()
	cleared := s.table.ClearForDate(date)
	s.mu.Unlock()

	s.record(ctx, "reset-day", map[string]any{"date": date, "cleared": cleared})
	logger.Info(ctx, "daily reservations reset", "date", date, "cleared", cleared)
	return date, cleared
}

// ResetAll unconditionally empties the reservation table.
func (s *Service) ResetAll(ctx context.Context) int {
	s.mu.Lock()
	cleared := s.table.ClearAll()
	s.mu.Unlock()

	s.record(ctx, "reset-all", map[string]any{"cleared": cleared})
	logger.Info(ctx, "all reservations reset", "cleared", cleared)
	return cleared
}

// SetRange updates the configured range. Pure configuration: reservations
// outside the new range stay alive, work in progress is not invalidated.
func (s *Service) SetRange(ctx context.Context, start, end int) error {
	rng := Range{Start: start, End: end}
	if err := rng.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.rng = rng
	s.mu.Unlock()

	s.record(ctx, "set-range", map[string]any{"start_number": start, "end_number": end})
	logger.Info(ctx, "registration range updated", "start_number", start, "end_number", end)
	return nil
}

// ReleaseSession frees every reservation the session holds across all
// dates. Called on logout.
func (s *Service) ReleaseSession(ctx context.Context, sessionID string) []int {
	if sessionID == "" {
		return nil
	}

	s.mu.Lock()
	freed := s.table.ReleaseSession(sessionID)
	s.mu.Unlock()

	if len(freed) > 0 {
		s.record(ctx, "release-session", map[string]any{
			"session_id": sessionID,
			"numbers":    freed,
		})
		logger.Info(ctx, "session reservations released",
			"session_id", sessionID, "count", len(freed))
	}
	return freed
}

// Settings returns the informational snapshot for the settings screen.
func (s *Service) Settings(ctx context.Context) (*Settings, error) {
	s.mu.Lock()
	date := s.currentDateLocked()
	rng := s.rng
	booked := s.table.CountForDate(date)
	s.mu.Unlock()

	maxUsed, err := s.ledger.MaxUsedNumber(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("read max used number for %s: %w", date, err)
	}

	current := rng.Start
	if maxUsed > 0 {
		current = maxUsed + 1
	}

	floor := rng.Start - 1
	if maxUsed > floor {
		floor = maxUsed
	}
	remaining := rng.End - floor
	if remaining < 0 {
		remaining = 0
	}

	return &Settings{
		StartNumber:      rng.Start,
		EndNumber:        rng.End,
		CurrentNumber:    current,
		MaxUsedNumber:    maxUsed,
		BookedCount:      booked,
		RemainingNumbers: remaining,
		CurrentDate:      date,
	}, nil
}

// ActiveDate returns the current active date, defaulting it to today on
// first access.
func (s *Service) ActiveDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentDateLocked()
}

// currentDateLocked lazily initializes the active date. Caller holds s.mu.
func (s *Service) currentDateLocked() string {
	if s.activeDate == "" {
		s.activeDate = s.clock.Now().Format(DateLayout)
	}
	return s.activeDate
}

// record forwards to the audit recorder when one is configured. Runs
// outside the mutex so audit I/O never extends the critical section.
func (s *Service) record(ctx context.Context, action string, details map[string]any) {
	if s.recorder != nil {
		s.recorder.RecordNumbering(ctx, action, details)
	}
}

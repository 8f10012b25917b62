package numbering

import "time"

// Table is the in-memory set of outstanding reservations, keyed by number.
// The uniqueness of the map key is what enforces "one live holder per number".
//
// Table is not safe for concurrent use; the owning Service serializes access.
type Table struct {
	byNumber map[int]*Reservation
}

// NewTable creates an empty reservation table.
func NewTable() *Table {
	return &Table{byNumber: make(map[int]*Reservation)}
}

// ExpireStale removes every reservation older than ReservationTTL and
// returns how many were dropped. Must run before any allocation decision so
// stale holds never block a new requester.
func (t *Table) ExpireStale(now time.Time) int {
	var stale []int
	for num, res := range t.byNumber {
		if now.Sub(res.CreatedAt) > ReservationTTL {
			stale = append(stale, num)
		}
	}
	for _, num := range stale {
		delete(t.byNumber, num)
	}
	return len(stale)
}

// FindBySession returns the reservation owned by sessionID for date, or nil.
func (t *Table) FindBySession(sessionID, date string) *Reservation {
	for _, res := range t.byNumber {
		if res.SessionID == sessionID && res.Date == date {
			return res
		}
	}
	return nil
}

// Get returns the reservation for number, or nil.
func (t *Table) Get(number int) *Reservation {
	return t.byNumber[number]
}

// Insert records a reservation, replacing any previous holder of the number.
func (t *Table) Insert(res *Reservation) {
	t.byNumber[res.Number] = res
}

// RemoveByNumber drops the reservation for number unconditionally.
// Ownership is checked by the caller.
func (t *Table) RemoveByNumber(number int) {
	delete(t.byNumber, number)
}

// NumbersForDate returns the reserved numbers for date that fall inside rng.
func (t *Table) NumbersForDate(date string, rng Range) map[int]struct{} {
	taken := make(map[int]struct{})
	for num, res := range t.byNumber {
		if res.Date == date && rng.Contains(num) {
			taken[num] = struct{}{}
		}
	}
	return taken
}

// CountForDate returns how many reservations exist for date.
func (t *Table) CountForDate(date string) int {
	count := 0
	for _, res := range t.byNumber {
		if res.Date == date {
			count++
		}
	}
	return count
}

// ReleaseSession removes every reservation owned by sessionID across all
// dates and returns the numbers freed. Used on logout so a session never
// leaks a held number past its lifetime.
func (t *Table) ReleaseSession(sessionID string) []int {
	var freed []int
	for num, res := range t.byNumber {
		if res.SessionID == sessionID {
			freed = append(freed, num)
		}
	}
	for _, num := range freed {
		delete(t.byNumber, num)
	}
	return freed
}

// ClearForDate removes every reservation for date and returns the count.
func (t *Table) ClearForDate(date string) int {
	var stale []int
	for num, res := range t.byNumber {
		if res.Date == date {
			stale = append(stale, num)
		}
	}
	for _, num := range stale {
		delete(t.byNumber, num)
	}
	return len(stale)
}

// ClearAll empties the table and returns how many reservations were dropped.
func (t *Table) ClearAll() int {
	n := len(t.byNumber)
	t.byNumber = make(map[int]*Reservation)
	return n
}

// Len returns the number of live reservations.
func (t *Table) Len() int {
	return len(t.byNumber)
}
